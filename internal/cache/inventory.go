package cache

import (
	"fmt"
	"time"
)

const (
	ProfileKeyPrefix     = "identity:profile:%s"
	EngagementKeyPrefix  = "engagement:%s"
	FeatureFlagsKey      = "featureflags:overrides"
	RateLimitKeyTemplate = "rl:%s:%s"
)

const (
	ProfileTTL    = 24 * time.Hour
	EngagementTTL = 2 * time.Minute
)

func ProfileKey(uid string) string {
	return fmt.Sprintf(ProfileKeyPrefix, uid)
}

func EngagementKey(uid string) string {
	return fmt.Sprintf(EngagementKeyPrefix, uid)
}

func RateLimitKey(resource, id string) string {
	return fmt.Sprintf(RateLimitKeyTemplate, resource, id)
}
