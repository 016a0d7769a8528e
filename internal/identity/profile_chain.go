package identity

import (
	"context"
	"strings"

	"dailyverse/internal/models"
)

// ProfileSource yields an author profile for uid, or ok=false to defer to the
// next source.
type ProfileSource func(ctx context.Context, uid string) (profile models.AuthorProfile, ok bool, err error)

// ProfileChain tries each source in order and stops at the first hit. When
// every source defers, the uid itself becomes the author name and the profile
// is marked as a fallback.
type ProfileChain []ProfileSource

// Resolve walks the chain for uid.
func (c ProfileChain) Resolve(ctx context.Context, uid string) (models.AuthorProfile, error) {
	for _, source := range c {
		profile, ok, err := source(ctx, uid)
		if err != nil {
			return models.AuthorProfile{}, err
		}
		if ok {
			return profile.Bounded(), nil
		}
	}
	return models.AuthorProfile{Name: uid, Fallback: true}.Bounded(), nil
}

// UserFinder reads stored user rows. A missing row is (nil, nil).
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// NewProfileChain returns the standard order: stored profile, provider display
// name, then the local part of the provider email.
func NewProfileChain(users UserFinder, directory Directory) ProfileChain {
	return ProfileChain{
		StoredProfile(users),
		ProviderDisplayName(directory),
		EmailLocalPart(directory),
	}
}

// StoredProfile uses the stored username or display name.
func StoredProfile(users UserFinder) ProfileSource {
	return func(ctx context.Context, uid string) (models.AuthorProfile, bool, error) {
		user, err := users.FindByID(ctx, uid)
		if err != nil || user == nil {
			return models.AuthorProfile{}, false, err
		}

		username := strings.TrimSpace(user.Username)
		name := strings.TrimSpace(user.DisplayName)
		if name == "" {
			name = username
		}
		if name == "" {
			return models.AuthorProfile{}, false, nil
		}
		return models.AuthorProfile{
			Name:     name,
			Username: username,
			PhotoURL: strings.TrimSpace(user.PhotoURL),
		}, true, nil
	}
}

// ProviderDisplayName uses the identity provider's display name.
func ProviderDisplayName(directory Directory) ProfileSource {
	return func(ctx context.Context, uid string) (models.AuthorProfile, bool, error) {
		p, err := directory.LookupProfile(ctx, uid)
		if err != nil {
			return models.AuthorProfile{}, false, err
		}
		if p.DisplayName == "" {
			return models.AuthorProfile{}, false, nil
		}
		return models.AuthorProfile{Name: p.DisplayName, PhotoURL: p.PhotoURL}, true, nil
	}
}

// EmailLocalPart uses the part of the provider email before '@'.
func EmailLocalPart(directory Directory) ProfileSource {
	return func(ctx context.Context, uid string) (models.AuthorProfile, bool, error) {
		p, err := directory.LookupProfile(ctx, uid)
		if err != nil {
			return models.AuthorProfile{}, false, err
		}
		local, _, _ := strings.Cut(p.Email, "@")
		local = strings.TrimSpace(local)
		if local == "" {
			return models.AuthorProfile{}, false, nil
		}
		return models.AuthorProfile{Name: local, PhotoURL: p.PhotoURL}, true, nil
	}
}
