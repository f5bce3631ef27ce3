package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"socialfeed/internal/logger"
	"socialfeed/internal/model"
	"socialfeed/internal/repository"
)

const maxUsernameAttempts = 3

// IdentityService maps authentication principals to stored users.
type IdentityService struct {
	users repository.UserRepository
}

func NewIdentityService(users repository.UserRepository) *IdentityService {
	return &IdentityService{users: users}
}

// ResolveOrCreateUser returns the id of the user bound to the principal,
// creating the user on first sight. Concurrent calls for one principal
// converge on a single row through the external id's unique key.
func (s *IdentityService) ResolveOrCreateUser(ctx context.Context, p model.Principal) (string, error) {
	if p.ExternalID == "" {
		return "", model.ErrMissingExternalID
	}

	if id, found, err := s.lookup(ctx, p.ExternalID); err != nil || found {
		return id, err
	}

	base := deriveUsername(p)
	if base == "" {
		return "", model.ErrMissingIdentity
	}

	var email *string
	if e := strings.TrimSpace(p.Email); e != "" {
		email = &e
	}

	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		username := base
		if attempt > 0 {
			username = base + "_" + uuid.NewString()[:6]
		}

		name := strings.TrimSpace(p.DisplayName)
		if name == "" {
			name = username
		}

		user := &model.User{
			ID:             uuid.NewString(),
			ExternalAuthID: p.ExternalID,
			Name:           name,
			Username:       username,
			Email:          email,
			Image:          p.AvatarURL,
		}

		inserted, err := s.users.CreateIfAbsent(ctx, user)
		if err != nil {
			return "", model.StoreFailure("create user", err)
		}
		if inserted {
			log := logger.Component("identity")
			log.Info().
				Str("user_id", user.ID).
				Str("username", user.Username).
				Msg("user created")
			return user.ID, nil
		}

		// Some unique key already exists. Either a concurrent call created
		// this principal, or the email or username belongs to someone else.
		if id, found, err := s.lookup(ctx, p.ExternalID); err != nil || found {
			return id, err
		}
		if email != nil {
			taken, err := s.users.ExistsByEmail(ctx, *email)
			if err != nil {
				return "", model.StoreFailure("check email", err)
			}
			if taken {
				return "", model.ErrEmailTaken
			}
		}
	}

	return "", model.ErrUsernameTaken
}

func (s *IdentityService) lookup(ctx context.Context, externalID string) (string, bool, error) {
	u, err := s.users.GetByExternalID(ctx, externalID)
	if err == nil {
		return u.ID, true, nil
	}
	if errors.Is(err, model.ErrNotFound) {
		return "", false, nil
	}
	return "", false, model.StoreFailure("get user by external id", err)
}

// CurrentActorID returns "" for an anonymous caller, otherwise the resolved user id.
func (s *IdentityService) CurrentActorID(ctx context.Context, p *model.Principal) (string, error) {
	if p == nil {
		return "", nil
	}
	return s.ResolveOrCreateUser(ctx, *p)
}

// GetCurrentUser returns the stored user for the principal, or nil when anonymous.
func (s *IdentityService) GetCurrentUser(ctx context.Context, p *model.Principal) (*model.User, error) {
	id, err := s.CurrentActorID(ctx, p)
	if err != nil || id == "" {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, classify("get current user", err)
	}
	return u, nil
}

// deriveUsername picks the handle, else the local part of the email, and
// reduces it to lower-case [a-z0-9._].
func deriveUsername(p model.Principal) string {
	source := strings.TrimSpace(p.Username)
	if source == "" {
		local, _, _ := strings.Cut(strings.TrimSpace(p.Email), "@")
		source = local
	}
	if source == "" {
		return ""
	}

	lowered := cases.Lower(language.Und).String(source)

	var b strings.Builder
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}
