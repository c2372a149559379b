package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/cinesocial/auth-api/internal/domain"
)

const maxAvatarSize = 5 * 1024 * 1024 // 5MB

// ProfileService applies profile-setup updates for authenticated users.
type ProfileService struct {
	users   domain.UserRepository
	avatars domain.AvatarStore
}

// NewProfileService creates a new ProfileService.
func NewProfileService(users domain.UserRepository, avatars domain.AvatarStore) *ProfileService {
	return &ProfileService{users: users, avatars: avatars}
}

// SetupProfile updates the user's display name and/or avatar. Both parts are
// optional; an empty display name and nil avatar data make the call a no-op
// that still succeeds. The avatar filename is derived from the user id, the
// current timestamp, and the original extension, so repeated uploads by the
// same user never collide.
func (s *ProfileService) SetupProfile(ctx context.Context, userID, displayName string, avatarData []byte, avatarFilename string) error {
	update := domain.ProfileUpdate{}

	if name := strings.TrimSpace(displayName); name != "" {
		update.DisplayName = &name
	}

	if len(avatarData) > 0 {
		if len(avatarData) > maxAvatarSize {
			return fmt.Errorf("%w: avatar exceeds 5MB limit", domain.ErrInvalidInput)
		}

		ext := strings.ToLower(filepath.Ext(avatarFilename))
		if ext == "" {
			ext = ".png"
		}
		filename := fmt.Sprintf("%s_%d%s", userID, time.Now().UnixNano(), ext)

		url, err := s.avatars.Save(ctx, filename, avatarData)
		if err != nil {
			return fmt.Errorf("save avatar: %w", err)
		}
		update.AvatarURL = &url
	}

	if err := s.users.UpdateProfile(ctx, userID, update); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}
