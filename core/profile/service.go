// Package profile is the self-service side of the user record: fetch my
// profile, edit it, change the avatar. Edits are reflected in the session
// immediately without a round-trip.
package profile

import (
	"context"

	"github.com/pkg/errors"

	"github.com/somalms/soma/core"
	"github.com/somalms/soma/core/resource"
	"github.com/somalms/soma/core/session"
	"github.com/somalms/soma/core/user"
)

type Service struct {
	client   resource.Client
	manager  *session.Manager
	notifier core.Notifier
}

func NewService(client resource.Client, manager *session.Manager, notifier core.Notifier) *Service {
	return &Service{client: client, manager: manager, notifier: notifier}
}

// Fetch returns my profile. A 404 seeds a blank default built from the
// session user instead of erroring: a missing profile is an empty one.
func (s *Service) Fetch(ctx context.Context) (user.User, error) {
	var usr user.User
	if err := s.client.Get(ctx, "/profile", nil, &usr); err != nil {
		if core.IsNotFound(err) {
			if cur := s.manager.CurrentUser(); cur != nil {
				return *cur, nil
			}
			return user.User{}, nil
		}
		return user.User{}, errors.Wrap(err, "fetching profile")
	}
	return usr, nil
}

// Update persists the profile edit, then patches the in-memory session user
// so the UI reflects it without waiting for a refetch.
func (s *Service) Update(ctx context.Context, up user.UpdateProfile) (user.User, error) {
	var usr user.User
	if err := s.client.Put(ctx, "/profile", up, &usr); err != nil {
		s.notifier.Error(core.ErrorMessage(err))
		return user.User{}, err
	}

	patch := user.Patch{}
	if up.Nom != "" {
		patch.Nom = &up.Nom
	}
	if up.Tel != "" {
		patch.Tel = &up.Tel
	}
	if up.Ville != "" {
		patch.Ville = &up.Ville
	}
	if up.VilleOrigine != "" {
		patch.VilleOrigine = &up.VilleOrigine
	}
	if up.Naissance != "" {
		patch.Naissance = &up.Naissance
	}
	if up.Photo != "" {
		patch.Photo = &up.Photo
	}
	if err := s.manager.UpdateUserData(patch); err != nil {
		return user.User{}, errors.Wrap(err, "patching session user")
	}

	s.notifier.Success("profile updated")
	return usr, nil
}

// UploadAvatar sends the photo as multipart and patches the session user with
// the stored file name the backend answers with.
func (s *Service) UploadAvatar(ctx context.Context, file core.UploadFile, progress core.ProgressFunc) error {
	var resp struct {
		Photo string `json:"photo"`
	}
	if err := s.client.Upload(ctx, "/profile/photo", nil, []core.UploadFile{file}, &resp, progress); err != nil {
		s.notifier.Error(core.ErrorMessage(err))
		return err
	}
	if resp.Photo != "" {
		if err := s.manager.UpdateUserData(user.Patch{Photo: &resp.Photo}); err != nil {
			return errors.Wrap(err, "patching session user")
		}
	}
	s.notifier.Success("photo updated")
	return nil
}
