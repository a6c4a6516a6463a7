package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/somalms/soma/core"
	"github.com/somalms/soma/core/resource"
)

// Store is the admin-facing users collection.
type Store struct {
	*resource.Store[User]
}

func NewStore(deps resource.Deps) *Store {
	return &Store{Store: resource.NewStore[User]("users", "/users", deps)}
}

// Filter is a pure projection over the fetched collection, recomputed on
// every call.
func (s *Store) Filter(qf QueryFilter) []User {
	qf.Clean()
	search := strings.ToLower(qf.Search)

	var out []User
	for _, usr := range s.Items() {
		if search != "" &&
			!strings.Contains(strings.ToLower(usr.Nom), search) &&
			!strings.Contains(strings.ToLower(usr.Email), search) {
			continue
		}
		if qf.Role != "" && usr.Role != qf.Role {
			continue
		}
		if qf.IsActive != nil && usr.IsActive != *qf.IsActive {
			continue
		}
		out = append(out, usr)
	}
	return out
}

// ToggleActive flips a user's active flag with an optimistic local patch:
// items reflect the toggle immediately, and roll back if the backend refuses.
func (s *Store) ToggleActive(ctx context.Context, id int) error {
	deps := s.Depends()
	if !deps.Auth.IsLoggedIn() {
		deps.Notifier.Error("you must be logged in to do this")
		return errors.Wrap(core.ErrNotAuthenticated, "toggling user")
	}

	prev := s.Items()
	patched := make([]User, len(prev))
	copy(patched, prev)
	for i := range patched {
		if patched[i].ID == id {
			patched[i].IsActive = !patched[i].IsActive
		}
	}
	s.SetItems(patched)

	if err := deps.Client.Patch(ctx, fmt.Sprintf("/users/%d/toggle-active", id), nil, nil); err != nil {
		s.SetItems(prev) // rollback
		deps.Notifier.Error(core.ErrorMessage(err))
		return err
	}

	deps.Cache.Invalidate("users")
	deps.Notifier.Success("user status updated")
	return nil
}
