package certificate

import (
	"context"
	"fmt"

	"github.com/somalms/soma/core/resource"
)

// Store is the certificates collection.
type Store struct {
	*resource.Store[Certificate]
}

func NewStore(deps resource.Deps) *Store {
	return &Store{Store: resource.NewStore[Certificate]("certificates", "/certificates", deps)}
}

// FetchMine loads the current user's certificates.
func (s *Store) FetchMine(ctx context.Context) error {
	return s.FetchFrom(ctx, "/certificates/my", nil)
}

// FetchMyCourseCertificates loads the course-level subset.
func (s *Store) FetchMyCourseCertificates(ctx context.Context) error {
	return s.FetchFrom(ctx, "/my-course-certificates", nil)
}

// Verify checks a verification code; public, no auth guard.
func (s *Store) Verify(ctx context.Context, code string) (Certificate, error) {
	var cert Certificate
	err := s.Depends().Client.Get(ctx, fmt.Sprintf("/certificates/verify/%s", code), nil, &cert)
	return cert, err
}

// Regenerate reissues the artifact with a new verification code.
func (s *Store) Regenerate(ctx context.Context, id int) error {
	return s.Mutate(ctx, "certificate regenerated", func(ctx context.Context) error {
		return s.Depends().Client.Post(ctx, fmt.Sprintf("/certificates/%d/regenerate", id), nil, nil)
	})
}

// Invalidate revokes the certificate (admin flow).
func (s *Store) Invalidate(ctx context.Context, id int) error {
	return s.Mutate(ctx, "certificate invalidated", func(ctx context.Context) error {
		return s.Depends().Client.Patch(ctx, fmt.Sprintf("/certificates/%d/invalidate", id), nil, nil)
	})
}
