package formation

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/somalms/soma/core"
	"github.com/somalms/soma/core/resource"
)

// EnrollmentStore is the current user's enrollments.
type EnrollmentStore struct {
	*resource.Store[Enrollment]
}

func NewEnrollmentStore(deps resource.Deps) *EnrollmentStore {
	return &EnrollmentStore{Store: resource.NewStore[Enrollment]("enrollments", "/enrollments", deps)}
}

// Enroll joins a formation. A 422 "already enrolled" answer is informational,
// not an error: the user is where they wanted to be.
func (s *EnrollmentStore) Enroll(ctx context.Context, formationID int) error {
	deps := s.Depends()
	if !deps.Auth.IsLoggedIn() {
		deps.Notifier.Error("you must be logged in to enroll")
		return errors.Wrap(core.ErrNotAuthenticated, "enrolling")
	}

	err := deps.Client.Post(ctx, fmt.Sprintf("/formations/%d/enroll", formationID), nil, nil)
	if err != nil {
		if core.IsUnprocessable(err) {
			deps.Notifier.Info(core.ErrorMessage(err))
			return nil
		}
		deps.Notifier.Error(core.ErrorMessage(err))
		return err
	}

	// total_enrolled moved too
	deps.Cache.Invalidate("enrollments")
	deps.Cache.Invalidate("formations")
	if err := s.Refetch(ctx); err != nil {
		return errors.Wrap(err, "resyncing enrollments")
	}
	deps.Notifier.Success("enrolled")
	return nil
}

// Unenroll leaves a formation; the backend cascades the progress data.
func (s *EnrollmentStore) Unenroll(ctx context.Context, formationID int) error {
	return s.Mutate(ctx, "unenrolled", func(ctx context.Context) error {
		return s.Depends().Client.Delete(ctx, fmt.Sprintf("/formations/%d/unenroll", formationID))
	}, "formations", "progress")
}

// IsEnrolled reports whether the fetched enrollments include the formation.
func (s *EnrollmentStore) IsEnrolled(formationID int) bool {
	_, ok := s.For(formationID)
	return ok
}

// For returns the fetched enrollment for one formation.
func (s *EnrollmentStore) For(formationID int) (Enrollment, bool) {
	for _, e := range s.Items() {
		if e.FormationID == formationID {
			return e, true
		}
	}
	return Enrollment{}, false
}

// EnrolledIDs projects the enrolled formation ids.
func (s *EnrollmentStore) EnrolledIDs() []int {
	items := s.Items()
	ids := make([]int, 0, len(items))
	for _, e := range items {
		ids = append(ids, e.FormationID)
	}
	return ids
}
