package feedback

import (
	"context"
	"fmt"

	"github.com/somalms/soma/core/resource"
)

// StudentStore holds student->teacher feedbacks.
type StudentStore struct {
	*resource.Store[Feedback]
}

func NewStudentStore(deps resource.Deps) *StudentStore {
	return &StudentStore{Store: resource.NewStore[Feedback]("student-feedbacks", "/student-feedbacks", deps)}
}

// Send posts a new feedback; it lands in the pending moderation queue.
func (s *StudentStore) Send(ctx context.Context, nf NewFeedback) error {
	return s.Create(ctx, nf, "feedback sent")
}

// Stats fetches the backend-computed summary.
func (s *StudentStore) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := s.Depends().Client.Get(ctx, "/student-feedbacks/stats", nil, &stats)
	return stats, err
}

// Approve is the moderation pass (admin flow).
func (s *StudentStore) Approve(ctx context.Context, id int) error {
	return s.Mutate(ctx, "feedback approved", func(ctx context.Context) error {
		return s.Depends().Client.Patch(ctx, fmt.Sprintf("/student-feedbacks/%d/approve", id), nil, nil)
	})
}

func (s *StudentStore) Reject(ctx context.Context, id int) error {
	return s.Mutate(ctx, "feedback rejected", func(ctx context.Context) error {
		return s.Depends().Client.Patch(ctx, fmt.Sprintf("/student-feedbacks/%d/reject", id), nil, nil)
	})
}

// Pending projects the moderation queue out of the fetched collection.
func (s *StudentStore) Pending() []Feedback {
	var out []Feedback
	for _, f := range s.Items() {
		if f.Status == StatusPending {
			out = append(out, f)
		}
	}
	return out
}

// TeacherStore holds teacher->student feedbacks.
type TeacherStore struct {
	*resource.Store[Feedback]
}

func NewTeacherStore(deps resource.Deps) *TeacherStore {
	return &TeacherStore{Store: resource.NewStore[Feedback]("teacher-feedbacks", "/teacher-feedbacks", deps)}
}

func (s *TeacherStore) Send(ctx context.Context, nf NewFeedback) error {
	return s.Create(ctx, nf, "feedback sent")
}

// FetchMine loads the feedbacks addressed to the current user.
func (s *TeacherStore) FetchMine(ctx context.Context) error {
	return s.FetchFrom(ctx, "/my-teacher-feedbacks", nil)
}

// MarkRead flags a received feedback as read.
func (s *TeacherStore) MarkRead(ctx context.Context, id int) error {
	return s.Mutate(ctx, "", func(ctx context.Context) error {
		return s.Depends().Client.Patch(ctx, fmt.Sprintf("/teacher-feedbacks/%d/read", id), nil, nil)
	})
}

// Unread projects the not-yet-read feedbacks.
func (s *TeacherStore) Unread() []Feedback {
	var out []Feedback
	for _, f := range s.Items() {
		if f.Status == StatusSent {
			out = append(out, f)
		}
	}
	return out
}
