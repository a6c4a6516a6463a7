package assignment

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/somalms/soma/core"
	"github.com/somalms/soma/core/resource"
)

// Store is the assignments of one course at a time.
type Store struct {
	*resource.Store[Assignment]
}

func NewStore(deps resource.Deps) *Store {
	return &Store{Store: resource.NewStore[Assignment]("assignments", "/assignments", deps)}
}

func (s *Store) FetchForCourse(ctx context.Context, courseID int) error {
	return s.FetchFrom(ctx, fmt.Sprintf("/courses/%d/assignments", courseID), nil)
}

// SubmissionStore holds the submissions visible to the current user: their
// own as a student, the whole collection as a teacher.
type SubmissionStore struct {
	*resource.Store[Submission]
}

func NewSubmissionStore(deps resource.Deps) *SubmissionStore {
	return &SubmissionStore{Store: resource.NewStore[Submission]("submissions", "/submissions", deps)}
}

func (s *SubmissionStore) FetchForAssignment(ctx context.Context, assignmentID int) error {
	return s.FetchFrom(ctx, fmt.Sprintf("/assignments/%d/submissions", assignmentID), nil)
}

// Submit hands in content and optionally a file. The file path goes through
// the multipart upload with the long timeout and progress reporting.
func (s *SubmissionStore) Submit(
	ctx context.Context,
	assignmentID int,
	content string,
	file *core.UploadFile,
	progress core.ProgressFunc,
) error {
	deps := s.Depends()
	if !deps.Auth.IsLoggedIn() {
		deps.Notifier.Error("you must be logged in to submit")
		return errors.Wrap(core.ErrNotAuthenticated, "submitting")
	}

	path := fmt.Sprintf("/assignments/%d/submissions", assignmentID)
	var err error
	if file != nil {
		fields := map[string]string{"content": content}
		err = deps.Client.Upload(ctx, path, fields, []core.UploadFile{*file}, nil, progress)
	} else {
		body := struct {
			Content string `json:"content"`
		}{Content: content}
		err = deps.Client.Post(ctx, path, body, nil)
	}
	if err != nil {
		deps.Notifier.Error(core.ErrorMessage(err))
		return err
	}

	deps.Cache.Invalidate("submissions")
	if err := s.Refetch(ctx); err != nil {
		return errors.Wrap(err, "resyncing submissions")
	}
	deps.Notifier.Success("submission sent")
	return nil
}

// GradeSubmission records a grade (teacher flow) and resynchronizes.
func (s *SubmissionStore) GradeSubmission(ctx context.Context, submissionID int, grade NewGrade) error {
	return s.Mutate(ctx, "grade saved", func(ctx context.Context) error {
		return s.Depends().Client.Put(ctx, fmt.Sprintf("/submissions/%d/grade", submissionID), grade, nil)
	})
}

// HasSubmitted is a pure projection: has this user already submitted here.
func (s *SubmissionStore) HasSubmitted(assignmentID, userID int) bool {
	for _, sub := range s.Items() {
		if sub.AssignmentID == assignmentID && sub.UserID == userID {
			return true
		}
	}
	return false
}

// GradeFor returns the grade of this user's submission, if any.
func (s *SubmissionStore) GradeFor(assignmentID, userID int) (Grade, bool) {
	for _, sub := range s.Items() {
		if sub.AssignmentID == assignmentID && sub.UserID == userID && sub.Grade != nil {
			return *sub.Grade, true
		}
	}
	return Grade{}, false
}
