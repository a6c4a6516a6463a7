package assignment

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/somalms/soma/core"
)

// Assignment is a course-scoped task.
type Assignment struct {
	ID          int       `json:"id"`
	CourseID    int       `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	MaxPoints   float64   `json:"max_points"`
	DueDate     null.Time `json:"due_date"`
}

func (a Assignment) IsOverdue(now time.Time) bool {
	return a.DueDate.Valid && now.After(a.DueDate.Time)
}

// Submission links a user to an assignment, with content and/or a file and an
// optional grade.
type Submission struct {
	ID           int         `json:"id"`
	AssignmentID int         `json:"assignment_id"`
	UserID       int         `json:"user_id"`
	Content      string      `json:"content"`
	FileURL      null.String `json:"file_url"`
	SubmittedAt  time.Time   `json:"submitted_at"`
	Grade        *Grade      `json:"grade,omitempty"`
}

func (s Submission) IsGraded() bool { return s.Grade != nil }

type Grade struct {
	Points   float64 `json:"points"`
	Feedback string  `json:"feedback"`
}

type NewAssignment struct {
	CourseID    int     `json:"course_id" validate:"required"`
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	MaxPoints   float64 `json:"max_points" validate:"gte=0"`
	DueDate     string  `json:"due_date,omitempty"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	return validate.Struct(na)
}

type NewGrade struct {
	Points   float64 `json:"points" validate:"gte=0"`
	Feedback string  `json:"feedback"`
}

func (ng *NewGrade) Validate(validate *validator.Validate) error {
	ng.Feedback = core.CleanString(ng.Feedback)
	return validate.Struct(ng)
}
