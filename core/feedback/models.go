package feedback

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/somalms/soma/core"
)

// Student->teacher feedback goes through moderation.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Teacher->student feedback has a delivery lifecycle instead.
const (
	StatusDraft = "draft"
	StatusSent  = "sent"
	StatusRead  = "read"
)

// Feedback is a rated note between a student and a teacher, in either
// direction; the direction is carried by which store it came from.
type Feedback struct {
	ID          int       `json:"id"`
	AuthorID    int       `json:"author_id"`
	RecipientID int       `json:"recipient_id"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	Status      string    `json:"status"`
	Visible     bool      `json:"visible"`
	CreatedAt   time.Time `json:"created_at"`
}

type NewFeedback struct {
	RecipientID int    `json:"recipient_id" validate:"required"`
	Rating      int    `json:"rating" validate:"required,rating"`
	Comment     string `json:"comment"`
	Visible     bool   `json:"visible"`
}

func (nf *NewFeedback) Validate(validate *validator.Validate) error {
	nf.Comment = core.CleanString(nf.Comment)
	return validate.Struct(nf)
}

// Stats is the summary the backend computes over student feedbacks.
type Stats struct {
	Count         int            `json:"count"`
	AverageRating float64        `json:"average_rating"`
	ByRating      map[string]int `json:"by_rating"`
}
