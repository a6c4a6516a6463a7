package formation

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/somalms/soma/core"
	"github.com/somalms/soma/core/course"
)

// Difficulty levels, as transmitted by the backend.
const (
	DifficultyBeginner     = "debutant"
	DifficultyIntermediate = "intermediaire"
	DifficultyAdvanced     = "avance"
)

// Formation is the top-level program a student enrolls in.
type Formation struct {
	ID              int             `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	Teacher         string          `json:"teacher"`
	Price           float64         `json:"price"`
	DurationHours   int             `json:"duration_hours"`
	DifficultyLevel string          `json:"difficulty_level"`
	Courses         []course.Course `json:"courses"`
	TotalEnrolled   int             `json:"total_enrolled"`
}

// Enrollment links a user to a formation and carries the progress record.
// Unenrolling cascades the progress data server-side.
type Enrollment struct {
	ID                 int        `json:"id"`
	UserID             int        `json:"user_id"`
	FormationID        int        `json:"formation_id"`
	ProgressPercentage float64    `json:"progress_percentage"`
	EnrolledAt         time.Time  `json:"enrolled_at"`
	CompletedAt        null.Time  `json:"completed_at"`
	Formation          *Formation `json:"formation,omitempty"`
}

func (e Enrollment) IsCompleted() bool {
	return e.CompletedAt.Valid
}

type NewFormation struct {
	Title           string  `json:"title" validate:"required"`
	Description     string  `json:"description"`
	Category        string  `json:"category" validate:"required"`
	Price           float64 `json:"price" validate:"gte=0"`
	DurationHours   int     `json:"duration_hours" validate:"gte=0"`
	DifficultyLevel string  `json:"difficulty_level" validate:"required,difficulty"`
}

func (nf *NewFormation) Validate(validate *validator.Validate) error {
	nf.Title = core.CleanString(nf.Title)
	nf.Category = core.CleanString(nf.Category)
	return validate.Struct(nf)
}

type UpdateFormation struct {
	Title           string   `json:"title,omitempty"`
	Description     string   `json:"description,omitempty"`
	Category        string   `json:"category,omitempty"`
	Price           *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	DurationHours   *int     `json:"duration_hours,omitempty" validate:"omitempty,gte=0"`
	DifficultyLevel string   `json:"difficulty_level,omitempty" validate:"omitempty,difficulty"`
}

func (uf *UpdateFormation) Validate(validate *validator.Validate) error {
	uf.Title = core.CleanString(uf.Title)
	uf.Category = core.CleanString(uf.Category)
	return validate.Struct(uf)
}

// matches does a case-insensitive search on title, description and teacher.
func (f Formation) matches(term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(f.Title), term) ||
		strings.Contains(strings.ToLower(f.Description), term) ||
		strings.Contains(strings.ToLower(f.Teacher), term)
}
