package course

import (
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/somalms/soma/core"
)

// Course is one content module within a Formation, composed of ordered Chapters.
type Course struct {
	ID          int    `json:"id"`
	FormationID int    `json:"formation_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index"`
}

// Chapter is the smallest trackable content unit; it can carry a file or
// video attachment.
type Chapter struct {
	ID         int         `json:"id"`
	CourseID   int         `json:"course_id"`
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	OrderIndex int         `json:"order_index"`
	FileURL    null.String `json:"file_url"`
	VideoURL   null.String `json:"video_url"`
}

func (c Chapter) HasAttachment() bool {
	return c.FileURL.Valid || c.VideoURL.Valid
}

type NewCourse struct {
	FormationID int    `json:"formation_id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index" validate:"gte=0"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	return validate.Struct(nc)
}

type UpdateCourse struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	OrderIndex  *int   `json:"order_index,omitempty" validate:"omitempty,gte=0"`
}

func (uc *UpdateCourse) Validate(validate *validator.Validate) error {
	uc.Title = core.CleanString(uc.Title)
	return validate.Struct(uc)
}

type NewChapter struct {
	CourseID   int    `json:"course_id" validate:"required"`
	Title      string `json:"title" validate:"required"`
	Content    string `json:"content"`
	OrderIndex int    `json:"order_index" validate:"gte=0"`
}

func (nc *NewChapter) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	return validate.Struct(nc)
}

// sortByOrder orders chapters by their manual order_index, falling back to ID
// for stable display of unordered content.
func sortByOrder(chapters []Chapter) {
	sort.SliceStable(chapters, func(i, j int) bool {
		if chapters[i].OrderIndex != chapters[j].OrderIndex {
			return chapters[i].OrderIndex < chapters[j].OrderIndex
		}
		return chapters[i].ID < chapters[j].ID
	})
}
