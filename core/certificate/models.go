package certificate

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Certificate is a generated completion artifact, either course-level or
// formation-level (exactly one of the two ids is set).
type Certificate struct {
	ID               int       `json:"id"`
	UserID           int       `json:"user_id"`
	CourseID         null.Int  `json:"course_id"`
	FormationID      null.Int  `json:"formation_id"`
	VerificationCode string    `json:"verification_code"`
	Invalidated      bool      `json:"invalidated"`
	IssuedAt         time.Time `json:"issued_at"`
	URL              string    `json:"url"`
}

func (c Certificate) IsValid() bool { return !c.Invalidated }

func (c Certificate) IsFormationLevel() bool { return c.FormationID.Valid }
