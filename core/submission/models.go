package submission

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/mwalimu/tutorhub/core"
)

// Statuses
const (
	StatusPending   = "pending"
	StatusContacted = "contacted"
	StatusEnrolled  = "enrolled"
	StatusRejected  = "rejected"
)

var Statuses = []string{StatusPending, StatusContacted, StatusEnrolled, StatusRejected}

// Submission is a trial-lesson booking captured from the public site.
type Submission struct {
	ID         string      `db:"id" json:"id"`
	Name       string      `db:"name" json:"name"`
	Phone      string      `db:"phone" json:"phone"`
	Email      string      `db:"email" json:"email"`
	Curriculum null.String `db:"curriculum" json:"curriculum"`
	Grade      null.String `db:"grade" json:"grade"`
	Status     string      `db:"status" json:"status"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"` // UTC
	UpdatedAt  time.Time   `db:"updated_at" json:"updated_at"` // UTC
}

// NewSubmission is the public trial-booking form payload.
type NewSubmission struct {
	Name       string `json:"name" validate:"required"`
	Phone      string `json:"phone" validate:"required,phone"`
	Email      string `json:"email" validate:"required,email"`
	Curriculum string `json:"curriculum"`
	Grade      string `json:"grade"`
}

func (ns *NewSubmission) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Phone = core.CleanString(ns.Phone)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Curriculum = core.CleanString(ns.Curriculum)
	ns.Grade = core.CleanString(ns.Grade)
	return validate.Struct(ns)
}

type UpdateSubmission struct {
	Name       string  `json:"name"`
	Phone      string  `json:"phone" validate:"omitempty,phone"`
	Email      string  `json:"email" validate:"omitempty,email"`
	Curriculum *string `json:"curriculum"`
	Grade      *string `json:"grade"`
	Status     string  `json:"status" validate:"omitempty,oneof=pending contacted enrolled rejected"`
}

func (us *UpdateSubmission) Validate(validate *validator.Validate) error {
	us.Name = core.CleanString(us.Name)
	us.Email = core.CleanString(us.Email, true /* lower */)
	return validate.Struct(us)
}

type QueryFilter struct {
	Search      string    `query:"search"`
	Status      string    `query:"status"`
	Curriculum  string    `query:"curriculum"`
	CreatedFrom time.Time `query:"created_from"`
	CreatedTo   time.Time `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Status == "" && qf.Curriculum == "" &&
		qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
	qf.Curriculum = core.CleanString(qf.Curriculum)
}
