package contact

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/mwalimu/tutorhub/core"
)

// Statuses
const (
	StatusNew       = "new"
	StatusRead      = "read"
	StatusResponded = "responded"
)

var Statuses = []string{StatusNew, StatusRead, StatusResponded}

type Contact struct {
	ID         string      `db:"id" json:"id"`
	Name       string      `db:"name" json:"name"`
	Email      string      `db:"email" json:"email"`
	Phone      null.String `db:"phone" json:"phone"`
	Curriculum null.String `db:"curriculum" json:"curriculum"`
	Message    string      `db:"message" json:"message"`
	Status     string      `db:"status" json:"status"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"` // UTC
	UpdatedAt  time.Time   `db:"updated_at" json:"updated_at"` // UTC
}

// NewContact is the public contact form payload.
type NewContact struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"omitempty,phone"`
	Curriculum string `json:"curriculum"`
	Message    string `json:"message" validate:"required"`
}

func (nc *NewContact) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Email = core.CleanString(nc.Email, true /* lower */)
	nc.Phone = core.CleanString(nc.Phone)
	nc.Curriculum = core.CleanString(nc.Curriculum)
	nc.Message = core.CleanString(nc.Message)
	return validate.Struct(nc)
}

// UpdateContact lets the back office advance the status or amend details.
type UpdateContact struct {
	Name       string  `json:"name"`
	Email      string  `json:"email" validate:"omitempty,email"`
	Phone      *string `json:"phone" validate:"omitempty"`
	Curriculum *string `json:"curriculum"`
	Message    string  `json:"message"`
	Status     string  `json:"status" validate:"omitempty,oneof=new read responded"`
}

func (uc *UpdateContact) Validate(validate *validator.Validate) error {
	uc.Name = core.CleanString(uc.Name)
	uc.Email = core.CleanString(uc.Email, true /* lower */)
	return validate.Struct(uc)
}

type QueryFilter struct {
	Search      string    `query:"search"`
	Status      string    `query:"status"`
	CreatedFrom time.Time `query:"created_from"`
	CreatedTo   time.Time `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Status == "" && qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}
