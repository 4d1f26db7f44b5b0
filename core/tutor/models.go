package tutor

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/mwalimu/tutorhub/core"
)

// Statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusPending  = "pending"
)

var Statuses = []string{StatusActive, StatusInactive, StatusPending}

type Tutor struct {
	ID            string      `db:"id" json:"id"`
	Name          string      `db:"name" json:"name"`
	Email         string      `db:"email" json:"email"`
	Phone         string      `db:"phone" json:"phone"`
	Subject       string      `db:"subject" json:"subject"`
	Qualification string      `db:"qualification" json:"qualification"`
	Experience    int         `db:"experience" json:"experience"` // years
	Rating        float64     `db:"rating" json:"rating"`
	Status        string      `db:"status" json:"status"`
	Featured      bool        `db:"featured" json:"featured"`
	Bio           null.String `db:"bio" json:"bio"`
	ImageKey      null.String `db:"image_key" json:"-"`
	ImageURL      null.String `db:"image_url" json:"image_url"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"` // UTC
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"` // UTC
}

// NewTutor contains information needed to create a new Tutor.
type NewTutor struct {
	Name          string  `json:"name" validate:"required"`
	Email         string  `json:"email" validate:"required,email"`
	Phone         string  `json:"phone" validate:"required,phone"`
	Subject       string  `json:"subject" validate:"required"`
	Qualification string  `json:"qualification" validate:"required"`
	Experience    *int    `json:"experience" validate:"required,gte=0"`
	Rating        float64 `json:"rating" validate:"gte=0,lte=5"`
	Status        string  `json:"status" validate:"omitempty,oneof=active inactive pending"`
	Featured      bool    `json:"featured"`
	Bio           string  `json:"bio"`
	Image         string  `json:"image"` // base64 payload or URL; passed through to the media host
}

func (nt *NewTutor) Validate(validate *validator.Validate, svc Service) error {
	nt.Name = core.CleanString(nt.Name)
	nt.Email = core.CleanString(nt.Email, true /* lower */)
	nt.Phone = core.CleanString(nt.Phone)
	nt.Subject = core.CleanString(nt.Subject)
	nt.Qualification = core.CleanString(nt.Qualification)

	if err := validate.Struct(nt); err != nil {
		return err
	}
	return svc.CheckUniqueness(nt.Email)
}

// UpdateTutor defines what information may be provided to modify an existing Tutor.
type UpdateTutor struct {
	Name          string   `json:"name"`
	Email         string   `json:"email" validate:"omitempty,email"`
	Phone         string   `json:"phone" validate:"omitempty,phone"`
	Subject       string   `json:"subject"`
	Qualification string   `json:"qualification"`
	Experience    *int     `json:"experience" validate:"omitempty,gte=0"`
	Rating        *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Status        string   `json:"status" validate:"omitempty,oneof=active inactive pending"`
	Featured      *bool    `json:"featured"`
	Bio           *string  `json:"bio"`
	Image         string   `json:"image"`
}

func (ut *UpdateTutor) Validate(orig Tutor, validate *validator.Validate, svc Service) error {
	ut.Name = core.CleanString(ut.Name)
	ut.Email = core.CleanString(ut.Email, true /* lower */)

	if err := validate.Struct(ut); err != nil {
		return err
	}
	if ut.Email != "" && ut.Email != orig.Email {
		return svc.CheckUniqueness(ut.Email, orig)
	}
	return nil
}

type QueryFilter struct {
	Search      string    `query:"search"`
	Status      string    `query:"status"`
	Subject     string    `query:"subject"`
	Featured    *bool     `query:"featured"`
	CreatedFrom time.Time `query:"created_from"`
	CreatedTo   time.Time `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Status == "" && qf.Subject == "" && qf.Featured == nil &&
		qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
	qf.Subject = core.CleanString(qf.Subject)
}
