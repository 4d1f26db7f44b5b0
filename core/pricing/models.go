package pricing

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"

	"github.com/mwalimu/tutorhub/core"
)

type Plan struct {
	ID           string         `db:"id" json:"id"`
	Title        string         `db:"title" json:"title"`
	Price        float64        `db:"price" json:"price"`
	Features     pq.StringArray `db:"features" json:"features"`
	IsActive     bool           `db:"is_active" json:"is_active"`
	DisplayOrder int            `db:"display_order" json:"display_order"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"` // UTC
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"` // UTC
}

type NewPlan struct {
	Title        string   `json:"title" validate:"required"`
	Price        float64  `json:"price" validate:"gte=0"`
	Features     []string `json:"features" validate:"required,min=1,dive,required"`
	IsActive     *bool    `json:"is_active"`
	DisplayOrder int      `json:"display_order" validate:"gte=0"`
}

func (np *NewPlan) Validate(validate *validator.Validate) error {
	np.Title = core.CleanString(np.Title)
	for i, f := range np.Features {
		np.Features[i] = core.CleanString(f)
	}
	return validate.Struct(np)
}

func (np *NewPlan) Active() bool {
	if np.IsActive == nil {
		return true
	}
	return *np.IsActive
}

type UpdatePlan struct {
	Title        string   `json:"title"`
	Price        *float64 `json:"price" validate:"omitempty,gte=0"`
	Features     []string `json:"features" validate:"omitempty,min=1,dive,required"`
	IsActive     *bool    `json:"is_active"`
	DisplayOrder *int     `json:"display_order" validate:"omitempty,gte=0"`
}

func (up *UpdatePlan) Validate(validate *validator.Validate) error {
	up.Title = core.CleanString(up.Title)
	for i, f := range up.Features {
		up.Features[i] = core.CleanString(f)
	}
	return validate.Struct(up)
}

type QueryFilter struct {
	Search   string `query:"search"`
	IsActive *bool  `query:"is_active"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.IsActive == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
