package subscriber

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/mwalimu/tutorhub/core"
)

// Statuses
const (
	StatusActive       = "active"
	StatusUnsubscribed = "unsubscribed"
)

var Statuses = []string{StatusActive, StatusUnsubscribed}

// Subscriber is a newsletter opt-in captured from the site footer.
type Subscriber struct {
	ID             string    `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	Status         string    `db:"status" json:"status"`
	UnsubscribedAt null.Time `db:"unsubscribed_at" json:"unsubscribed_at"`
	SendCount      int       `db:"send_count" json:"send_count"`
	LastSentAt     null.Time `db:"last_sent_at" json:"last_sent_at"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"` // UTC
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"` // UTC
}

func (s *Subscriber) Active() bool { return s.Status == StatusActive }

type SubscribeEmail struct {
	Email string `json:"email" validate:"required,email"`
}

func (se *SubscribeEmail) Validate(validate *validator.Validate) error {
	se.Email = core.CleanString(se.Email, true /* lower */)
	return validate.Struct(se)
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
