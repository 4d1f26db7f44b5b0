package subscriber

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/mwalimu/tutorhub/core"
)

var (
	// ErrNotFound is returned when no subscriber matches the given ID or email.
	ErrNotFound = errors.New("subscriber not found")
	// ErrAlreadySubscribed is returned when an active email subscribes again.
	ErrAlreadySubscribed = core.NewValidationError(nil, core.FieldError{Field: "email", Error: "This email is already subscribed"})
)

type (
	Repository interface {
		CreateSubscriber(ctx context.Context, s Subscriber, exec ...core.DBExecutor) (Subscriber, error)
		QuerySubscribers(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, page core.PageQuery, exec ...core.DBExecutor) ([]Subscriber, int, error)
		GetSubscriberByID(ctx context.Context, id string, exec ...core.DBExecutor) (Subscriber, error)
		GetSubscriberByEmail(ctx context.Context, email string, exec ...core.DBExecutor) (Subscriber, error)
		UpdateSubscriber(ctx context.Context, s Subscriber, exec ...core.DBExecutor) (Subscriber, error)
		DeleteSubscribersByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error)
	}

	Service interface {
		Subscribe(se SubscribeEmail) (Subscriber, error)
		Unsubscribe(se SubscribeEmail) (Subscriber, error)
		Query(filter *QueryFilter, ordering []core.DBOrdering, page core.PageQuery) ([]Subscriber, core.Pagination, error)
		GetByID(id string) (Subscriber, error)
		RecordSend(ids ...string) error
		Delete(ids ...string) error
	}

	service struct {
		db      core.DB
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(db core.DB, repo Repository, mailSvc core.EmailService, conf *core.Config) Service {
	return &service{
		db:      db,
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

// Subscribe creates a new active subscriber, or reactivates a previously
// unsubscribed one without creating a duplicate row. Subscribing an email
// that is already active is a validation error.
func (svc *service) Subscribe(se SubscribeEmail) (Subscriber, error) {
	ctx := context.Background()

	existing, err := svc.repo.GetSubscriberByEmail(ctx, se.Email)
	switch errors.Cause(err) {
	case nil:
		if existing.Active() {
			return Subscriber{}, ErrAlreadySubscribed
		}
		existing.Status = StatusActive
		existing.UnsubscribedAt = null.Time{}
		existing.UpdatedAt = time.Now().UTC()
		return svc.repo.UpdateSubscriber(ctx, existing)
	case ErrNotFound:
	default:
		return Subscriber{}, err
	}

	now := time.Now().UTC()
	s := Subscriber{
		Email:     se.Email,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s, err = svc.repo.CreateSubscriber(ctx, s)
	if err != nil {
		return Subscriber{}, err
	}

	// welcome mail is best effort
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Address: s.Email}},
		Subject:      "Welcome to our newsletter",
		TemplateName: "welcome-subscriber",
		TemplateData: s,
	})
	return s, nil
}

func (svc *service) Unsubscribe(se SubscribeEmail) (Subscriber, error) {
	ctx := context.Background()

	s, err := svc.repo.GetSubscriberByEmail(ctx, se.Email)
	if err != nil {
		return Subscriber{}, err
	}
	if !s.Active() {
		return s, nil // idempotent
	}

	now := time.Now().UTC()
	s.Status = StatusUnsubscribed
	s.UnsubscribedAt = null.TimeFrom(now)
	s.UpdatedAt = now
	return svc.repo.UpdateSubscriber(ctx, s)
}

func (svc *service) Query(filter *QueryFilter, ordering []core.DBOrdering, page core.PageQuery) ([]Subscriber, core.Pagination, error) {
	subs, total, err := svc.repo.QuerySubscribers(context.Background(), filter, ordering, page)
	if err != nil {
		return nil, core.Pagination{}, err
	}
	return subs, core.NewPagination(page, total), nil
}

func (svc *service) GetByID(id string) (Subscriber, error) {
	return svc.repo.GetSubscriberByID(context.Background(), id)
}

// RecordSend bumps the send history after a newsletter dispatch.
func (svc *service) RecordSend(ids ...string) error {
	ctx := context.Background()
	now := time.Now().UTC()

	for _, id := range ids {
		s, err := svc.repo.GetSubscriberByID(ctx, id)
		if err != nil {
			return err
		}
		s.SendCount++
		s.LastSentAt = null.TimeFrom(now)
		s.UpdatedAt = now
		if _, err = svc.repo.UpdateSubscriber(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (svc *service) Delete(ids ...string) error {
	_, err := svc.repo.DeleteSubscribersByID(context.Background(), ids)
	return err
}
