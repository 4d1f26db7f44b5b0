package contact

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/mwalimu/tutorhub/core"
)

// ErrNotFound is returned when no contact matches the given ID.
var ErrNotFound = errors.New("contact not found")

type (
	Repository interface {
		CreateContact(ctx context.Context, c Contact, exec ...core.DBExecutor) (Contact, error)
		QueryContacts(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, page core.PageQuery, exec ...core.DBExecutor) ([]Contact, int, error)
		GetContactByID(ctx context.Context, id string, exec ...core.DBExecutor) (Contact, error)
		UpdateContact(ctx context.Context, c Contact, exec ...core.DBExecutor) (Contact, error)
		DeleteContactsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error)
	}

	Service interface {
		Create(nc NewContact) (Contact, error)
		Query(filter *QueryFilter, ordering []core.DBOrdering, page core.PageQuery) ([]Contact, core.Pagination, error)
		GetByID(id string) (Contact, error)
		Update(id string, uc UpdateContact) (Contact, error)
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

func (svc *service) Create(nc NewContact) (Contact, error) {
	now := time.Now().UTC()
	c := Contact{
		Name:       nc.Name,
		Email:      nc.Email,
		Phone:      null.NewString(nc.Phone, nc.Phone != ""),
		Curriculum: null.NewString(nc.Curriculum, nc.Curriculum != ""),
		Message:    nc.Message,
		Status:     StatusNew,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	c, err := svc.repo.CreateContact(context.Background(), c)
	if err != nil {
		return Contact{}, err
	}

	// a failed notification never fails the submission
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{svc.conf.ContactEmail},
		Subject:      "New Contact Enquiry",
		TemplateName: "contact-received",
		TemplateData: c,
	})
	return c, nil
}

func (svc *service) Query(filter *QueryFilter, ordering []core.DBOrdering, page core.PageQuery) ([]Contact, core.Pagination, error) {
	contacts, total, err := svc.repo.QueryContacts(context.Background(), filter, ordering, page)
	if err != nil {
		return nil, core.Pagination{}, err
	}
	return contacts, core.NewPagination(page, total), nil
}

func (svc *service) GetByID(id string) (Contact, error) {
	return svc.repo.GetContactByID(context.Background(), id)
}

func (svc *service) Update(id string, uc UpdateContact) (Contact, error) {
	ctx := context.Background()

	c, err := svc.repo.GetContactByID(ctx, id)
	if err != nil {
		return Contact{}, err
	}

	if uc.Name != "" {
		c.Name = uc.Name
	}
	if uc.Email != "" {
		c.Email = uc.Email
	}
	if uc.Phone != nil {
		c.Phone = null.NewString(*uc.Phone, *uc.Phone != "")
	}
	if uc.Curriculum != nil {
		c.Curriculum = null.NewString(*uc.Curriculum, *uc.Curriculum != "")
	}
	if uc.Message != "" {
		c.Message = uc.Message
	}
	if uc.Status != "" {
		c.Status = uc.Status
	}
	c.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateContact(ctx, c)
}

func (svc *service) Delete(ids ...string) error {
	_, err := svc.repo.DeleteContactsByID(context.Background(), ids)
	return err
}
