package submission

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/mwalimu/tutorhub/core"
)

// ErrNotFound is returned when no submission matches the given ID.
var ErrNotFound = errors.New("submission not found")

type (
	Repository interface {
		CreateSubmission(ctx context.Context, s Submission, exec ...core.DBExecutor) (Submission, error)
		QuerySubmissions(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, page core.PageQuery, exec ...core.DBExecutor) ([]Submission, int, error)
		GetSubmissionByID(ctx context.Context, id string, exec ...core.DBExecutor) (Submission, error)
		UpdateSubmission(ctx context.Context, s Submission, exec ...core.DBExecutor) (Submission, error)
		DeleteSubmissionsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error)
	}

	Service interface {
		Create(ns NewSubmission) (Submission, error)
		Query(filter *QueryFilter, ordering []core.DBOrdering, page core.PageQuery) ([]Submission, core.Pagination, error)
		GetByID(id string) (Submission, error)
		Update(id string, us UpdateSubmission) (Submission, error)
		Delete(ids ...string) error
	}

	service struct {
		db   core.DB
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(db core.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

func (svc *service) Create(ns NewSubmission) (Submission, error) {
	now := time.Now().UTC()
	s := Submission{
		Name:       ns.Name,
		Phone:      ns.Phone,
		Email:      ns.Email,
		Curriculum: null.NewString(ns.Curriculum, ns.Curriculum != ""),
		Grade:      null.NewString(ns.Grade, ns.Grade != ""),
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return svc.repo.CreateSubmission(context.Background(), s)
}

func (svc *service) Query(filter *QueryFilter, ordering []core.DBOrdering, page core.PageQuery) ([]Submission, core.Pagination, error) {
	subs, total, err := svc.repo.QuerySubmissions(context.Background(), filter, ordering, page)
	if err != nil {
		return nil, core.Pagination{}, err
	}
	return subs, core.NewPagination(page, total), nil
}

func (svc *service) GetByID(id string) (Submission, error) {
	return svc.repo.GetSubmissionByID(context.Background(), id)
}

func (svc *service) Update(id string, us UpdateSubmission) (Submission, error) {
	ctx := context.Background()

	s, err := svc.repo.GetSubmissionByID(ctx, id)
	if err != nil {
		return Submission{}, err
	}

	if us.Name != "" {
		s.Name = us.Name
	}
	if us.Phone != "" {
		s.Phone = us.Phone
	}
	if us.Email != "" {
		s.Email = us.Email
	}
	if us.Curriculum != nil {
		s.Curriculum = null.NewString(*us.Curriculum, *us.Curriculum != "")
	}
	if us.Grade != nil {
		s.Grade = null.NewString(*us.Grade, *us.Grade != "")
	}
	if us.Status != "" {
		s.Status = us.Status
	}
	s.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateSubmission(ctx, s)
}

func (svc *service) Delete(ids ...string) error {
	_, err := svc.repo.DeleteSubmissionsByID(context.Background(), ids)
	return err
}
