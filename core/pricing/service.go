package pricing

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/mwalimu/tutorhub/core"
)

// ErrNotFound is returned when no plan matches the given ID.
var ErrNotFound = errors.New("pricing plan not found")

type (
	Repository interface {
		CreatePlan(ctx context.Context, p Plan, exec ...core.DBExecutor) (Plan, error)
		QueryPlans(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, page core.PageQuery, exec ...core.DBExecutor) ([]Plan, int, error)
		GetPlanByID(ctx context.Context, id string, exec ...core.DBExecutor) (Plan, error)
		UpdatePlan(ctx context.Context, p Plan, exec ...core.DBExecutor) (Plan, error)
		DeletePlansByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error)
	}

	Service interface {
		Create(np NewPlan) (Plan, error)
		Query(filter *QueryFilter, ordering []core.DBOrdering, page core.PageQuery) ([]Plan, core.Pagination, error)
		GetByID(id string) (Plan, error)
		Update(id string, up UpdatePlan) (Plan, error)
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

func (svc *service) Create(np NewPlan) (Plan, error) {
	now := time.Now().UTC()
	p := Plan{
		Title:        np.Title,
		Price:        np.Price,
		Features:     np.Features,
		IsActive:     np.Active(),
		DisplayOrder: np.DisplayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.CreatePlan(context.Background(), p)
}

func (svc *service) Query(filter *QueryFilter, ordering []core.DBOrdering, page core.PageQuery) ([]Plan, core.Pagination, error) {
	plans, total, err := svc.repo.QueryPlans(context.Background(), filter, ordering, page)
	if err != nil {
		return nil, core.Pagination{}, err
	}
	return plans, core.NewPagination(page, total), nil
}

func (svc *service) GetByID(id string) (Plan, error) {
	return svc.repo.GetPlanByID(context.Background(), id)
}

func (svc *service) Update(id string, up UpdatePlan) (Plan, error) {
	ctx := context.Background()

	p, err := svc.repo.GetPlanByID(ctx, id)
	if err != nil {
		return Plan{}, err
	}

	if up.Title != "" {
		p.Title = up.Title
	}
	if up.Price != nil {
		p.Price = *up.Price
	}
	if up.Features != nil {
		p.Features = up.Features
	}
	if up.IsActive != nil {
		p.IsActive = *up.IsActive
	}
	if up.DisplayOrder != nil {
		p.DisplayOrder = *up.DisplayOrder
	}
	p.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdatePlan(ctx, p)
}

func (svc *service) Delete(ids ...string) error {
	_, err := svc.repo.DeletePlansByID(context.Background(), ids)
	return err
}
