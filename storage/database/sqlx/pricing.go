package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mwalimu/tutorhub/core"
	"github.com/mwalimu/tutorhub/core/pricing"
)

type pricingRepository struct {
	db *sqlx.DB
}

var _ pricing.Repository = (*pricingRepository)(nil) // interface compliance check

func NewPricingRepository(db *sqlx.DB) pricing.Repository {
	return &pricingRepository{db: db}
}

func (repo *pricingRepository) CreatePlan(ctx context.Context, p pricing.Plan, exec ...core.DBExecutor) (pricing.Plan, error) {
	e := ext(repo.db, exec)

	p.ID = uuid.New().String()
	q := `INSERT INTO pricing_plan (id, title, price, features, is_active, display_order, created_at, updated_at)
		VALUES (:id, :title, :price, :features, :is_active, :display_order, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, e, q, p); err != nil {
		return pricing.Plan{}, errors.Wrap(err, "creating pricing plan")
	}
	return p, nil
}

func (repo *pricingRepository) QueryPlans(ctx context.Context, filter *pricing.QueryFilter, ordering []core.DBOrdering, page core.PageQuery, exec ...core.DBExecutor) ([]pricing.Plan, int, error) {
	e := ext(repo.db, exec)

	var w whereBuilder
	if filter != nil {
		filter.Clean()
		if filter.Search != "" {
			w.add("title ILIKE ?", "%"+filter.Search+"%")
		}
		if filter.IsActive != nil {
			w.add("is_active = ?", *filter.IsActive)
		}
	}

	var total int
	if err := sqlx.GetContext(ctx, e, &total, e.Rebind("SELECT COUNT(*) FROM pricing_plan"+w.sql()), w.args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting pricing plans")
	}

	page.Clean()
	q := e.Rebind("SELECT * FROM pricing_plan" + w.sql() + orderBy(ordering, "display_order ASC, created_at ASC") + " LIMIT ? OFFSET ?")
	plans := make([]pricing.Plan, 0, page.Limit)
	if err := sqlx.SelectContext(ctx, e, &plans, q, append(w.args, page.Limit, page.Offset())...); err != nil {
		return nil, 0, errors.Wrap(err, "querying pricing plans")
	}
	return plans, total, nil
}

func (repo *pricingRepository) GetPlanByID(ctx context.Context, id string, exec ...core.DBExecutor) (pricing.Plan, error) {
	e := ext(repo.db, exec)

	var p pricing.Plan
	if err := sqlx.GetContext(ctx, e, &p, e.Rebind("SELECT * FROM pricing_plan WHERE id = ?"), id); err != nil {
		if err == sql.ErrNoRows {
			return pricing.Plan{}, pricing.ErrNotFound
		}
		return pricing.Plan{}, errors.Wrap(err, "getting pricing plan")
	}
	return p, nil
}

func (repo *pricingRepository) UpdatePlan(ctx context.Context, p pricing.Plan, exec ...core.DBExecutor) (pricing.Plan, error) {
	e := ext(repo.db, exec)

	q := `UPDATE pricing_plan SET title = :title, price = :price, features = :features,
			is_active = :is_active, display_order = :display_order, updated_at = :updated_at
		WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, e, q, p)
	if err != nil {
		return pricing.Plan{}, errors.Wrap(err, "updating pricing plan")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return pricing.Plan{}, pricing.ErrNotFound
	}
	return p, nil
}

func (repo *pricingRepository) DeletePlansByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error) {
	e := ext(repo.db, exec)

	q, args, err := sqlx.In("DELETE FROM pricing_plan WHERE id IN (?)", ids)
	if err != nil {
		return 0, errors.Wrap(err, "deleting pricing plans")
	}
	res, err := e.ExecContext(ctx, e.Rebind(q), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting pricing plans")
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
