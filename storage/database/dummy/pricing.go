package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/mwalimu/tutorhub/core"
	"github.com/mwalimu/tutorhub/core/pricing"
)

type pricingRepository struct {
	db *pricingTable
}

var _ pricing.Repository = (*pricingRepository)(nil) // interface compliance check

func NewPricingRepository(db *DB) pricing.Repository {
	return &pricingRepository{db: db.pricing}
}

func (repo *pricingRepository) query() []pricing.Plan {
	plans := make([]pricing.Plan, 0, len(repo.db.table))
	for _, p := range repo.db.table {
		plans = append(plans, *p)
	}
	sort.Slice(plans, func(i, j int) bool {
		if plans[i].DisplayOrder != plans[j].DisplayOrder {
			return plans[i].DisplayOrder < plans[j].DisplayOrder
		}
		return plans[i].CreatedAt.Before(plans[j].CreatedAt)
	})
	return plans
}

func (repo *pricingRepository) CreatePlan(_ context.Context, p pricing.Plan, _ ...core.DBExecutor) (pricing.Plan, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	p.ID = uuid.New().String()
	repo.db.table[p.ID] = &p
	return p, nil
}

func (repo *pricingRepository) QueryPlans(_ context.Context, filter *pricing.QueryFilter, _ []core.DBOrdering, page core.PageQuery, _ ...core.DBExecutor) ([]pricing.Plan, int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var plans []pricing.Plan
	for _, p := range repo.query() {
		if filter != nil {
			if filter.Search != "" && !containsFold(p.Title, filter.Search) {
				continue
			}
			if filter.IsActive != nil && p.IsActive != *filter.IsActive {
				continue
			}
		}
		plans = append(plans, p)
	}

	total := len(plans)
	page.Clean()
	lo, hi := paginate(total, page.Limit, page.Offset())
	return plans[lo:hi], total, nil
}

func (repo *pricingRepository) GetPlanByID(_ context.Context, id string, _ ...core.DBExecutor) (pricing.Plan, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.db.table[id]; ok {
		return *p, nil
	}
	return pricing.Plan{}, pricing.ErrNotFound
}

func (repo *pricingRepository) UpdatePlan(_ context.Context, p pricing.Plan, _ ...core.DBExecutor) (pricing.Plan, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[p.ID]; !ok {
		return pricing.Plan{}, pricing.ErrNotFound
	}
	repo.db.table[p.ID] = &p
	return p, nil
}

func (repo *pricingRepository) DeletePlansByID(_ context.Context, ids []string, _ ...core.DBExecutor) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	n := 0
	for _, id := range ids {
		if _, ok := repo.db.table[id]; ok {
			delete(repo.db.table, id)
			n++
		}
	}
	return n, nil
}
