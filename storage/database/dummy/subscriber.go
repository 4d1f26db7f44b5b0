package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mwalimu/tutorhub/core"
	"github.com/mwalimu/tutorhub/core/subscriber"
)

type subscriberRepository struct {
	db *subscriberTable
}

var _ subscriber.Repository = (*subscriberRepository)(nil) // interface compliance check

func NewSubscriberRepository(db *DB) subscriber.Repository {
	return &subscriberRepository{db: db.subscriber}
}

func (repo *subscriberRepository) query() []subscriber.Subscriber {
	subs := make([]subscriber.Subscriber, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		subs = append(subs, *s)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].CreatedAt.After(subs[j].CreatedAt) })
	return subs
}

func (repo *subscriberRepository) CreateSubscriber(_ context.Context, s subscriber.Subscriber, _ ...core.DBExecutor) (subscriber.Subscriber, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	s.ID = uuid.New().String()
	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *subscriberRepository) QuerySubscribers(_ context.Context, filter *subscriber.QueryFilter, _ []core.DBOrdering, page core.PageQuery, _ ...core.DBExecutor) ([]subscriber.Subscriber, int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var subs []subscriber.Subscriber
	for _, s := range repo.query() {
		if filter != nil {
			if filter.Search != "" && !containsFold(s.Email, filter.Search) {
				continue
			}
			if filter.Status != "" && s.Status != filter.Status {
				continue
			}
			if !inWindow(s.CreatedAt, filter.CreatedFrom, filter.CreatedTo) {
				continue
			}
		}
		subs = append(subs, s)
	}

	total := len(subs)
	page.Clean()
	lo, hi := paginate(total, page.Limit, page.Offset())
	return subs[lo:hi], total, nil
}

func (repo *subscriberRepository) GetSubscriberByID(_ context.Context, id string, _ ...core.DBExecutor) (subscriber.Subscriber, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return *s, nil
	}
	return subscriber.Subscriber{}, subscriber.ErrNotFound
}

func (repo *subscriberRepository) GetSubscriberByEmail(_ context.Context, email string, _ ...core.DBExecutor) (subscriber.Subscriber, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, s := range repo.db.table {
		if strings.EqualFold(s.Email, email) {
			return *s, nil
		}
	}
	return subscriber.Subscriber{}, subscriber.ErrNotFound
}

func (repo *subscriberRepository) UpdateSubscriber(_ context.Context, s subscriber.Subscriber, _ ...core.DBExecutor) (subscriber.Subscriber, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[s.ID]; !ok {
		return subscriber.Subscriber{}, subscriber.ErrNotFound
	}
	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *subscriberRepository) DeleteSubscribersByID(_ context.Context, ids []string, _ ...core.DBExecutor) (int, error) {
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
