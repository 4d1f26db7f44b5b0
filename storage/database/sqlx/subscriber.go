package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mwalimu/tutorhub/core"
	"github.com/mwalimu/tutorhub/core/subscriber"
)

type subscriberRepository struct {
	db *sqlx.DB
}

var _ subscriber.Repository = (*subscriberRepository)(nil) // interface compliance check

func NewSubscriberRepository(db *sqlx.DB) subscriber.Repository {
	return &subscriberRepository{db: db}
}

func (repo *subscriberRepository) CreateSubscriber(ctx context.Context, s subscriber.Subscriber, exec ...core.DBExecutor) (subscriber.Subscriber, error) {
	e := ext(repo.db, exec)

	s.ID = uuid.New().String()
	q := `INSERT INTO subscriber (id, email, status, unsubscribed_at, send_count, last_sent_at, created_at, updated_at)
		VALUES (:id, :email, :status, :unsubscribed_at, :send_count, :last_sent_at, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, e, q, s); err != nil {
		return subscriber.Subscriber{}, errors.Wrap(err, "creating subscriber")
	}
	return s, nil
}

func (repo *subscriberRepository) QuerySubscribers(ctx context.Context, filter *subscriber.QueryFilter, ordering []core.DBOrdering, page core.PageQuery, exec ...core.DBExecutor) ([]subscriber.Subscriber, int, error) {
	e := ext(repo.db, exec)

	var w whereBuilder
	if filter != nil {
		filter.Clean()
		if filter.Search != "" {
			w.add("email ILIKE ?", "%"+filter.Search+"%")
		}
		if filter.Status != "" {
			w.add("status = ?", filter.Status)
		}
		if !filter.CreatedFrom.IsZero() {
			w.add("created_at >= ?", filter.CreatedFrom.UTC())
		}
		if !filter.CreatedTo.IsZero() {
			w.add("created_at <= ?", filter.CreatedTo.UTC())
		}
	}

	var total int
	if err := sqlx.GetContext(ctx, e, &total, e.Rebind("SELECT COUNT(*) FROM subscriber"+w.sql()), w.args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting subscribers")
	}

	page.Clean()
	q := e.Rebind("SELECT * FROM subscriber" + w.sql() + orderBy(ordering, "created_at DESC") + " LIMIT ? OFFSET ?")
	subs := make([]subscriber.Subscriber, 0, page.Limit)
	if err := sqlx.SelectContext(ctx, e, &subs, q, append(w.args, page.Limit, page.Offset())...); err != nil {
		return nil, 0, errors.Wrap(err, "querying subscribers")
	}
	return subs, total, nil
}

func (repo *subscriberRepository) GetSubscriberByID(ctx context.Context, id string, exec ...core.DBExecutor) (subscriber.Subscriber, error) {
	return repo.get(ctx, "SELECT * FROM subscriber WHERE id = ?", id, exec)
}

func (repo *subscriberRepository) GetSubscriberByEmail(ctx context.Context, email string, exec ...core.DBExecutor) (subscriber.Subscriber, error) {
	return repo.get(ctx, "SELECT * FROM subscriber WHERE LOWER(email) = LOWER(?)", email, exec)
}

func (repo *subscriberRepository) get(ctx context.Context, q, arg string, exec []core.DBExecutor) (subscriber.Subscriber, error) {
	e := ext(repo.db, exec)

	var s subscriber.Subscriber
	if err := sqlx.GetContext(ctx, e, &s, e.Rebind(q), arg); err != nil {
		if err == sql.ErrNoRows {
			return subscriber.Subscriber{}, subscriber.ErrNotFound
		}
		return subscriber.Subscriber{}, errors.Wrap(err, "getting subscriber")
	}
	return s, nil
}

func (repo *subscriberRepository) UpdateSubscriber(ctx context.Context, s subscriber.Subscriber, exec ...core.DBExecutor) (subscriber.Subscriber, error) {
	e := ext(repo.db, exec)

	q := `UPDATE subscriber SET email = :email, status = :status, unsubscribed_at = :unsubscribed_at,
			send_count = :send_count, last_sent_at = :last_sent_at, updated_at = :updated_at
		WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, e, q, s)
	if err != nil {
		return subscriber.Subscriber{}, errors.Wrap(err, "updating subscriber")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return subscriber.Subscriber{}, subscriber.ErrNotFound
	}
	return s, nil
}

func (repo *subscriberRepository) DeleteSubscribersByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error) {
	e := ext(repo.db, exec)

	q, args, err := sqlx.In("DELETE FROM subscriber WHERE id IN (?)", ids)
	if err != nil {
		return 0, errors.Wrap(err, "deleting subscribers")
	}
	res, err := e.ExecContext(ctx, e.Rebind(q), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting subscribers")
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
