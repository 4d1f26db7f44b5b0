package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mwalimu/tutorhub/core"
	"github.com/mwalimu/tutorhub/core/contact"
)

type contactRepository struct {
	db *sqlx.DB
}

var _ contact.Repository = (*contactRepository)(nil) // interface compliance check

func NewContactRepository(db *sqlx.DB) contact.Repository {
	return &contactRepository{db: db}
}

func (repo *contactRepository) CreateContact(ctx context.Context, c contact.Contact, exec ...core.DBExecutor) (contact.Contact, error) {
	e := ext(repo.db, exec)

	c.ID = uuid.New().String()
	q := `INSERT INTO contact (id, name, email, phone, curriculum, message, status, created_at, updated_at)
		VALUES (:id, :name, :email, :phone, :curriculum, :message, :status, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, e, q, c); err != nil {
		return contact.Contact{}, errors.Wrap(err, "creating contact")
	}
	return c, nil
}

func (repo *contactRepository) QueryContacts(ctx context.Context, filter *contact.QueryFilter, ordering []core.DBOrdering, page core.PageQuery, exec ...core.DBExecutor) ([]contact.Contact, int, error) {
	e := ext(repo.db, exec)

	var w whereBuilder
	if filter != nil {
		filter.Clean()
		if filter.Search != "" {
			s := "%" + filter.Search + "%"
			w.add("(name ILIKE ? OR email ILIKE ? OR message ILIKE ?)", s, s, s)
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
	if err := sqlx.GetContext(ctx, e, &total, e.Rebind("SELECT COUNT(*) FROM contact"+w.sql()), w.args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting contacts")
	}

	page.Clean()
	q := e.Rebind("SELECT * FROM contact" + w.sql() + orderBy(ordering, "created_at DESC") + " LIMIT ? OFFSET ?")
	contacts := make([]contact.Contact, 0, page.Limit)
	if err := sqlx.SelectContext(ctx, e, &contacts, q, append(w.args, page.Limit, page.Offset())...); err != nil {
		return nil, 0, errors.Wrap(err, "querying contacts")
	}
	return contacts, total, nil
}

func (repo *contactRepository) GetContactByID(ctx context.Context, id string, exec ...core.DBExecutor) (contact.Contact, error) {
	e := ext(repo.db, exec)

	var c contact.Contact
	if err := sqlx.GetContext(ctx, e, &c, e.Rebind("SELECT * FROM contact WHERE id = ?"), id); err != nil {
		if err == sql.ErrNoRows {
			return contact.Contact{}, contact.ErrNotFound
		}
		return contact.Contact{}, errors.Wrap(err, "getting contact")
	}
	return c, nil
}

func (repo *contactRepository) UpdateContact(ctx context.Context, c contact.Contact, exec ...core.DBExecutor) (contact.Contact, error) {
	e := ext(repo.db, exec)

	q := `UPDATE contact SET name = :name, email = :email, phone = :phone, curriculum = :curriculum,
			message = :message, status = :status, updated_at = :updated_at
		WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, e, q, c)
	if err != nil {
		return contact.Contact{}, errors.Wrap(err, "updating contact")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return contact.Contact{}, contact.ErrNotFound
	}
	return c, nil
}

func (repo *contactRepository) DeleteContactsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error) {
	e := ext(repo.db, exec)

	q, args, err := sqlx.In("DELETE FROM contact WHERE id IN (?)", ids)
	if err != nil {
		return 0, errors.Wrap(err, "deleting contacts")
	}
	res, err := e.ExecContext(ctx, e.Rebind(q), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting contacts")
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
