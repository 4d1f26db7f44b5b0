package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mwalimu/tutorhub/core"
	"github.com/mwalimu/tutorhub/core/tutor"
)

type tutorRepository struct {
	db *sqlx.DB
}

var _ tutor.Repository = (*tutorRepository)(nil) // interface compliance check

func NewTutorRepository(db *sqlx.DB) tutor.Repository {
	return &tutorRepository{db: db}
}

func (repo *tutorRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedTutors []tutor.Tutor, exec ...core.DBExecutor) error {
	e := ext(repo.db, exec)

	q := "SELECT EXISTS(SELECT 1 FROM tutor WHERE LOWER(email) = LOWER(?)"
	args := []interface{}{email}
	if len(excludedTutors) > 0 {
		ids := make([]string, len(excludedTutors))
		for i, tut := range excludedTutors {
			ids[i] = tut.ID
		}
		inQ, inArgs, err := sqlx.In(" AND id NOT IN (?)", ids)
		if err != nil {
			return errors.Wrap(err, "checking email uniqueness")
		}
		q += inQ
		args = append(args, inArgs...)
	}
	q += ")"

	var exists bool
	if err := sqlx.GetContext(ctx, e, &exists, e.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return tutor.ErrEmailExists
	}
	return nil
}

func (repo *tutorRepository) CreateTutor(ctx context.Context, tut tutor.Tutor, exec ...core.DBExecutor) (tutor.Tutor, error) {
	e := ext(repo.db, exec)

	tut.ID = uuid.New().String()
	q := `INSERT INTO tutor (id, name, email, phone, subject, qualification, experience, rating, status,
			featured, bio, image_key, image_url, created_at, updated_at)
		VALUES (:id, :name, :email, :phone, :subject, :qualification, :experience, :rating, :status,
			:featured, :bio, :image_key, :image_url, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, e, q, tut); err != nil {
		return tutor.Tutor{}, errors.Wrap(err, "creating tutor")
	}
	return tut, nil
}

func (repo *tutorRepository) QueryTutors(ctx context.Context, filter *tutor.QueryFilter, ordering []core.DBOrdering, page core.PageQuery, exec ...core.DBExecutor) ([]tutor.Tutor, int, error) {
	e := ext(repo.db, exec)

	var w whereBuilder
	if filter != nil {
		filter.Clean()
		if filter.Search != "" {
			s := "%" + filter.Search + "%"
			w.add("(name ILIKE ? OR email ILIKE ? OR subject ILIKE ?)", s, s, s)
		}
		if filter.Status != "" {
			w.add("status = ?", filter.Status)
		}
		if filter.Subject != "" {
			w.add("subject ILIKE ?", filter.Subject)
		}
		if filter.Featured != nil {
			w.add("featured = ?", *filter.Featured)
		}
		if !filter.CreatedFrom.IsZero() {
			w.add("created_at >= ?", filter.CreatedFrom.UTC())
		}
		if !filter.CreatedTo.IsZero() {
			w.add("created_at <= ?", filter.CreatedTo.UTC())
		}
	}

	var total int
	if err := sqlx.GetContext(ctx, e, &total, e.Rebind("SELECT COUNT(*) FROM tutor"+w.sql()), w.args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting tutors")
	}

	page.Clean()
	q := e.Rebind("SELECT * FROM tutor" + w.sql() + orderBy(ordering, "created_at DESC") + " LIMIT ? OFFSET ?")
	tutors := make([]tutor.Tutor, 0, page.Limit)
	if err := sqlx.SelectContext(ctx, e, &tutors, q, append(w.args, page.Limit, page.Offset())...); err != nil {
		return nil, 0, errors.Wrap(err, "querying tutors")
	}
	return tutors, total, nil
}

func (repo *tutorRepository) GetTutorByID(ctx context.Context, id string, exec ...core.DBExecutor) (tutor.Tutor, error) {
	e := ext(repo.db, exec)

	var tut tutor.Tutor
	if err := sqlx.GetContext(ctx, e, &tut, e.Rebind("SELECT * FROM tutor WHERE id = ?"), id); err != nil {
		if err == sql.ErrNoRows {
			return tutor.Tutor{}, tutor.ErrNotFound
		}
		return tutor.Tutor{}, errors.Wrap(err, "getting tutor")
	}
	return tut, nil
}

func (repo *tutorRepository) UpdateTutor(ctx context.Context, tut tutor.Tutor, exec ...core.DBExecutor) (tutor.Tutor, error) {
	e := ext(repo.db, exec)

	q := `UPDATE tutor SET name = :name, email = :email, phone = :phone, subject = :subject,
			qualification = :qualification, experience = :experience, rating = :rating, status = :status,
			featured = :featured, bio = :bio, image_key = :image_key, image_url = :image_url,
			updated_at = :updated_at
		WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, e, q, tut)
	if err != nil {
		return tutor.Tutor{}, errors.Wrap(err, "updating tutor")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return tutor.Tutor{}, tutor.ErrNotFound
	}
	return tut, nil
}

func (repo *tutorRepository) DeleteTutorsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error) {
	e := ext(repo.db, exec)

	q, args, err := sqlx.In("DELETE FROM tutor WHERE id IN (?)", ids)
	if err != nil {
		return 0, errors.Wrap(err, "deleting tutors")
	}
	res, err := e.ExecContext(ctx, e.Rebind(q), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting tutors")
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
