package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mwalimu/tutorhub/core"
	"github.com/mwalimu/tutorhub/core/submission"
)

type submissionRepository struct {
	db *sqlx.DB
}

var _ submission.Repository = (*submissionRepository)(nil) // interface compliance check

func NewSubmissionRepository(db *sqlx.DB) submission.Repository {
	return &submissionRepository{db: db}
}

func (repo *submissionRepository) CreateSubmission(ctx context.Context, s submission.Submission, exec ...core.DBExecutor) (submission.Submission, error) {
	e := ext(repo.db, exec)

	s.ID = uuid.New().String()
	q := `INSERT INTO submission (id, name, phone, email, curriculum, grade, status, created_at, updated_at)
		VALUES (:id, :name, :phone, :email, :curriculum, :grade, :status, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, e, q, s); err != nil {
		return submission.Submission{}, errors.Wrap(err, "creating submission")
	}
	return s, nil
}

func (repo *submissionRepository) QuerySubmissions(ctx context.Context, filter *submission.QueryFilter, ordering []core.DBOrdering, page core.PageQuery, exec ...core.DBExecutor) ([]submission.Submission, int, error) {
	e := ext(repo.db, exec)

	var w whereBuilder
	if filter != nil {
		filter.Clean()
		if filter.Search != "" {
			s := "%" + filter.Search + "%"
			w.add("(name ILIKE ? OR email ILIKE ? OR phone ILIKE ?)", s, s, s)
		}
		if filter.Status != "" {
			w.add("status = ?", filter.Status)
		}
		if filter.Curriculum != "" {
			w.add("curriculum ILIKE ?", filter.Curriculum)
		}
		if !filter.CreatedFrom.IsZero() {
			w.add("created_at >= ?", filter.CreatedFrom.UTC())
		}
		if !filter.CreatedTo.IsZero() {
			w.add("created_at <= ?", filter.CreatedTo.UTC())
		}
	}

	var total int
	if err := sqlx.GetContext(ctx, e, &total, e.Rebind("SELECT COUNT(*) FROM submission"+w.sql()), w.args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting submissions")
	}

	page.Clean()
	q := e.Rebind("SELECT * FROM submission" + w.sql() + orderBy(ordering, "created_at DESC") + " LIMIT ? OFFSET ?")
	subs := make([]submission.Submission, 0, page.Limit)
	if err := sqlx.SelectContext(ctx, e, &subs, q, append(w.args, page.Limit, page.Offset())...); err != nil {
		return nil, 0, errors.Wrap(err, "querying submissions")
	}
	return subs, total, nil
}

func (repo *submissionRepository) GetSubmissionByID(ctx context.Context, id string, exec ...core.DBExecutor) (submission.Submission, error) {
	e := ext(repo.db, exec)

	var s submission.Submission
	if err := sqlx.GetContext(ctx, e, &s, e.Rebind("SELECT * FROM submission WHERE id = ?"), id); err != nil {
		if err == sql.ErrNoRows {
			return submission.Submission{}, submission.ErrNotFound
		}
		return submission.Submission{}, errors.Wrap(err, "getting submission")
	}
	return s, nil
}

func (repo *submissionRepository) UpdateSubmission(ctx context.Context, s submission.Submission, exec ...core.DBExecutor) (submission.Submission, error) {
	e := ext(repo.db, exec)

	q := `UPDATE submission SET name = :name, phone = :phone, email = :email, curriculum = :curriculum,
			grade = :grade, status = :status, updated_at = :updated_at
		WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, e, q, s)
	if err != nil {
		return submission.Submission{}, errors.Wrap(err, "updating submission")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return submission.Submission{}, submission.ErrNotFound
	}
	return s, nil
}

func (repo *submissionRepository) DeleteSubmissionsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error) {
	e := ext(repo.db, exec)

	q, args, err := sqlx.In("DELETE FROM submission WHERE id IN (?)", ids)
	if err != nil {
		return 0, errors.Wrap(err, "deleting submissions")
	}
	res, err := e.ExecContext(ctx, e.Rebind(q), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting submissions")
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
