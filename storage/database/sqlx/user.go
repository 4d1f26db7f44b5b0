package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mwalimu/tutorhub/core"
	"github.com/mwalimu/tutorhub/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers []user.User, exec ...core.DBExecutor) error {
	e := ext(repo.db, exec)

	q := `SELECT EXISTS(SELECT 1 FROM "user" WHERE LOWER(email) = LOWER(?)`
	args := []interface{}{email}
	if len(excludedUsers) > 0 {
		ids := make([]string, len(excludedUsers))
		for i, usr := range excludedUsers {
			ids[i] = usr.ID
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
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	e := ext(repo.db, exec)

	usr.ID = uuid.New().String()
	q := `INSERT INTO "user" (id, name, email, role, is_active, password_hash, last_login, created_at, updated_at)
		VALUES (:id, :name, :email, :role, :is_active, :password_hash, :last_login, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, e, q, usr); err != nil {
		return user.User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

func (repo *userRepository) QueryUsers(ctx context.Context, filter *user.QueryFilter, ordering []core.DBOrdering, page core.PageQuery, exec ...core.DBExecutor) ([]user.User, int, error) {
	e := ext(repo.db, exec)

	var w whereBuilder
	if filter != nil {
		filter.Clean()
		if filter.Search != "" {
			s := "%" + filter.Search + "%"
			w.add("(name ILIKE ? OR email ILIKE ?)", s, s)
		}
		if filter.IsActive != nil {
			w.add("is_active = ?", *filter.IsActive)
		}
		if !filter.CreatedFrom.IsZero() {
			w.add("created_at >= ?", filter.CreatedFrom.UTC())
		}
		if !filter.CreatedTo.IsZero() {
			w.add("created_at <= ?", filter.CreatedTo.UTC())
		}
	}

	var total int
	if err := sqlx.GetContext(ctx, e, &total, e.Rebind(`SELECT COUNT(*) FROM "user"`+w.sql()), w.args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting users")
	}

	page.Clean()
	q := e.Rebind(`SELECT * FROM "user"` + w.sql() + orderBy(ordering, "created_at DESC") + " LIMIT ? OFFSET ?")
	users := make([]user.User, 0, page.Limit)
	if err := sqlx.SelectContext(ctx, e, &users, q, append(w.args, page.Limit, page.Offset())...); err != nil {
		return nil, 0, errors.Wrap(err, "querying users")
	}
	return users, total, nil
}

func (repo *userRepository) GetUser(ctx context.Context, filter user.GetFilter, exec ...core.DBExecutor) (user.User, error) {
	e := ext(repo.db, exec)

	q := `SELECT * FROM "user" WHERE id = ?`
	arg := filter.ID
	if filter.ID == "" {
		q = `SELECT * FROM "user" WHERE LOWER(email) = LOWER(?)`
		arg = filter.Email
	}

	var usr user.User
	if err := sqlx.GetContext(ctx, e, &usr, e.Rebind(q), arg); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user")
	}
	return usr, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	e := ext(repo.db, exec)

	q := `UPDATE "user" SET name = :name, email = :email, role = :role, is_active = :is_active,
		password_hash = :password_hash, last_login = :last_login, updated_at = :updated_at
		WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, e, q, usr)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo *userRepository) UpdateOrCreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	e := ext(repo.db, exec)

	if usr.ID == "" {
		usr.ID = uuid.New().String()
	}
	q := `INSERT INTO "user" (id, name, email, role, is_active, password_hash, last_login, created_at, updated_at)
		VALUES (:id, :name, :email, :role, :is_active, :password_hash, :last_login, :created_at, :updated_at)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, role = EXCLUDED.role,
			is_active = EXCLUDED.is_active, password_hash = EXCLUDED.password_hash,
			updated_at = EXCLUDED.updated_at`
	if _, err := sqlx.NamedExecContext(ctx, e, q, usr); err != nil {
		return user.User{}, errors.Wrap(err, "upserting user")
	}
	return repo.GetUser(ctx, user.GetFilter{Email: usr.Email}, exec...)
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error) {
	e := ext(repo.db, exec)

	q, args, err := sqlx.In(`DELETE FROM "user" WHERE id IN (?)`, ids)
	if err != nil {
		return 0, errors.Wrap(err, "deleting users")
	}
	res, err := e.ExecContext(ctx, e.Rebind(q), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting users")
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (repo *userRepository) CountActiveAdmins(ctx context.Context, excludedIDs []string, exec ...core.DBExecutor) (int, error) {
	e := ext(repo.db, exec)

	q := `SELECT COUNT(*) FROM "user" WHERE role = ? AND is_active`
	args := []interface{}{user.RoleAdmin}
	if len(excludedIDs) > 0 {
		inQ, inArgs, err := sqlx.In(" AND id NOT IN (?)", excludedIDs)
		if err != nil {
			return 0, errors.Wrap(err, "counting active admins")
		}
		q += inQ
		args = append(args, inArgs...)
	}

	var cnt int
	if err := sqlx.GetContext(ctx, e, &cnt, e.Rebind(q), args...); err != nil {
		return 0, errors.Wrap(err, "counting active admins")
	}
	return cnt, nil
}
