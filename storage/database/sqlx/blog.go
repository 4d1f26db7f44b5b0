package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mwalimu/tutorhub/core"
	"github.com/mwalimu/tutorhub/core/blog"
)

type blogRepository struct {
	db *sqlx.DB
}

var _ blog.Repository = (*blogRepository)(nil) // interface compliance check

func NewBlogRepository(db *sqlx.DB) blog.Repository {
	return &blogRepository{db: db}
}

func (repo *blogRepository) CheckTitleUniqueness(ctx context.Context, title string, excludedBlogs []blog.Blog, exec ...core.DBExecutor) error {
	e := ext(repo.db, exec)

	q := "SELECT EXISTS(SELECT 1 FROM blog WHERE LOWER(title) = LOWER(?)"
	args := []interface{}{title}
	if len(excludedBlogs) > 0 {
		ids := make([]string, len(excludedBlogs))
		for i, b := range excludedBlogs {
			ids[i] = b.ID
		}
		inQ, inArgs, err := sqlx.In(" AND id NOT IN (?)", ids)
		if err != nil {
			return errors.Wrap(err, "checking title uniqueness")
		}
		q += inQ
		args = append(args, inArgs...)
	}
	q += ")"

	var exists bool
	if err := sqlx.GetContext(ctx, e, &exists, e.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "checking title uniqueness")
	}
	if exists {
		return blog.ErrTitleExists
	}
	return nil
}

func (repo *blogRepository) CreateBlog(ctx context.Context, b blog.Blog, exec ...core.DBExecutor) (blog.Blog, error) {
	e := ext(repo.db, exec)

	b.ID = uuid.New().String()
	q := `INSERT INTO blog (id, title, slug, content, excerpt, category, status, featured, author,
			image_key, image_url, published_at, created_at, updated_at)
		VALUES (:id, :title, :slug, :content, :excerpt, :category, :status, :featured, :author,
			:image_key, :image_url, :published_at, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, e, q, b); err != nil {
		return blog.Blog{}, errors.Wrap(err, "creating blog")
	}
	return b, nil
}

func (repo *blogRepository) QueryBlogs(ctx context.Context, filter *blog.QueryFilter, ordering []core.DBOrdering, page core.PageQuery, exec ...core.DBExecutor) ([]blog.Blog, int, error) {
	e := ext(repo.db, exec)

	var w whereBuilder
	if filter != nil {
		filter.Clean()
		if filter.Search != "" {
			s := "%" + filter.Search + "%"
			w.add("(title ILIKE ? OR content ILIKE ?)", s, s)
		}
		if filter.Status != "" {
			w.add("status = ?", filter.Status)
		}
		if filter.Category != "" {
			w.add("category = ?", filter.Category)
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
	if err := sqlx.GetContext(ctx, e, &total, e.Rebind("SELECT COUNT(*) FROM blog"+w.sql()), w.args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting blogs")
	}

	page.Clean()
	q := e.Rebind("SELECT * FROM blog" + w.sql() + orderBy(ordering, "created_at DESC") + " LIMIT ? OFFSET ?")
	blogs := make([]blog.Blog, 0, page.Limit)
	if err := sqlx.SelectContext(ctx, e, &blogs, q, append(w.args, page.Limit, page.Offset())...); err != nil {
		return nil, 0, errors.Wrap(err, "querying blogs")
	}
	return blogs, total, nil
}

func (repo *blogRepository) GetBlog(ctx context.Context, id, slug string, exec ...core.DBExecutor) (blog.Blog, error) {
	e := ext(repo.db, exec)

	q := "SELECT * FROM blog WHERE id = ?"
	arg := id
	if id == "" {
		q = "SELECT * FROM blog WHERE slug = ?"
		arg = slug
	}

	var b blog.Blog
	if err := sqlx.GetContext(ctx, e, &b, e.Rebind(q), arg); err != nil {
		if err == sql.ErrNoRows {
			return blog.Blog{}, blog.ErrNotFound
		}
		return blog.Blog{}, errors.Wrap(err, "getting blog")
	}
	return b, nil
}

func (repo *blogRepository) UpdateBlog(ctx context.Context, b blog.Blog, exec ...core.DBExecutor) (blog.Blog, error) {
	e := ext(repo.db, exec)

	q := `UPDATE blog SET title = :title, content = :content, excerpt = :excerpt, category = :category,
			status = :status, featured = :featured, author = :author, image_key = :image_key,
			image_url = :image_url, published_at = :published_at, updated_at = :updated_at
		WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, e, q, b)
	if err != nil {
		return blog.Blog{}, errors.Wrap(err, "updating blog")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return blog.Blog{}, blog.ErrNotFound
	}
	return b, nil
}

func (repo *blogRepository) DeleteBlogsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error) {
	e := ext(repo.db, exec)

	q, args, err := sqlx.In("DELETE FROM blog WHERE id IN (?)", ids)
	if err != nil {
		return 0, errors.Wrap(err, "deleting blogs")
	}
	res, err := e.ExecContext(ctx, e.Rebind(q), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting blogs")
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
