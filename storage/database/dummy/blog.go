package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mwalimu/tutorhub/core"
	"github.com/mwalimu/tutorhub/core/blog"
)

type blogRepository struct {
	db *blogTable
}

var _ blog.Repository = (*blogRepository)(nil) // interface compliance check

func NewBlogRepository(db *DB) blog.Repository {
	return &blogRepository{db: db.blog}
}

func (repo *blogRepository) query() []blog.Blog {
	blogs := make([]blog.Blog, 0, len(repo.db.table))
	for _, b := range repo.db.table {
		blogs = append(blogs, *b)
	}
	sort.Slice(blogs, func(i, j int) bool { return blogs[i].CreatedAt.After(blogs[j].CreatedAt) })
	return blogs
}

func (repo *blogRepository) CheckTitleUniqueness(_ context.Context, title string, excludedBlogs []blog.Blog, _ ...core.DBExecutor) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	excluded := make(map[string]bool, len(excludedBlogs))
	for _, b := range excludedBlogs {
		excluded[b.ID] = true
	}
	for _, b := range repo.db.table {
		if strings.EqualFold(b.Title, title) && !excluded[b.ID] {
			return blog.ErrTitleExists
		}
	}
	return nil
}

func (repo *blogRepository) CreateBlog(_ context.Context, b blog.Blog, _ ...core.DBExecutor) (blog.Blog, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	b.ID = uuid.New().String()
	repo.db.table[b.ID] = &b
	return b, nil
}

func (repo *blogRepository) QueryBlogs(_ context.Context, filter *blog.QueryFilter, _ []core.DBOrdering, page core.PageQuery, _ ...core.DBExecutor) ([]blog.Blog, int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var blogs []blog.Blog
	for _, b := range repo.query() {
		if filter != nil {
			if filter.Search != "" && !(containsFold(b.Title, filter.Search) || containsFold(b.Content, filter.Search)) {
				continue
			}
			if filter.Status != "" && b.Status != filter.Status {
				continue
			}
			if filter.Category != "" && b.Category != filter.Category {
				continue
			}
			if filter.Featured != nil && b.Featured != *filter.Featured {
				continue
			}
			if !inWindow(b.CreatedAt, filter.CreatedFrom, filter.CreatedTo) {
				continue
			}
		}
		blogs = append(blogs, b)
	}

	total := len(blogs)
	page.Clean()
	lo, hi := paginate(total, page.Limit, page.Offset())
	return blogs[lo:hi], total, nil
}

func (repo *blogRepository) GetBlog(_ context.Context, id, slug string, _ ...core.DBExecutor) (blog.Blog, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if id != "" {
		if b, ok := repo.db.table[id]; ok {
			return *b, nil
		}
		return blog.Blog{}, blog.ErrNotFound
	}
	for _, b := range repo.db.table {
		if b.Slug == slug {
			return *b, nil
		}
	}
	return blog.Blog{}, blog.ErrNotFound
}

func (repo *blogRepository) UpdateBlog(_ context.Context, b blog.Blog, _ ...core.DBExecutor) (blog.Blog, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[b.ID]; !ok {
		return blog.Blog{}, blog.ErrNotFound
	}
	repo.db.table[b.ID] = &b
	return b, nil
}

func (repo *blogRepository) DeleteBlogsByID(_ context.Context, ids []string, _ ...core.DBExecutor) (int, error) {
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
