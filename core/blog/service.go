package blog

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/mwalimu/tutorhub/core"
)

var (
	// errors
	ErrNotFound    = errors.New("blog not found")
	ErrTitleExists = errors.New("a blog with this title already exists")
)

const placeholderImageURL = "https://placehold.co/800x450?text=Blog"

type (
	Repository interface {
		// CheckTitleUniqueness matches titles case-insensitively.
		CheckTitleUniqueness(ctx context.Context, title string, excludedBlogs []Blog, exec ...core.DBExecutor) error
		CreateBlog(ctx context.Context, b Blog, exec ...core.DBExecutor) (Blog, error)
		// QueryBlogs applies AND on the available QueryFilter fields; Search does a
		// case-insensitive match on Title or Content. Returns the page and the total count.
		QueryBlogs(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, page core.PageQuery, exec ...core.DBExecutor) ([]Blog, int, error)
		// GetBlog fetches by ID or by slug, whichever is set.
		GetBlog(ctx context.Context, id, slug string, exec ...core.DBExecutor) (Blog, error)
		UpdateBlog(ctx context.Context, b Blog, exec ...core.DBExecutor) (Blog, error)
		DeleteBlogsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error)
	}

	Service interface {
		CheckUniqueness(title string, exclBlogs ...Blog) error
		Create(nb NewBlog) (Blog, error)
		Query(filter *QueryFilter, ordering []core.DBOrdering, page core.PageQuery) ([]Blog, core.Pagination, error)
		GetByID(id string) (Blog, error)
		GetBySlug(slug string) (Blog, error)
		Update(id string, ub UpdateBlog) (Blog, error)
		Delete(ids ...string) error
	}

	service struct {
		db       core.DB
		repo     Repository
		mediaSvc core.MediaService
		logger   core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(db core.DB, repo Repository, mediaSvc core.MediaService, logger core.Logger) Service {
	return &service{
		db:       db,
		repo:     repo,
		mediaSvc: mediaSvc,
		logger:   logger,
	}
}

func (svc *service) CheckUniqueness(title string, exclBlogs ...Blog) error {
	if err := svc.repo.CheckTitleUniqueness(context.Background(), title, exclBlogs); err != nil {
		if errors.Cause(err) == ErrTitleExists {
			return core.NewValidationError(err, core.FieldError{Field: "title", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Create(nb NewBlog) (Blog, error) {
	now := time.Now().UTC()
	b := Blog{
		Title:     nb.Title,
		Slug:      MakeSlug(nb.Title, now),
		Content:   nb.Content,
		Excerpt:   null.NewString(nb.Excerpt, nb.Excerpt != ""),
		Category:  nb.Category,
		Status:    nb.Status,
		Featured:  nb.Featured,
		Author:    nb.Author,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if b.Status == "" {
		b.Status = StatusDraft
	}
	if b.Status == StatusPublished {
		b.PublishedAt = null.TimeFrom(now)
	}
	b.ImageKey, b.ImageURL = svc.storeImage(nb.Image, b.Slug)

	return svc.repo.CreateBlog(context.Background(), b)
}

func (svc *service) Query(filter *QueryFilter, ordering []core.DBOrdering, page core.PageQuery) ([]Blog, core.Pagination, error) {
	blogs, total, err := svc.repo.QueryBlogs(context.Background(), filter, ordering, page)
	if err != nil {
		return nil, core.Pagination{}, err
	}
	return blogs, core.NewPagination(page, total), nil
}

func (svc *service) GetByID(id string) (Blog, error) {
	return svc.repo.GetBlog(context.Background(), id, "")
}

func (svc *service) GetBySlug(slug string) (Blog, error) {
	return svc.repo.GetBlog(context.Background(), "", slug)
}

func (svc *service) Update(id string, ub UpdateBlog) (Blog, error) {
	ctx := context.Background()

	b, err := svc.repo.GetBlog(ctx, id, "")
	if err != nil {
		return Blog{}, err
	}

	if ub.Title != "" {
		b.Title = ub.Title
	}
	if ub.Content != "" {
		b.Content = ub.Content
	}
	if ub.Excerpt != nil {
		b.Excerpt = null.NewString(*ub.Excerpt, *ub.Excerpt != "")
	}
	if ub.Category != "" {
		b.Category = ub.Category
	}
	if ub.Status != "" {
		// published_at records the first publication only; later transitions
		// (archive, re-publish) leave it untouched
		if ub.Status == StatusPublished && !b.PublishedAt.Valid {
			b.PublishedAt = null.TimeFrom(time.Now().UTC())
		}
		b.Status = ub.Status
	}
	if ub.Featured != nil {
		b.Featured = *ub.Featured
	}
	if ub.Author != "" {
		b.Author = ub.Author
	}
	if ub.Image != "" {
		oldKey := b.ImageKey
		b.ImageKey, b.ImageURL = svc.storeImage(ub.Image, b.Slug)
		svc.deleteImage(oldKey)
	}
	b.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateBlog(ctx, b)
}

func (svc *service) Delete(ids ...string) error {
	ctx := context.Background()

	keys := make([]null.String, 0, len(ids))
	for _, id := range ids {
		if b, err := svc.repo.GetBlog(ctx, id, ""); err == nil {
			keys = append(keys, b.ImageKey)
		}
	}

	if _, err := svc.repo.DeleteBlogsByID(ctx, ids); err != nil {
		return err
	}
	for _, key := range keys {
		svc.deleteImage(key)
	}
	return nil
}

func (svc *service) storeImage(image, name string) (key, url null.String) {
	if image == "" {
		return null.String{}, null.String{}
	}

	ct, data, isData, err := core.DecodeDataURI(image)
	if !isData {
		return null.String{}, null.StringFrom(image)
	}
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("decoding blog image: %v", err))
		return null.String{}, null.StringFrom(placeholderImageURL)
	}

	obj, err := svc.mediaSvc.Upload(context.Background(), name, ct, bytes.NewReader(data))
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("uploading blog image: %v", err), err)
		return null.String{}, null.StringFrom(placeholderImageURL)
	}
	return null.StringFrom(obj.Key), null.StringFrom(obj.URL)
}

func (svc *service) deleteImage(key null.String) {
	if !key.Valid || key.String == "" {
		return
	}
	if err := svc.mediaSvc.Delete(context.Background(), key.String); err != nil {
		svc.logger.Warn(fmt.Sprintf("deleting blog image %s: %v", key.String, err), err)
	}
}
