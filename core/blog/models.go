package blog

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/mwalimu/tutorhub/core"
)

// Statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Categories
const (
	CategoryEducation  = "education"
	CategoryExamPrep   = "exam-prep"
	CategoryParenting  = "parenting"
	CategoryCurriculum = "curriculum"
	CategoryNews       = "news"
)

var (
	Statuses   = []string{StatusDraft, StatusPublished, StatusArchived}
	Categories = []string{CategoryEducation, CategoryExamPrep, CategoryParenting, CategoryCurriculum, CategoryNews}
)

type Blog struct {
	ID          string      `db:"id" json:"id"`
	Title       string      `db:"title" json:"title"`
	Slug        string      `db:"slug" json:"slug"`
	Content     string      `db:"content" json:"content"`
	Excerpt     null.String `db:"excerpt" json:"excerpt"`
	Category    string      `db:"category" json:"category"`
	Status      string      `db:"status" json:"status"`
	Featured    bool        `db:"featured" json:"featured"`
	Author      string      `db:"author" json:"author"`
	ImageKey    null.String `db:"image_key" json:"-"`
	ImageURL    null.String `db:"image_url" json:"image_url"`
	PublishedAt null.Time   `db:"published_at" json:"published_at"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"` // UTC
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"` // UTC
}

// MakeSlug derives the permanent slug from a title. The timestamp suffix keeps
// slugs unique even when titles collide later.
func MakeSlug(title string, at time.Time) string {
	return fmt.Sprintf("%s-%d", core.Slugify(title), at.Unix())
}

// NewBlog contains information needed to create a new Blog post.
type NewBlog struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Excerpt  string `json:"excerpt"`
	Category string `json:"category" validate:"required,oneof=education exam-prep parenting curriculum news"`
	Status   string `json:"status" validate:"omitempty,oneof=draft published archived"`
	Featured bool   `json:"featured"`
	Author   string `json:"author"`
	Image    string `json:"image"`
}

func (nb *NewBlog) Validate(validate *validator.Validate, svc Service) error {
	nb.Title = core.CleanString(nb.Title)
	nb.Author = core.CleanString(nb.Author)

	if err := validate.Struct(nb); err != nil {
		return err
	}
	return svc.CheckUniqueness(nb.Title)
}

// UpdateBlog defines what information may be provided to modify an existing Blog.
// The slug is permanent; title changes do not regenerate it.
type UpdateBlog struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Excerpt  *string `json:"excerpt"`
	Category string  `json:"category" validate:"omitempty,oneof=education exam-prep parenting curriculum news"`
	Status   string  `json:"status" validate:"omitempty,oneof=draft published archived"`
	Featured *bool   `json:"featured"`
	Author   string  `json:"author"`
	Image    string  `json:"image"`
}

func (ub *UpdateBlog) Validate(orig Blog, validate *validator.Validate, svc Service) error {
	ub.Title = core.CleanString(ub.Title)

	if err := validate.Struct(ub); err != nil {
		return err
	}
	if ub.Title != "" && ub.Title != orig.Title {
		return svc.CheckUniqueness(ub.Title, orig)
	}
	return nil
}

type QueryFilter struct {
	Search      string    `query:"search"`
	Status      string    `query:"status"`
	Category    string    `query:"category"`
	Featured    *bool     `query:"featured"`
	CreatedFrom time.Time `query:"created_from"`
	CreatedTo   time.Time `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Status == "" && qf.Category == "" && qf.Featured == nil &&
		qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
	qf.Category = core.CleanString(qf.Category, true /* lower */)
}
