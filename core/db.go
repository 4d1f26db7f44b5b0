package core

import (
	"context"
	"database/sql"
)

type (
	DBExecutor interface {
		Exec(query string, args ...interface{}) (sql.Result, error)
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
		Query(query string, args ...interface{}) (*sql.Rows, error)
		QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
		QueryRow(query string, args ...interface{}) *sql.Row
		QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	}

	DB interface {
		DBExecutor

		Begin() (*sql.Tx, error)
		BeginTx(context.Context, *sql.TxOptions) (*sql.Tx, error)
	}

	DBTransactor interface {
		DBExecutor

		Commit() error
		Rollback() error
	}
)

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// PageQuery is the page/limit pair bound from the query string.
type PageQuery struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// Clean clamps the page and limit to sane bounds.
func (pq *PageQuery) Clean() {
	if pq.Page < 1 {
		pq.Page = 1
	}
	if pq.Limit < 1 {
		pq.Limit = defaultPageLimit
	} else if pq.Limit > maxPageLimit {
		pq.Limit = maxPageLimit
	}
}

func (pq PageQuery) Offset() int {
	return (pq.Page - 1) * pq.Limit
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

func NewPagination(pq PageQuery, total int) Pagination {
	pages := total / pq.Limit
	if total%pq.Limit > 0 {
		pages++
	}
	return Pagination{
		Page:       pq.Page,
		Limit:      pq.Limit,
		Total:      total,
		TotalPages: pages,
		HasNext:    pq.Page < pages,
		HasPrev:    pq.Page > 1 && total > 0,
	}
}
