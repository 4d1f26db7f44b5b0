package sqlxrepos

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mwalimu/tutorhub/core"
	"github.com/mwalimu/tutorhub/core/dashboard"
)

// tables the dashboard aggregates over, keyed by resource name. The extra
// clause narrows the base set before any created_at window is applied.
var dashboardTables = map[string]struct {
	table  string
	clause string
}{
	"submissions": {table: "submission"},
	"tutors":      {table: "tutor"},
	"blogs":       {table: "blog", clause: "status = 'published'"},
	"contacts":    {table: "contact"},
	"subscribers": {table: "subscriber"},
	"admins":      {table: `"user"`, clause: "role = 'admin' AND is_active"},
}

type dashboardRepository struct {
	db *sqlx.DB
}

var _ dashboard.Repository = (*dashboardRepository)(nil) // interface compliance check

func NewDashboardRepository(db *sqlx.DB) dashboard.Repository {
	return &dashboardRepository{db: db}
}

func (repo *dashboardRepository) count(ctx context.Context, resource string, from, to time.Time, exec []core.DBExecutor) (int, error) {
	e := ext(repo.db, exec)

	t, ok := dashboardTables[resource]
	if !ok {
		return 0, errors.Errorf("unknown dashboard resource %q", resource)
	}

	var w whereBuilder
	if t.clause != "" {
		w.add(t.clause)
	}
	if !from.IsZero() {
		w.add("created_at >= ?", from.UTC())
	}
	if !to.IsZero() {
		w.add("created_at < ?", to.UTC())
	}

	var cnt int
	q := e.Rebind("SELECT COUNT(*) FROM " + t.table + w.sql())
	if err := sqlx.GetContext(ctx, e, &cnt, q, w.args...); err != nil {
		return 0, errors.Wrapf(err, "counting %s", resource)
	}
	return cnt, nil
}

func (repo *dashboardRepository) CountSubmissions(ctx context.Context, from, to time.Time, exec ...core.DBExecutor) (int, error) {
	return repo.count(ctx, "submissions", from, to, exec)
}

func (repo *dashboardRepository) CountTutors(ctx context.Context, from, to time.Time, exec ...core.DBExecutor) (int, error) {
	return repo.count(ctx, "tutors", from, to, exec)
}

func (repo *dashboardRepository) CountPublishedBlogs(ctx context.Context, from, to time.Time, exec ...core.DBExecutor) (int, error) {
	return repo.count(ctx, "blogs", from, to, exec)
}

func (repo *dashboardRepository) CountContacts(ctx context.Context, from, to time.Time, exec ...core.DBExecutor) (int, error) {
	return repo.count(ctx, "contacts", from, to, exec)
}

func (repo *dashboardRepository) CountSubscribers(ctx context.Context, from, to time.Time, exec ...core.DBExecutor) (int, error) {
	return repo.count(ctx, "subscribers", from, to, exec)
}

func (repo *dashboardRepository) CountActiveAdmins(ctx context.Context, from, to time.Time, exec ...core.DBExecutor) (int, error) {
	return repo.count(ctx, "admins", from, to, exec)
}

func (repo *dashboardRepository) MonthlyCounts(ctx context.Context, resource string, since time.Time, exec ...core.DBExecutor) ([]dashboard.MonthBucket, error) {
	e := ext(repo.db, exec)

	t, ok := dashboardTables[resource]
	if !ok {
		return nil, errors.Errorf("unknown dashboard resource %q", resource)
	}

	var w whereBuilder
	if t.clause != "" {
		w.add(t.clause)
	}
	w.add("created_at >= ?", since.UTC())

	q := e.Rebind(`SELECT EXTRACT(YEAR FROM created_at)::int AS year,
			EXTRACT(MONTH FROM created_at)::int AS month, COUNT(*) AS count
		FROM ` + t.table + w.sql() + `
		GROUP BY 1, 2
		ORDER BY 1, 2`)

	var buckets []dashboard.MonthBucket
	if err := sqlx.SelectContext(ctx, e, &buckets, q, w.args...); err != nil {
		return nil, errors.Wrapf(err, "monthly %s counts", resource)
	}
	return buckets, nil
}

func (repo *dashboardRepository) RecentActivities(ctx context.Context, perResource int, exec ...core.DBExecutor) ([]dashboard.Activity, error) {
	e := ext(repo.db, exec)

	sub := func(typ, title, table string) string {
		return fmt.Sprintf(`(SELECT '%s' AS type, %s AS title, created_at FROM %s ORDER BY created_at DESC LIMIT %d)`,
			typ, title, table, perResource)
	}
	q := sub("contact", "name", "contact") +
		" UNION ALL " + sub("submission", "name", "submission") +
		" UNION ALL " + sub("tutor", "name", "tutor") +
		" UNION ALL " + sub("blog", "title", "blog") +
		" UNION ALL " + sub("subscriber", "email", "subscriber") +
		" ORDER BY created_at DESC"

	var acts []dashboard.Activity
	if err := sqlx.SelectContext(ctx, e, &acts, q); err != nil {
		return nil, errors.Wrap(err, "querying recent activities")
	}
	return acts, nil
}

func (repo *dashboardRepository) SubjectPerformance(ctx context.Context, exec ...core.DBExecutor) ([]dashboard.SubjectStat, error) {
	e := ext(repo.db, exec)

	q := `SELECT subject, COUNT(*) AS tutors, COALESCE(AVG(rating), 0) AS avg_rating
		FROM tutor
		GROUP BY subject
		ORDER BY tutors DESC, subject`

	var stats []dashboard.SubjectStat
	if err := sqlx.SelectContext(ctx, e, &stats, q); err != nil {
		return nil, errors.Wrap(err, "querying subject performance")
	}
	return stats, nil
}
