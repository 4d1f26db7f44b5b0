package dashboard

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mwalimu/tutorhub/core"
)

const (
	growthWindow      = 30 * 24 * time.Hour
	chartMonths       = 6
	recentPerResource = 2
	avgPlanPrice      = 150 // assumed monthly fee per enrolled student
)

type (
	// Repository answers the aggregation queries the report is built from.
	// A zero from/to means no lower/upper bound on created_at.
	Repository interface {
		CountSubmissions(ctx context.Context, from, to time.Time, exec ...core.DBExecutor) (int, error)
		CountTutors(ctx context.Context, from, to time.Time, exec ...core.DBExecutor) (int, error)
		CountPublishedBlogs(ctx context.Context, from, to time.Time, exec ...core.DBExecutor) (int, error)
		CountContacts(ctx context.Context, from, to time.Time, exec ...core.DBExecutor) (int, error)
		CountSubscribers(ctx context.Context, from, to time.Time, exec ...core.DBExecutor) (int, error)
		CountActiveAdmins(ctx context.Context, from, to time.Time, exec ...core.DBExecutor) (int, error)
		MonthlyCounts(ctx context.Context, resource string, since time.Time, exec ...core.DBExecutor) ([]MonthBucket, error)
		RecentActivities(ctx context.Context, perResource int, exec ...core.DBExecutor) ([]Activity, error)
		SubjectPerformance(ctx context.Context, exec ...core.DBExecutor) ([]SubjectStat, error)
	}

	Service interface {
		Report() (Report, error)
	}

	service struct {
		db   core.DB
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(db core.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

type countFn func(ctx context.Context, from, to time.Time, exec ...core.DBExecutor) (int, error)

// Report fans the count and aggregation queries out concurrently and
// assembles the dashboard payload. The first failing query fails the
// whole report; there are no partial results.
func (svc *service) Report() (Report, error) {
	ctx := context.Background()
	now := time.Now().UTC()
	curFrom := now.Add(-growthWindow)
	prevFrom := now.Add(-2 * growthWindow)
	chartSince := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(chartMonths - 1), 0)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	run := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}()
	}

	stats := make([]Stat, 6)
	counts := []countFn{
		svc.repo.CountSubmissions,
		svc.repo.CountTutors,
		svc.repo.CountPublishedBlogs,
		svc.repo.CountContacts,
		svc.repo.CountSubscribers,
		svc.repo.CountActiveAdmins,
	}
	for i, count := range counts {
		i, count := i, count
		run(func() error {
			total, err := count(ctx, time.Time{}, time.Time{})
			if err != nil {
				return err
			}
			cur, err := count(ctx, curFrom, now)
			if err != nil {
				return err
			}
			prev, err := count(ctx, prevFrom, curFrom)
			if err != nil {
				return err
			}
			stats[i] = Stat{Total: total, Growth: growthPct(prev, cur)}
			return nil
		})
	}

	charts := make([][]MonthBucket, 5)
	for i, resource := range []string{"submissions", "tutors", "blogs", "contacts", "subscribers"} {
		i, resource := i, resource
		run(func() error {
			buckets, err := svc.repo.MonthlyCounts(ctx, resource, chartSince)
			if err != nil {
				return err
			}
			charts[i] = backfillBuckets(buckets, now)
			return nil
		})
	}

	var (
		activities []Activity
		subjects   []SubjectStat
	)
	run(func() error {
		acts, err := svc.repo.RecentActivities(ctx, recentPerResource)
		if err != nil {
			return err
		}
		sort.SliceStable(acts, func(i, j int) bool { return acts[i].CreatedAt.After(acts[j].CreatedAt) })
		for i := range acts {
			acts[i].When = relativeTime(acts[i].CreatedAt, now)
		}
		activities = acts
		return nil
	})
	run(func() error {
		var err error
		subjects, err = svc.repo.SubjectPerformance(ctx)
		return err
	})

	wg.Wait()
	if firstErr != nil {
		return Report{}, firstErr
	}

	s := Stats{
		Students:    stats[0],
		Tutors:      stats[1],
		Blogs:       stats[2],
		Contacts:    stats[3],
		Subscribers: stats[4],
		Admins:      stats[5],
	}
	return Report{
		Stats:            s,
		Estimates:        estimate(s),
		RecentActivities: activities,
		SubjectPerformance: func() []SubjectStat {
			if subjects == nil {
				return []SubjectStat{}
			}
			return subjects
		}(),
		Charts: Charts{
			Students:    charts[0],
			Tutors:      charts[1],
			Blogs:       charts[2],
			Contacts:    charts[3],
			Subscribers: charts[4],
		},
		GeneratedAt: now,
	}, nil
}

// estimate derives the placeholder business metrics from the counts.
func estimate(s Stats) Estimates {
	successRate := 0
	if s.Contacts.Total > 0 {
		successRate = s.Students.Total * 100 / s.Contacts.Total
		if successRate > 100 {
			successRate = 100
		}
	}
	return Estimates{
		Estimated:      true,
		MonthlyRevenue: float64(s.Students.Total) * avgPlanPrice,
		SuccessRate:    successRate,
		ActiveSessions: s.Students.Total + s.Tutors.Total,
		GrowthRate:     s.Students.Growth,
	}
}

// backfillBuckets pads the trailing window to one bucket per month and
// replaces an empty current-month bucket with the previous month's value
// so the chart never ends on a hard zero. Presentation only.
func backfillBuckets(buckets []MonthBucket, now time.Time) []MonthBucket {
	byMonth := make(map[[2]int]int, len(buckets))
	for _, b := range buckets {
		byMonth[[2]int{b.Year, b.Month}] = b.Count
	}

	out := make([]MonthBucket, 0, chartMonths)
	for i := chartMonths - 1; i >= 0; i-- {
		m := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		out = append(out, MonthBucket{
			Year:  m.Year(),
			Month: int(m.Month()),
			Count: byMonth[[2]int{m.Year(), int(m.Month())}],
		})
	}

	last := len(out) - 1
	if out[last].Count == 0 && last > 0 && out[last-1].Count > 0 {
		out[last].Count = out[last-1].Count
	}
	return out
}
