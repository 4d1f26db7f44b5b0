package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/mwalimu/tutorhub/core"
	"github.com/mwalimu/tutorhub/core/blog"
	"github.com/mwalimu/tutorhub/core/dashboard"
)

type dashboardRepository struct {
	db *DB
}

var _ dashboard.Repository = (*dashboardRepository)(nil) // interface compliance check

func NewDashboardRepository(db *DB) dashboard.Repository {
	return &dashboardRepository{db: db}
}

func (repo *dashboardRepository) CountSubmissions(_ context.Context, from, to time.Time, _ ...core.DBExecutor) (int, error) {
	repo.db.submission.RLock()
	defer repo.db.submission.RUnlock()

	cnt := 0
	for _, s := range repo.db.submission.table {
		if inWindow(s.CreatedAt, from, to) {
			cnt++
		}
	}
	return cnt, nil
}

func (repo *dashboardRepository) CountTutors(_ context.Context, from, to time.Time, _ ...core.DBExecutor) (int, error) {
	repo.db.tutor.RLock()
	defer repo.db.tutor.RUnlock()

	cnt := 0
	for _, t := range repo.db.tutor.table {
		if inWindow(t.CreatedAt, from, to) {
			cnt++
		}
	}
	return cnt, nil
}

func (repo *dashboardRepository) CountPublishedBlogs(_ context.Context, from, to time.Time, _ ...core.DBExecutor) (int, error) {
	repo.db.blog.RLock()
	defer repo.db.blog.RUnlock()

	cnt := 0
	for _, b := range repo.db.blog.table {
		if b.Status == blog.StatusPublished && inWindow(b.CreatedAt, from, to) {
			cnt++
		}
	}
	return cnt, nil
}

func (repo *dashboardRepository) CountContacts(_ context.Context, from, to time.Time, _ ...core.DBExecutor) (int, error) {
	repo.db.contact.RLock()
	defer repo.db.contact.RUnlock()

	cnt := 0
	for _, c := range repo.db.contact.table {
		if inWindow(c.CreatedAt, from, to) {
			cnt++
		}
	}
	return cnt, nil
}

func (repo *dashboardRepository) CountSubscribers(_ context.Context, from, to time.Time, _ ...core.DBExecutor) (int, error) {
	repo.db.subscriber.RLock()
	defer repo.db.subscriber.RUnlock()

	cnt := 0
	for _, s := range repo.db.subscriber.table {
		if inWindow(s.CreatedAt, from, to) {
			cnt++
		}
	}
	return cnt, nil
}

func (repo *dashboardRepository) CountActiveAdmins(_ context.Context, from, to time.Time, _ ...core.DBExecutor) (int, error) {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	cnt := 0
	for _, u := range repo.db.user.table {
		if u.IsAdmin() && u.Active() && inWindow(u.CreatedAt, from, to) {
			cnt++
		}
	}
	return cnt, nil
}

func (repo *dashboardRepository) MonthlyCounts(ctx context.Context, resource string, since time.Time, _ ...core.DBExecutor) ([]dashboard.MonthBucket, error) {
	var times []time.Time
	switch resource {
	case "submissions":
		repo.db.submission.RLock()
		for _, s := range repo.db.submission.table {
			times = append(times, s.CreatedAt)
		}
		repo.db.submission.RUnlock()
	case "tutors":
		repo.db.tutor.RLock()
		for _, t := range repo.db.tutor.table {
			times = append(times, t.CreatedAt)
		}
		repo.db.tutor.RUnlock()
	case "blogs":
		repo.db.blog.RLock()
		for _, b := range repo.db.blog.table {
			if b.Status == blog.StatusPublished {
				times = append(times, b.CreatedAt)
			}
		}
		repo.db.blog.RUnlock()
	case "contacts":
		repo.db.contact.RLock()
		for _, c := range repo.db.contact.table {
			times = append(times, c.CreatedAt)
		}
		repo.db.contact.RUnlock()
	case "subscribers":
		repo.db.subscriber.RLock()
		for _, s := range repo.db.subscriber.table {
			times = append(times, s.CreatedAt)
		}
		repo.db.subscriber.RUnlock()
	}

	byMonth := make(map[[2]int]int)
	for _, t := range times {
		if t.Before(since) {
			continue
		}
		byMonth[[2]int{t.Year(), int(t.Month())}]++
	}

	buckets := make([]dashboard.MonthBucket, 0, len(byMonth))
	for ym, cnt := range byMonth {
		buckets = append(buckets, dashboard.MonthBucket{Year: ym[0], Month: ym[1], Count: cnt})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Year != buckets[j].Year {
			return buckets[i].Year < buckets[j].Year
		}
		return buckets[i].Month < buckets[j].Month
	})
	return buckets, nil
}

func (repo *dashboardRepository) RecentActivities(_ context.Context, perResource int, _ ...core.DBExecutor) ([]dashboard.Activity, error) {
	var acts []dashboard.Activity
	take := func(rows []dashboard.Activity) {
		sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
		if len(rows) > perResource {
			rows = rows[:perResource]
		}
		acts = append(acts, rows...)
	}

	var rows []dashboard.Activity
	repo.db.contact.RLock()
	for _, c := range repo.db.contact.table {
		rows = append(rows, dashboard.Activity{Type: "contact", Title: c.Name, CreatedAt: c.CreatedAt})
	}
	repo.db.contact.RUnlock()
	take(rows)

	rows = nil
	repo.db.submission.RLock()
	for _, s := range repo.db.submission.table {
		rows = append(rows, dashboard.Activity{Type: "submission", Title: s.Name, CreatedAt: s.CreatedAt})
	}
	repo.db.submission.RUnlock()
	take(rows)

	rows = nil
	repo.db.tutor.RLock()
	for _, t := range repo.db.tutor.table {
		rows = append(rows, dashboard.Activity{Type: "tutor", Title: t.Name, CreatedAt: t.CreatedAt})
	}
	repo.db.tutor.RUnlock()
	take(rows)

	rows = nil
	repo.db.blog.RLock()
	for _, b := range repo.db.blog.table {
		rows = append(rows, dashboard.Activity{Type: "blog", Title: b.Title, CreatedAt: b.CreatedAt})
	}
	repo.db.blog.RUnlock()
	take(rows)

	rows = nil
	repo.db.subscriber.RLock()
	for _, s := range repo.db.subscriber.table {
		rows = append(rows, dashboard.Activity{Type: "subscriber", Title: s.Email, CreatedAt: s.CreatedAt})
	}
	repo.db.subscriber.RUnlock()
	take(rows)

	return acts, nil
}

func (repo *dashboardRepository) SubjectPerformance(_ context.Context, _ ...core.DBExecutor) ([]dashboard.SubjectStat, error) {
	repo.db.tutor.RLock()
	defer repo.db.tutor.RUnlock()

	type agg struct {
		n      int
		rating float64
	}
	bySubject := make(map[string]*agg)
	for _, t := range repo.db.tutor.table {
		a, ok := bySubject[t.Subject]
		if !ok {
			a = &agg{}
			bySubject[t.Subject] = a
		}
		a.n++
		a.rating += t.Rating
	}

	stats := make([]dashboard.SubjectStat, 0, len(bySubject))
	for subj, a := range bySubject {
		stats = append(stats, dashboard.SubjectStat{Subject: subj, Tutors: a.n, AvgRating: a.rating / float64(a.n)})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Tutors != stats[j].Tutors {
			return stats[i].Tutors > stats[j].Tutors
		}
		return stats[i].Subject < stats[j].Subject
	})
	return stats, nil
}
