package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwalimu/tutorhub/core"
)

func TestGrowthPct(t *testing.T) {
	tests := []struct {
		name       string
		prev, cur  int
		want       int
	}{
		{name: "no history, new activity", prev: 0, cur: 5, want: 100},
		{name: "no history, no activity", prev: 0, cur: 0, want: 0},
		{name: "decline floors at zero", prev: 10, cur: 8, want: 0},
		{name: "fifty percent", prev: 10, cur: 15, want: 50},
		{name: "flat", prev: 7, cur: 7, want: 0},
		{name: "floors fraction", prev: 3, cur: 5, want: 66},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, growthPct(tt.prev, tt.cur))
		})
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2021, time.June, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{name: "just now", at: now.Add(-30 * time.Second), want: "Just now"},
		{name: "minutes", at: now.Add(-5 * time.Minute), want: "5 minutes ago"},
		{name: "one hour", at: now.Add(-90 * time.Minute), want: "1 hour ago"},
		{name: "hours", at: now.Add(-7 * time.Hour), want: "7 hours ago"},
		{name: "days", at: now.Add(-3 * 24 * time.Hour), want: "3 days ago"},
		{name: "weeks", at: now.Add(-16 * 24 * time.Hour), want: "2 weeks ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relativeTime(tt.at, now))
		})
	}
}

func TestBackfillBuckets(t *testing.T) {
	now := time.Date(2021, time.June, 15, 0, 0, 0, 0, time.UTC)

	t.Run("pads missing months and backfills current", func(t *testing.T) {
		got := backfillBuckets([]MonthBucket{
			{Year: 2021, Month: 4, Count: 3},
			{Year: 2021, Month: 5, Count: 8},
		}, now)
		require.Len(t, got, chartMonths)
		assert.Equal(t, MonthBucket{Year: 2021, Month: 1, Count: 0}, got[0])
		assert.Equal(t, MonthBucket{Year: 2021, Month: 5, Count: 8}, got[4])
		// empty June bucket takes May's value
		assert.Equal(t, MonthBucket{Year: 2021, Month: 6, Count: 8}, got[5])
	})

	t.Run("real current-month data kept", func(t *testing.T) {
		got := backfillBuckets([]MonthBucket{
			{Year: 2021, Month: 6, Count: 2},
		}, now)
		assert.Equal(t, 2, got[5].Count)
	})

	t.Run("all empty stays empty", func(t *testing.T) {
		got := backfillBuckets(nil, now)
		for _, b := range got {
			assert.Zero(t, b.Count)
		}
	})
}

type stubRepo struct {
	counts map[string]int // per resource, all-time
	err    error
}

func (r *stubRepo) count(resource string, from time.Time) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	if from.IsZero() {
		return r.counts[resource], nil
	}
	return 0, nil
}

func (r *stubRepo) CountSubmissions(_ context.Context, from, _ time.Time, _ ...core.DBExecutor) (int, error) {
	return r.count("submissions", from)
}
func (r *stubRepo) CountTutors(_ context.Context, from, _ time.Time, _ ...core.DBExecutor) (int, error) {
	return r.count("tutors", from)
}
func (r *stubRepo) CountPublishedBlogs(_ context.Context, from, _ time.Time, _ ...core.DBExecutor) (int, error) {
	return r.count("blogs", from)
}
func (r *stubRepo) CountContacts(_ context.Context, from, _ time.Time, _ ...core.DBExecutor) (int, error) {
	return r.count("contacts", from)
}
func (r *stubRepo) CountSubscribers(_ context.Context, from, _ time.Time, _ ...core.DBExecutor) (int, error) {
	return r.count("subscribers", from)
}
func (r *stubRepo) CountActiveAdmins(_ context.Context, from, _ time.Time, _ ...core.DBExecutor) (int, error) {
	return r.count("admins", from)
}
func (r *stubRepo) MonthlyCounts(_ context.Context, _ string, _ time.Time, _ ...core.DBExecutor) ([]MonthBucket, error) {
	return nil, r.err
}
func (r *stubRepo) RecentActivities(_ context.Context, _ int, _ ...core.DBExecutor) ([]Activity, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []Activity{
		{Type: "contact", Title: "Jane Doe", CreatedAt: time.Now().UTC().Add(-2 * time.Hour)},
		{Type: "tutor", Title: "John Smith", CreatedAt: time.Now().UTC().Add(-10 * time.Minute)},
	}, nil
}
func (r *stubRepo) SubjectPerformance(_ context.Context, _ ...core.DBExecutor) ([]SubjectStat, error) {
	return nil, r.err
}

func TestReport(t *testing.T) {
	repo := &stubRepo{counts: map[string]int{
		"submissions": 20, "tutors": 5, "blogs": 3, "contacts": 10, "subscribers": 40, "admins": 2,
	}}
	svc := NewService(nil, repo)

	rpt, err := svc.Report()
	require.NoError(t, err)

	assert.Equal(t, 20, rpt.Stats.Students.Total)
	assert.Equal(t, 2, rpt.Stats.Admins.Total)
	assert.True(t, rpt.Estimates.Estimated)
	assert.Equal(t, float64(20*avgPlanPrice), rpt.Estimates.MonthlyRevenue)
	assert.Equal(t, 100, rpt.Estimates.SuccessRate) // 20 students / 10 contacts, capped

	// newest first with relative tags
	require.Len(t, rpt.RecentActivities, 2)
	assert.Equal(t, "tutor", rpt.RecentActivities[0].Type)
	assert.NotEmpty(t, rpt.RecentActivities[0].When)

	assert.Len(t, rpt.Charts.Students, chartMonths)
}

func TestReportQueryFailureAborts(t *testing.T) {
	repo := &stubRepo{err: assert.AnError}
	svc := NewService(nil, repo)

	_, err := svc.Report()
	require.Error(t, err)
}
