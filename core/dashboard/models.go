package dashboard

import (
	"fmt"
	"time"
)

type (
	// Stat pairs a total count with its growth percentage over the
	// previous 30 days. Growth never goes negative.
	Stat struct {
		Total  int `json:"total"`
		Growth int `json:"growth"`
	}

	Stats struct {
		Students    Stat `json:"students"`
		Tutors      Stat `json:"tutors"`
		Blogs       Stat `json:"blogs"`
		Contacts    Stat `json:"contacts"`
		Subscribers Stat `json:"subscribers"`
		Admins      Stat `json:"admins"`
	}

	// Estimates are heuristic figures derived from the raw counts.
	// They are presentation placeholders, not measured facts.
	Estimates struct {
		Estimated      bool    `json:"estimated"` // always true
		MonthlyRevenue float64 `json:"monthly_revenue"`
		SuccessRate    int     `json:"success_rate"`
		ActiveSessions int     `json:"active_sessions"`
		GrowthRate     int     `json:"growth_rate"`
	}

	// MonthBucket is one (year, month) aggregation bucket.
	MonthBucket struct {
		Year  int `db:"year" json:"year"`
		Month int `db:"month" json:"month"`
		Count int `db:"count" json:"count"`
	}

	Charts struct {
		Students    []MonthBucket `json:"students"`
		Tutors      []MonthBucket `json:"tutors"`
		Blogs       []MonthBucket `json:"blogs"`
		Contacts    []MonthBucket `json:"contacts"`
		Subscribers []MonthBucket `json:"subscribers"`
	}

	// SubjectStat summarizes the tutors teaching one subject.
	SubjectStat struct {
		Subject   string  `db:"subject" json:"subject"`
		Tutors    int     `db:"tutors" json:"tutors"`
		AvgRating float64 `db:"avg_rating" json:"avg_rating"`
	}

	// Activity is one row of the recent-activity feed.
	Activity struct {
		Type      string    `db:"type" json:"type"` // contact | submission | tutor | blog | subscriber
		Title     string    `db:"title" json:"title"`
		CreatedAt time.Time `db:"created_at" json:"created_at"`
		When      string    `json:"when"` // relative to report time
	}

	Report struct {
		Stats              Stats         `json:"stats"`
		Estimates          Estimates     `json:"estimates"`
		RecentActivities   []Activity    `json:"recent_activities"`
		SubjectPerformance []SubjectStat `json:"subject_performance"`
		Charts             Charts        `json:"charts"`
		GeneratedAt        time.Time     `json:"generated_at"`
	}
)

// growthPct compares the current 30-day window against the previous one.
// A zero previous count reads as 100% when anything happened at all, and
// declines are floored at zero.
func growthPct(prev, cur int) int {
	if prev == 0 {
		if cur > 0 {
			return 100
		}
		return 0
	}
	pct := (cur - prev) * 100 / prev
	if pct < 0 {
		return 0
	}
	return pct
}

// relativeTime renders t against now for the activity feed.
func relativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < 7*24*time.Hour:
		return plural(int(d.Hours()/24), "day")
	default:
		return plural(int(d.Hours()/(24*7)), "week")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
