package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mwalimu/tutorhub/core/dashboard"
)

func Test_dashboardApi(t *testing.T) {
	admin := createAdmin(t, "Dash Admin", "dash.admin@tutorhub.test", "Sup3r$ecret", true)
	token := getToken(t, admin)

	t.Run("requires a token", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/dashboard")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: errMissingToken}, rec)
	})

	t.Run("ok", func(t *testing.T) {
		createTutor(t, "Dash Tutor", "dash.tutor@tutorhub.test", "History")

		req, rec := newAuthRequest(http.MethodGet, "/api/dashboard", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}

		var report dashboard.Report
		env := decodeEnvelope(t, rec)
		if err := json.Unmarshal(env.Data, &report); err != nil {
			t.Fatalf("unmarshalling data: %v", err)
		}

		if !report.Estimates.Estimated {
			t.Error("failed! estimates must be labelled as estimated")
		}
		if report.Stats.Tutors.Total < 1 {
			t.Errorf("failed! tutors total = %v; want at least 1", report.Stats.Tutors.Total)
		}
		if report.Stats.Admins.Total < 1 {
			t.Errorf("failed! admins total = %v; want at least 1", report.Stats.Admins.Total)
		}
		if report.GeneratedAt.IsZero() {
			t.Error("failed! generatedAt is unset")
		}

		// six-month windows on every chart
		for _, buckets := range map[string][]dashboard.MonthBucket{
			"students":    report.Charts.Students,
			"tutors":      report.Charts.Tutors,
			"blogs":       report.Charts.Blogs,
			"contacts":    report.Charts.Contacts,
			"subscribers": report.Charts.Subscribers,
		} {
			if len(buckets) != 6 {
				t.Errorf("failed! chart has %v buckets; want 6", len(buckets))
			}
		}

		for _, act := range report.RecentActivities {
			if act.When == "" {
				t.Errorf("failed! activity %q has no relative time", act.Title)
			}
		}
	})
}
