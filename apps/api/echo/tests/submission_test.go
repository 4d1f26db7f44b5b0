package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mwalimu/tutorhub/core/submission"
)

func Test_submissionApi(t *testing.T) {
	admin := createAdmin(t, "Submission Admin", "submission.admin@tutorhub.test", "Sup3r$ecret", true)
	token := getToken(t, admin)

	var created submission.Submission

	t.Run("public create lands as pending", func(t *testing.T) {
		body := []byte(`{"name":"Keen Student","phone":"+254711223344","email":"keen.student@example.test","curriculum":"IGCSE","grade":"Year 10"}`)
		req, rec := newRequest(http.MethodPost, "/api/submissions", body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}

		env := decodeEnvelope(t, rec)
		if err := json.Unmarshal(env.Data, &created); err != nil {
			t.Fatalf("unmarshalling data: %v", err)
		}
		if created.Status != submission.StatusPending {
			t.Errorf("failed! status = %q; want %q", created.Status, submission.StatusPending)
		}
	})

	t.Run("listing requires a token", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/submissions")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: errMissingToken}, rec)
	})

	t.Run("admin enrolls the student", func(t *testing.T) {
		body := []byte(`{"status":"enrolled"}`)
		req, rec := newAuthRequest(http.MethodPut, "/api/submissions/"+created.ID, token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}

		var got submission.Submission
		env := decodeEnvelope(t, rec)
		if err := json.Unmarshal(env.Data, &got); err != nil {
			t.Fatalf("unmarshalling data: %v", err)
		}
		if got.Status != submission.StatusEnrolled {
			t.Errorf("failed! status = %q; want %q", got.Status, submission.StatusEnrolled)
		}
	})
}
