package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mwalimu/tutorhub/core/pricing"
)

func Test_pricingApi(t *testing.T) {
	admin := createAdmin(t, "Pricing Admin", "pricing.admin@tutorhub.test", "Sup3r$ecret", true)
	token := getToken(t, admin)

	var retired pricing.Plan

	t.Run("create", func(t *testing.T) {
		body := []byte(`{"title":"Family Bundle","price":250,"features":["4 lessons a week","Progress reports"],"display_order":1}`)
		req, rec := newAuthRequest(http.MethodPost, "/api/pricing", token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}

		var plan pricing.Plan
		env := decodeEnvelope(t, rec)
		if err := json.Unmarshal(env.Data, &plan); err != nil {
			t.Fatalf("unmarshalling data: %v", err)
		}
		if !plan.IsActive {
			t.Error("failed! a new plan should default to active")
		}
	})

	t.Run("create inactive", func(t *testing.T) {
		body := []byte(`{"title":"Legacy Plan","price":90,"features":["2 lessons a week"],"is_active":false}`)
		req, rec := newAuthRequest(http.MethodPost, "/api/pricing", token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		env := decodeEnvelope(t, rec)
		if err := json.Unmarshal(env.Data, &retired); err != nil {
			t.Fatalf("unmarshalling data: %v", err)
		}
	})

	t.Run("anonymous list only sees active plans", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/pricing?limit=100")
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}

		var plans []pricing.Plan
		env := decodeEnvelope(t, rec)
		if err := json.Unmarshal(env.Data, &plans); err != nil {
			t.Fatalf("unmarshalling data: %v", err)
		}
		for _, p := range plans {
			if !p.IsActive {
				t.Errorf("failed! inactive plan %q leaked", p.Title)
			}
		}
	})

	t.Run("admin list sees everything", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/pricing?limit=100", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}

		var plans []pricing.Plan
		env := decodeEnvelope(t, rec)
		if err := json.Unmarshal(env.Data, &plans); err != nil {
			t.Fatalf("unmarshalling data: %v", err)
		}
		found := false
		for _, p := range plans {
			if p.ID == retired.ID {
				found = true
			}
		}
		if !found {
			t.Error("failed! expected the inactive plan in the admin listing")
		}
	})
}
