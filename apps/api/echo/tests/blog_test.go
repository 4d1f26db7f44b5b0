package tests

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/mwalimu/tutorhub/core/blog"
)

func Test_blogApi(t *testing.T) {
	admin := createAdmin(t, "Blog Admin", "blog.admin@tutorhub.test", "Sup3r$ecret", true)
	token := getToken(t, admin)

	var draft, published blog.Blog

	t.Run("create draft", func(t *testing.T) {
		body := []byte(`{"title":"Exam Season Survival Guide","content":"Deep breaths.","category":"exam-prep","author":"Jane"}`)
		req, rec := newAuthRequest(http.MethodPost, "/api/blogs", token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}

		env := decodeEnvelope(t, rec)
		if err := json.Unmarshal(env.Data, &draft); err != nil {
			t.Fatalf("unmarshalling data: %v", err)
		}
		if draft.Status != blog.StatusDraft {
			t.Errorf("failed! status = %q; want %q", draft.Status, blog.StatusDraft)
		}
		if !strings.HasPrefix(draft.Slug, "exam-season-survival-guide-") {
			t.Errorf("failed! slug = %q; want a timestamped slug", draft.Slug)
		}
		if draft.PublishedAt.Valid {
			t.Errorf("failed! publishedAt = %v; want unset", draft.PublishedAt)
		}
	})

	t.Run("create published", func(t *testing.T) {
		body := []byte(`{"title":"Meet Our Tutors","content":"They are great.","category":"news","status":"published","author":"Jane"}`)
		req, rec := newAuthRequest(http.MethodPost, "/api/blogs", token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}

		env := decodeEnvelope(t, rec)
		if err := json.Unmarshal(env.Data, &published); err != nil {
			t.Fatalf("unmarshalling data: %v", err)
		}
		if !published.PublishedAt.Valid {
			t.Errorf("failed! expected publishedAt to be set on first publish")
		}
	})

	t.Run("duplicate title", func(t *testing.T) {
		body := []byte(`{"title":"Meet Our Tutors","content":"Again.","category":"news","author":"Jane"}`)
		req, rec := newAuthRequest(http.MethodPost, "/api/blogs", token, body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"success":false,"error":{"title":"a blog with this title already exists"}}`),
		}, rec)
	})

	t.Run("anonymous list only sees published", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/blogs?limit=100")
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}

		var blogs []blog.Blog
		env := decodeEnvelope(t, rec)
		if err := json.Unmarshal(env.Data, &blogs); err != nil {
			t.Fatalf("unmarshalling data: %v", err)
		}
		for _, b := range blogs {
			if b.Status != blog.StatusPublished {
				t.Errorf("failed! %q leaked with status %q", b.Title, b.Status)
			}
		}
	})

	t.Run("admin list can filter drafts", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/blogs?status=draft&limit=100", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}

		var blogs []blog.Blog
		env := decodeEnvelope(t, rec)
		if err := json.Unmarshal(env.Data, &blogs); err != nil {
			t.Fatalf("unmarshalling data: %v", err)
		}
		found := false
		for _, b := range blogs {
			if b.ID == draft.ID {
				found = true
			}
			if b.Status != blog.StatusDraft {
				t.Errorf("failed! %q has status %q; want draft", b.Title, b.Status)
			}
		}
		if !found {
			t.Error("failed! expected the draft in the admin listing")
		}
	})

	t.Run("retrieve by slug", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/blogs/slug/"+published.Slug)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}

		var got blog.Blog
		env := decodeEnvelope(t, rec)
		if err := json.Unmarshal(env.Data, &got); err != nil {
			t.Fatalf("unmarshalling data: %v", err)
		}
		if got.ID != published.ID {
			t.Errorf("failed! got %q; want %q", got.ID, published.ID)
		}
	})
}
