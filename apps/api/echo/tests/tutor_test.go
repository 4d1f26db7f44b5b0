package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/mwalimu/tutorhub/core/tutor"
)

func Test_tutorApi_create(t *testing.T) {
	admin := createAdmin(t, "Tutor Admin", "tutor.admin@tutorhub.test", "Sup3r$ecret", true)
	token := getToken(t, admin)
	existing := createTutor(t, "Alice Mwangi", "alice.mwangi@tutorhub.test", "Mathematics")

	t.Run("missing token", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/tutors", []byte(`{}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: errMissingToken}, rec)
	})

	t.Run("missing fields are named", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/tutors", token, []byte(`{}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}

		var fldErrs map[string]string
		env := decodeEnvelope(t, rec)
		if err := json.Unmarshal(env.Error, &fldErrs); err != nil {
			t.Fatalf("unmarshalling error: %v", err)
		}
		for _, fld := range []string{"name", "email", "phone", "subject", "qualification", "experience"} {
			if _, ok := fldErrs[fld]; !ok {
				t.Errorf("failed! expected a %q field error; got %v", fld, fldErrs)
			}
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		body := []byte(`{
			"name": "Alice Clone",
			"email": "` + existing.Email + `",
			"phone": "+254712345678",
			"subject": "Physics",
			"qualification": "MSc Physics",
			"experience": 5
		}`)
		req, rec := newAuthRequest(http.MethodPost, "/api/tutors", token, body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"success":false,"error":{"email":"Email already exists"}}`),
		}, rec)
	})

	t.Run("ok defaults to pending", func(t *testing.T) {
		body := []byte(`{
			"name": "Brian Otieno",
			"email": "brian.otieno@tutorhub.test",
			"phone": "+254798765432",
			"subject": "Chemistry",
			"qualification": "BSc Chemistry",
			"experience": 2
		}`)
		req, rec := newAuthRequest(http.MethodPost, "/api/tutors", token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}

		var tut tutor.Tutor
		env := decodeEnvelope(t, rec)
		if err := json.Unmarshal(env.Data, &tut); err != nil {
			t.Fatalf("unmarshalling data: %v", err)
		}
		if tut.Status != tutor.StatusPending {
			t.Errorf("failed! status = %q; want %q", tut.Status, tutor.StatusPending)
		}
	})
}

func Test_tutorApi_query_pagination(t *testing.T) {
	// a subject unique to this test keeps rows from other tests out of the window
	subject := "QuantumPrep"
	for i := 0; i < 15; i++ {
		createTutor(t, fmt.Sprintf("Quantum Tutor %02d", i), fmt.Sprintf("quantum.tutor%02d@tutorhub.test", i), subject)
	}

	req, rec := newRequest(http.MethodGet, "/api/tutors?subject="+subject+"&page=2&limit=10")
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
	}

	var tutors []tutor.Tutor
	env := decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, &tutors); err != nil {
		t.Fatalf("unmarshalling data: %v", err)
	}
	if len(tutors) != 5 {
		t.Errorf("failed! len(data) = %v; want 5", len(tutors))
	}
	if env.Pagination == nil {
		t.Fatal("failed! expected a pagination block")
	}
	if env.Pagination.Total != 15 || env.Pagination.Page != 2 {
		t.Errorf("failed! pagination = %+v; want total 15, page 2", env.Pagination)
	}
	if env.Pagination.HasNext || !env.Pagination.HasPrev {
		t.Errorf("failed! pagination = %+v; want has_next=false has_prev=true", env.Pagination)
	}
}

func Test_tutorApi_retrieve(t *testing.T) {
	tut := createTutor(t, "Carol Wanjiru", "carol.wanjiru@tutorhub.test", "Biology")

	t.Run("ok", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/tutors/"+tut.ID)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}

		var got tutor.Tutor
		env := decodeEnvelope(t, rec)
		if err := json.Unmarshal(env.Data, &got); err != nil {
			t.Fatalf("unmarshalling data: %v", err)
		}
		if got.ID != tut.ID || got.Email != tut.Email {
			t.Errorf("failed! got %+v; want %+v", got, tut)
		}
	})

	t.Run("not found", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/tutors/does-not-exist")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: []byte(`{"success":false,"error":"not found"}`),
		}, rec)
	})
}
