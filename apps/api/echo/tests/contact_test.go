package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mwalimu/tutorhub/core/contact"
)

func Test_contactApi(t *testing.T) {
	admin := createAdmin(t, "Contact Admin", "contact.admin@tutorhub.test", "Sup3r$ecret", true)
	token := getToken(t, admin)

	var created contact.Contact

	t.Run("public create lands as new", func(t *testing.T) {
		body := []byte(`{"name":"Worried Parent","email":"parent@example.test","message":"Do you cover IGCSE maths?"}`)
		req, rec := newRequest(http.MethodPost, "/api/contacts", body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}

		env := decodeEnvelope(t, rec)
		if err := json.Unmarshal(env.Data, &created); err != nil {
			t.Fatalf("unmarshalling data: %v", err)
		}
		if created.Status != contact.StatusNew {
			t.Errorf("failed! status = %q; want %q", created.Status, contact.StatusNew)
		}
	})

	t.Run("missing fields are named", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/contacts", []byte(`{}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}

		var fldErrs map[string]string
		env := decodeEnvelope(t, rec)
		if err := json.Unmarshal(env.Error, &fldErrs); err != nil {
			t.Fatalf("unmarshalling error: %v", err)
		}
		for _, fld := range []string{"name", "email", "message"} {
			if _, ok := fldErrs[fld]; !ok {
				t.Errorf("failed! expected a %q field error; got %v", fld, fldErrs)
			}
		}
	})

	t.Run("listing requires a token", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/contacts")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: errMissingToken}, rec)
	})

	t.Run("admin moves it along", func(t *testing.T) {
		body := []byte(`{"status":"read"}`)
		req, rec := newAuthRequest(http.MethodPut, "/api/contacts/"+created.ID, token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}

		var got contact.Contact
		env := decodeEnvelope(t, rec)
		if err := json.Unmarshal(env.Data, &got); err != nil {
			t.Fatalf("unmarshalling data: %v", err)
		}
		if got.Status != contact.StatusRead {
			t.Errorf("failed! status = %q; want %q", got.Status, contact.StatusRead)
		}
	})
}
