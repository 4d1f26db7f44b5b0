package tests

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/mwalimu/tutorhub/core/user"
)

func Test_userApi_login(t *testing.T) {
	createAdmin(t, "Jane Admin", "jane.admin@tutorhub.test", "Sup3r$ecret", true)
	createAdmin(t, "Gone Admin", "gone.admin@tutorhub.test", "Sup3r$ecret", false)

	tests := []httpTest{
		{
			name:     "unknown email",
			body:     []byte(`{"email":"ghost@tutorhub.test","password":"Sup3r$ecret"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"success":false,"error":"authentication failed"}`),
		},
		{
			name:     "wrong password",
			body:     []byte(`{"email":"jane.admin@tutorhub.test","password":"nope-nope"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"success":false,"error":"authentication failed"}`),
		},
		{
			name:     "deactivated account",
			body:     []byte(`{"email":"gone.admin@tutorhub.test","password":"Sup3r$ecret"}`),
			wantCode: http.StatusForbidden,
			wantData: []byte(`{"success":false,"error":"account deactivated"}`),
		},
		{
			name:     "ok",
			body:     []byte(`{"email":"jane.admin@tutorhub.test","password":"Sup3r$ecret"}`),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/api/users/login", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.name == "ok" {
				env := decodeEnvelope(t, rec)
				var data struct {
					Token string `json:"token"`
				}
				if err := json.Unmarshal(env.Data, &data); err != nil {
					t.Fatalf("unmarshalling data: %v", err)
				}
				if !env.Success || data.Token == "" {
					t.Errorf("failed! expected a token; body %s", rec.Body.String())
				}
			}
		})
	}
}

func Test_userApi_create(t *testing.T) {
	admin := createAdmin(t, "Root Admin", "root.admin@tutorhub.test", "Sup3r$ecret", true)
	token := getToken(t, admin)

	t.Run("missing token", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/users", []byte(`{}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: errMissingToken}, rec)
	})

	t.Run("missing fields are named", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/users", token, []byte(`{}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}

		var fldErrs map[string]string
		env := decodeEnvelope(t, rec)
		if err := json.Unmarshal(env.Error, &fldErrs); err != nil {
			t.Fatalf("unmarshalling error: %v", err)
		}
		for _, fld := range []string{"name", "email", "password"} {
			if _, ok := fldErrs[fld]; !ok {
				t.Errorf("failed! expected a %q field error; got %v", fld, fldErrs)
			}
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		body := []byte(`{"name":"Copy Cat","email":"root.admin@tutorhub.test","password":"An0ther$ecret","password_confirm":"An0ther$ecret"}`)
		req, rec := newAuthRequest(http.MethodPost, "/api/users", token, body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"success":false,"error":{"email":"a user with this email already exists"}}`),
		}, rec)
	})

	t.Run("ok", func(t *testing.T) {
		body := []byte(`{"name":"New Admin","email":"new.admin@tutorhub.test","password":"An0ther$ecret","password_confirm":"An0ther$ecret"}`)
		req, rec := newAuthRequest(http.MethodPost, "/api/users", token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}

		var usr user.User
		env := decodeEnvelope(t, rec)
		if err := json.Unmarshal(env.Data, &usr); err != nil {
			t.Fatalf("unmarshalling data: %v", err)
		}
		if usr.Email != "new.admin@tutorhub.test" || usr.Role != user.RoleAdmin || !usr.Active() {
			t.Errorf("failed! unexpected user %+v", usr)
		}
	})
}

func Test_userApi_destroy(t *testing.T) {
	admin := createAdmin(t, "Keeper Admin", "keeper.admin@tutorhub.test", "Sup3r$ecret", true)
	benched := createAdmin(t, "Benched Admin", "benched.admin@tutorhub.test", "Sup3r$ecret", false)
	token := getToken(t, admin)

	t.Run("self delete is forbidden", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/users/"+admin.ID, token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: []byte(`{"success":false,"error":"permission denied"}`),
		}, rec)
	})

	t.Run("last active admin cannot go", func(t *testing.T) {
		// a deactivated admin still holds a valid token; removing every
		// active admin at once must be refused
		benchedToken := getToken(t, benched)

		req, rec := newAuthRequest(http.MethodGet, "/api/users?is_active=true&limit=100", benchedToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var actives []user.User
		env := decodeEnvelope(t, rec)
		if err := json.Unmarshal(env.Data, &actives); err != nil {
			t.Fatalf("unmarshalling data: %v", err)
		}
		if len(actives) == 0 {
			t.Fatal("failed! expected at least one active admin")
		}

		query := make(url.Values)
		for _, usr := range actives {
			query.Add("id", usr.ID)
		}
		req, rec = newAuthRequest(http.MethodDelete, "/api/users?"+query.Encode(), benchedToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"success":false,"error":"at least one active admin must remain"}`),
		}, rec)
	})

	t.Run("ok", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/users/"+benched.ID, token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: []byte(`{"success":true,"message":"User deleted."}`),
		}, rec)
	})
}
