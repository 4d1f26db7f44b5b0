package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	echoapi "github.com/mwalimu/tutorhub/apps/api/echo"
	"github.com/mwalimu/tutorhub/core"
	"github.com/mwalimu/tutorhub/core/tutor"
	"github.com/mwalimu/tutorhub/core/user"
)

var errMissingToken = []byte(`{"success":false,"error":"missing or malformed jwt"}`)

// envelope mirrors the wire format of every API response.
type envelope struct {
	Success    bool             `json:"success"`
	Data       json.RawMessage  `json:"data"`
	Message    string           `json:"message"`
	Error      json.RawMessage  `json:"error"`
	Pagination *core.Pagination `json:"pagination"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := echoapi.GetUserClaims(usr)
	token, err := echoapi.GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decodeEnvelope() failed: %v; body %s", err, rec.Body.String())
	}
	return env
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func createAdmin(t *testing.T, name, email, pwd string, isActive bool) user.User {
	now := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Email:     email,
		Role:      user.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	usr.SetActive(isActive)
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("createAdmin() failed: %v", err)
		}
	}
	usr, err := usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("createAdmin() failed: %v", err)
	}
	return usr
}

func createTutor(t *testing.T, name, email, subject string) tutor.Tutor {
	now := time.Now().UTC()
	tut := tutor.Tutor{
		Name:          name,
		Email:         email,
		Phone:         fmt.Sprintf("+2547%08d", time.Now().UnixNano()%100000000),
		Subject:       subject,
		Qualification: "BSc Education",
		Experience:    3,
		Rating:        4.5,
		Status:        tutor.StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	tut, err := tutRepo.CreateTutor(context.Background(), tut)
	if err != nil {
		t.Fatalf("createTutor() failed: %v", err)
	}
	return tut
}
