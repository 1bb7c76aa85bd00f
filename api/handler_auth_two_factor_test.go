package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/credenzahq/credenza/db"
	"github.com/credenzahq/credenza/db/mock"
)

// withUser plants an authenticated user the way RequireAuth would.
func withUser(req *http.Request, user *db.User) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), userContextKey, user))
}

func TestTwoFactorSetupHandler(t *testing.T) {
	stored := ""
	user := &db.User{ID: "u1", Email: "a@b.com"}
	api := newTestApi(t, &mock.Db{
		GetUserByIdFunc: func(id string) (*db.User, error) {
			return user, nil
		},
		SaveTwoFactorSecretFunc: func(userId, secretEncrypted string) error {
			stored = secretEncrypted
			return nil
		},
	}, nil)

	rec := httptest.NewRecorder()
	api.TwoFactorSetupHandler(rec, withUser(postJSON("/api/auth/2fa/setup", `{}`), user))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	data, _ := body["data"].(map[string]any)
	if data == nil {
		t.Fatalf("no data in %v", body)
	}
	if data["otpauth_url"] == "" || data["secret"] == "" {
		t.Error("setup response missing otpauth_url or secret")
	}
	if stored == "" {
		t.Error("encrypted secret was not persisted")
	}
	if stored == data["secret"] {
		t.Error("secret stored in plaintext")
	}
}

func TestTwoFactorVerifyHandlerRejections(t *testing.T) {
	user := &db.User{ID: "u1", Email: "a@b.com"}
	api := newTestApi(t, &mock.Db{
		GetUserByIdFunc: func(id string) (*db.User, error) {
			return user, nil // no secret provisioned
		},
	}, nil)

	testCases := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"missing code", `{}`, http.StatusBadRequest},
		{"not configured", `{"code": "123456"}`, http.StatusBadRequest},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			api.TwoFactorVerifyHandler(rec, withUser(postJSON("/api/auth/2fa/verify", tc.body), user))
			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}

func TestTwoFactorDisableRequiresValidCode(t *testing.T) {
	api := newTestApi(t, &mock.Db{
		GetUserByIdFunc: func(id string) (*db.User, error) {
			return &db.User{ID: "u1", Email: "a@b.com", TwoFactorSecret: "junk"}, nil
		},
	}, nil)

	rec := httptest.NewRecorder()
	req := withUser(postJSON("/api/auth/2fa/disable", `{"code": "000000"}`), &db.User{ID: "u1"})
	api.TwoFactorDisableHandler(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if body := decodeBody(t, rec); body["code"] != CodeErrorInvalidCode {
		t.Errorf("code = %v", body["code"])
	}
}

func TestMeHandler(t *testing.T) {
	api := newTestApi(t, &mock.Db{}, nil)

	user := &db.User{ID: "u1", Email: "a@b.com", Name: "Ada", Password: "hash"}
	rec := httptest.NewRecorder()
	api.MeHandler(rec, withUser(httptest.NewRequest("GET", "/api/auth/me", nil), user))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	body := decodeBody(t, rec)
	data, _ := body["data"].(map[string]any)
	if data == nil {
		t.Fatalf("no data in %v", body)
	}
	if data["email"] != "a@b.com" || data["name"] != "Ada" {
		t.Errorf("record = %v", data)
	}
	if _, leaked := data["password"]; leaked {
		t.Error("password hash leaked in response")
	}
}
