package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"gstbooks/internal/models"
	"gstbooks/internal/services"
)

type stubResetService struct {
	requestErr  error
	verifyEmail string
	verifyErr   error
	completeErr error
}

var _ services.PasswordResetService = (*stubResetService)(nil)

func (s *stubResetService) RequestReset(context.Context, string) error {
	return s.requestErr
}

func (s *stubResetService) VerifyToken(context.Context, string) (string, error) {
	return s.verifyEmail, s.verifyErr
}

func (s *stubResetService) CompleteReset(context.Context, string, string) error {
	return s.completeErr
}

func (s *stubResetService) ResetStatus(context.Context, int) (*models.ResetStatusResponse, error) {
	return &models.ResetStatusResponse{}, nil
}

func (s *stubResetService) RevokeTicket(context.Context, int) error {
	return nil
}

func setupRouter(svc services.PasswordResetService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewPasswordResetHandler(svc)
	r.POST("/auth/forgot-password", h.ForgotPassword)
	r.POST("/auth/verify-reset-token", h.VerifyResetToken)
	r.POST("/auth/reset-password", h.ResetPassword)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("invalid JSON response %q: %v", w.Body.String(), err)
	}
	return m
}

func TestForgotPasswordSuccess(t *testing.T) {
	r := setupRouter(&stubResetService{})

	w := postJSON(t, r, "/auth/forgot-password", gin.H{"email": "a@example.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := decodeBody(t, w)
	if body["success"] != true {
		t.Fatalf("body = %v, want success true", body)
	}
	if body["message"] == "" {
		t.Fatal("success response must carry the generic message")
	}
}

func TestForgotPasswordMissingEmail(t *testing.T) {
	r := setupRouter(&stubResetService{})

	w := postJSON(t, r, "/auth/forgot-password", gin.H{"email": "  "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestForgotPasswordRateLimited(t *testing.T) {
	r := setupRouter(&stubResetService{
		requestErr: services.ErrRateLimited{RetryAfter: 45 * time.Minute},
	})

	w := postJSON(t, r, "/auth/forgot-password", gin.H{"email": "a@example.com"})
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "2700" {
		t.Fatalf("Retry-After = %q, want %q", got, "2700")
	}
	body := decodeBody(t, w)
	if body["retry_after_seconds"] != float64(2700) {
		t.Fatalf("retry_after_seconds = %v, want 2700", body["retry_after_seconds"])
	}
}

func TestForgotPasswordNotificationFailure(t *testing.T) {
	r := setupRouter(&stubResetService{requestErr: services.ErrNotificationFailed})

	w := postJSON(t, r, "/auth/forgot-password", gin.H{"email": "a@example.com"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	// internal detail must not reach the caller
	if bytes.Contains(w.Body.Bytes(), []byte("smtp")) {
		t.Fatalf("response leaks internals: %s", w.Body.String())
	}
}

func TestVerifyResetToken(t *testing.T) {
	r := setupRouter(&stubResetService{verifyEmail: "a@example.com"})

	w := postJSON(t, r, "/auth/verify-reset-token", gin.H{"token": "secret"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := decodeBody(t, w)
	if body["valid"] != true || body["email"] != "a@example.com" {
		t.Fatalf("body = %v", body)
	}
}

func TestVerifyResetTokenCollapsesFailureModes(t *testing.T) {
	// invalid and expired must be indistinguishable to the caller
	invalid := postJSON(t, setupRouter(&stubResetService{verifyErr: services.ErrInvalidToken}),
		"/auth/verify-reset-token", gin.H{"token": "x"})
	expired := postJSON(t, setupRouter(&stubResetService{verifyErr: services.ErrExpiredToken}),
		"/auth/verify-reset-token", gin.H{"token": "x"})

	if invalid.Code != http.StatusBadRequest || expired.Code != http.StatusBadRequest {
		t.Fatalf("statuses = %d/%d, want 400/400", invalid.Code, expired.Code)
	}
	if invalid.Body.String() != expired.Body.String() {
		t.Fatalf("response shapes differ: %q vs %q", invalid.Body.String(), expired.Body.String())
	}
}

func TestResetPassword(t *testing.T) {
	r := setupRouter(&stubResetService{})

	w := postJSON(t, r, "/auth/reset-password", gin.H{"token": "secret", "new_password": "long-enough"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if decodeBody(t, w)["success"] != true {
		t.Fatal("want success true")
	}
}

func TestResetPasswordMissingFields(t *testing.T) {
	r := setupRouter(&stubResetService{})

	for _, body := range []gin.H{
		{"token": "", "new_password": "long-enough"},
		{"token": "secret", "new_password": ""},
		{},
	} {
		w := postJSON(t, r, "/auth/reset-password", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %v: status = %d, want 400", body, w.Code)
		}
	}
}

func TestResetPasswordErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"weak password", services.ErrWeakPassword, http.StatusBadRequest},
		{"invalid token", services.ErrInvalidToken, http.StatusBadRequest},
		{"expired token", services.ErrExpiredToken, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouter(&stubResetService{completeErr: tc.err})
			w := postJSON(t, r, "/auth/reset-password", gin.H{"token": "secret", "new_password": "long-enough"})
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}
