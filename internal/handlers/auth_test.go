package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cardputer_radio/internal/models"
	"cardputer_radio/internal/repository"
	"cardputer_radio/internal/service"
)

func postJSON(target, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAuthHandlers_SignUpAndSignIn(t *testing.T) {
	auth := &mockAuth{signUpID: 42, genTokenToken: "tok123", operator: testOperator}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, postJSON("/auth/sign-up", `{"username":"u","password":"p"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("sign-up status=%d, body=%s", w.Code, w.Body.String())
	}
	var m map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if int(m["id"].(float64)) != 42 {
		t.Fatalf("expected id=42, got %v", m["id"])
	}
	if !auth.lastSignUpActor.IsZero() {
		t.Fatalf("anonymous sign-up carried actor %+v", auth.lastSignUpActor)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, postJSON("/auth/sign-in", `{"username":"u","password":"p"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("sign-in status=%d, body=%s", w.Code, w.Body.String())
	}
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["token"] != "tok123" || auth.lastGenUsername != "u" {
		t.Fatalf("sign-in response %v, username %q", m, auth.lastGenUsername)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, postJSON("/auth/sign-in", `{"username":1}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", w.Code)
	}
}

func TestAuthHandlers_SignUpByOperatorCarriesActor(t *testing.T) {
	auth := &mockAuth{signUpID: 2, operator: testOperator}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodPost, "/auth/sign-up", `{"username":"bob","password":"p"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if auth.lastSignUpActor != testOperator {
		t.Fatalf("sign-up actor = %+v", auth.lastSignUpActor)
	}
}

func TestAuthHandlers_SignUpErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"bad username", service.ErrInvalidUsername, http.StatusBadRequest},
		{"bad password", service.ErrInvalidPassword, http.StatusBadRequest},
		{"closed", service.ErrSignUpClosed, http.StatusForbidden},
		{"taken", repository.ErrOperatorExists, http.StatusConflict},
		{"store down", errors.New("disk"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&service.Service{Authorization: &mockAuth{signUpErr: tc.err}})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, postJSON("/auth/sign-up", `{"username":"u","password":"p"}`))
			if w.Code != tc.want {
				t.Fatalf("status=%d want %d body=%s", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestAuthHandlers_SignInFailureIs401(t *testing.T) {
	r := newTestRouter(&service.Service{Authorization: &mockAuth{genTokenErr: service.ErrInvalidPassword}})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, postJSON("/auth/sign-in", `{"username":"u","password":"p"}`))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestWhoAmI(t *testing.T) {
	r := newTestRouter(&service.Service{Authorization: &mockAuth{operator: testOperator}})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodGet, "/api/v1/me", ""))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var a models.Actor
	_ = json.Unmarshal(w.Body.Bytes(), &a)
	if a != testOperator {
		t.Fatalf("me = %+v", a)
	}
}
