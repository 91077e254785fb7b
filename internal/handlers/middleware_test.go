package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cardputer_radio/internal/models"
	"cardputer_radio/internal/service"

	"github.com/gin-gonic/gin"
)

// newOperatorRouter echoes the operator seen by a protected endpoint, both
// from the gin context and from the request context handed to services.
func newOperatorRouter(auth *mockAuth) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(&service.Service{Authorization: auth}, nil)
	r.GET("/secure", h.requireOperator, func(c *gin.Context) {
		a, _ := operatorFrom(c)
		c.JSON(http.StatusOK, gin.H{"gin": a, "request": service.ActorFrom(c.Request.Context())})
	})
	return r
}

func TestRequireOperator_Rejects(t *testing.T) {
	cases := []struct {
		name     string
		header   string
		parseErr error
		wantMsg  string
	}{
		{"missing header", "", nil, errMissingAuth},
		{"wrong scheme", "Token abc", nil, errAuthFormat},
		{"bearer without token", "Bearer", nil, errAuthFormat},
		{"bearer with blank token", "Bearer   ", nil, errAuthFormat},
		{"rejected token", "Bearer expired", errors.New("expired"), errBadToken},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockAuth{operator: testOperator, parseErr: tc.parseErr}
			r := newOperatorRouter(auth)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, body=%s", w.Code, w.Body.String())
			}
			var out struct {
				Error string `json:"error"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if out.Error != tc.wantMsg {
				t.Fatalf("error = %q, want %q", out.Error, tc.wantMsg)
			}
		})
	}
}

func TestRequireOperator_AttachesOperatorToRequest(t *testing.T) {
	auth := &mockAuth{operator: models.Actor{ID: 123, Username: "carol"}}
	r := newOperatorRouter(auth)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Gin     models.Actor `json:"gin"`
		Request models.Actor `json:"request"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Gin != auth.operator || resp.Request != auth.operator {
		t.Fatalf("operator not propagated: %+v", resp)
	}
	if auth.lastParseToken != "good-token" {
		t.Fatalf("ParseToken got %q", auth.lastParseToken)
	}
}

func TestOptionalOperator(t *testing.T) {
	auth := &mockAuth{operator: testOperator}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(&service.Service{Authorization: auth}, nil)
	r.GET("/open", h.optionalOperator, func(c *gin.Context) {
		c.JSON(http.StatusOK, service.ActorFrom(c.Request.Context()))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	var anon models.Actor
	_ = json.Unmarshal(w.Body.Bytes(), &anon)
	if w.Code != http.StatusOK || !anon.IsZero() {
		t.Fatalf("anonymous: status=%d actor=%+v", w.Code, anon)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodGet, "/open", ""))
	var got models.Actor
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got != testOperator {
		t.Fatalf("with token: actor=%+v", got)
	}

	auth.parseErr = errors.New("bad")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodGet, "/open", ""))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("a bad token must not fall back to anonymous, status=%d", w.Code)
	}
}
