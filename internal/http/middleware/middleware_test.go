package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"todo_api/internal/domain"
	"todo_api/internal/http/respond"
	"todo_api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct {
	id  domain.Identity
	err error
}

func (f fakeVerifier) Verify(token string) (domain.Identity, error) {
	return f.id, f.err
}

func guardedRouter(v service.TokenVerifier) *gin.Engine {
	r := gin.New()
	r.GET("/api/:user_id/me", RequireUser(service.NewGuard(v), false), func(c *gin.Context) {
		id, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, id)
	})
	return r
}

func get(r http.Handler, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireUser_StoresIdentity(t *testing.T) {
	r := guardedRouter(fakeVerifier{id: domain.Identity{ID: "u1", Email: "a@x.com"}})

	w := get(r, "/api/u1/me", "Bearer tok")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", w.Code, w.Body)
	}
	var got domain.Identity
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "u1" || got.Email != "a@x.com" {
		t.Fatalf("identity = %+v", got)
	}
}

func TestRequireUser_Failures(t *testing.T) {
	cases := []struct {
		name     string
		verifier fakeVerifier
		auth     string
		code     string
		reason   string
	}{
		{"missing header", fakeVerifier{}, "", respond.CodeMissingToken, "missing_token"},
		{"expired", fakeVerifier{err: service.ErrTokenExpired}, "Bearer tok", respond.CodeUnauthorized, "token_expired"},
		{"invalid", fakeVerifier{err: service.ErrTokenInvalid}, "Bearer tok", respond.CodeUnauthorized, "token_invalid"},
		{"mismatch", fakeVerifier{id: domain.Identity{ID: "u2", Email: "b@x.com"}}, "Bearer tok", respond.CodeUnauthorized, "user_mismatch"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := testutil.ToFloat64(AuthFailures.WithLabelValues(tc.reason))

			w := get(guardedRouter(tc.verifier), "/api/u1/me", tc.auth)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d", w.Code)
			}
			var env respond.Envelope
			if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error.Code != tc.code {
				t.Fatalf("code = %q, want %q", env.Error.Code, tc.code)
			}

			if after := testutil.ToFloat64(AuthFailures.WithLabelValues(tc.reason)); after != before+1 {
				t.Fatalf("auth_failures_total{reason=%q} = %v, want %v", tc.reason, after, before+1)
			}
		})
	}
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/api/:user_id/tasks/:task_id", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := HTTPRequests.WithLabelValues(http.MethodGet, "/api/:user_id/tasks/:task_id", "200")
	before := testutil.ToFloat64(counter)

	get(r, "/api/u1/tasks/t1", "")
	get(r, "/api/u2/tasks/t2", "")

	if after := testutil.ToFloat64(counter); after != before+2 {
		t.Fatalf("counter = %v, want %v", after, before+2)
	}

	unmatched := HTTPRequests.WithLabelValues(http.MethodGet, "unmatched", "404")
	before = testutil.ToFloat64(unmatched)
	get(r, "/nowhere", "")
	if after := testutil.ToFloat64(unmatched); after != before+1 {
		t.Fatalf("unmatched counter = %v, want %v", after, before+1)
	}
}

func TestRecovery_WritesEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(false))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := get(r, "/boom", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	var env respond.Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.Code != respond.CodeInternal || env.Error.Details != nil {
		t.Fatalf("unexpected envelope %+v", env.Error)
	}
}
