package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/campman/internal/metrics"
	"github.com/hitoshi/campman/internal/middleware"
	"github.com/hitoshi/campman/internal/model"
)

func newTestRouter(t *testing.T) (http.Handler, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	deps := &RouterDeps{
		CORSAllowedOrigin: "http://localhost:3000",
		Metrics:           metrics.NewCollector(reg),
		MetricsGatherer:   reg,
		HealthChecker:     stubChecker{},
		CamperService: &mockCamperService{
			listFn: func(ctx context.Context) ([]*model.Camper, error) {
				return []*model.Camper{}, nil
			},
			getFn: func(ctx context.Context, id int64) (*model.Camper, error) {
				if id != 1 {
					return nil, model.NewNotFoundError("Camper", id)
				}
				c := mustCamper(t, 1, "Ana", 12)
				c.Signups = []*model.Signup{}
				return c, nil
			},
		},
		ActivityService: &mockActivityService{
			deleteFn: func(ctx context.Context, id int64) error {
				if id != 1 {
					return model.NewNotFoundError("Activity", id)
				}
				return nil
			},
		},
		SignupService: &mockSignupService{
			listFn: func(ctx context.Context) ([]*model.Signup, error) {
				return []*model.Signup{}, nil
			},
		},
	}
	return NewRouter(deps), reg
}

func TestNewRouter_Routes(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"home", http.MethodGet, "/", http.StatusOK},
		{"health", http.MethodGet, "/health", http.StatusOK},
		{"list campers", http.MethodGet, "/campers", http.StatusOK},
		{"get camper", http.MethodGet, "/campers/1", http.StatusOK},
		{"camper not found", http.MethodGet, "/campers/2", http.StatusNotFound},
		{"non-numeric id", http.MethodGet, "/campers/abc", http.StatusNotFound},
		{"delete camper not routed", http.MethodDelete, "/campers/1", http.StatusMethodNotAllowed},
		{"delete signup not routed", http.MethodDelete, "/signups/1", http.StatusMethodNotAllowed},
		{"delete activity", http.MethodDelete, "/activities/1", http.StatusNoContent},
		{"delete missing activity", http.MethodDelete, "/activities/9", http.StatusNotFound},
		{"list signups", http.MethodGet, "/signups", http.StatusOK},
		{"unknown route", http.MethodGet, "/nowhere", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("%s %s status = %d, want %d", tt.method, tt.path, w.Code, tt.wantStatus)
			}
		})
	}
}

func TestNewRouter_UnknownRouteIsJSON(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	body := parseAPIErrorResponse(t, w)
	if body.Code != model.ErrCodeRouteNotFound {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeRouteNotFound)
	}
}

func TestNewRouter_SetsRequestID(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/campers", nil))

	if w.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("response should carry a request ID")
	}
}

func TestNewRouter_Metrics(t *testing.T) {
	router, _ := newTestRouter(t)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/campers", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "campman_http_requests_total") {
		t.Error("metrics output should contain campman_http_requests_total")
	}
}

func TestNewRouter_WriteRateLimit(t *testing.T) {
	limiter := middleware.NewRateLimiter(middleware.NewRateLimiterConfig(600, 1))
	defer limiter.Stop()

	router := NewRouter(&RouterDeps{
		RateLimiter:   limiter,
		HealthChecker: stubChecker{},
		CamperService: &mockCamperService{
			createFn: func(ctx context.Context, fields model.CamperFields) (*model.Camper, error) {
				return model.NewCamperFromFields(fields)
			},
		},
	})

	post := func() int {
		req := jsonRequest(http.MethodPost, "/campers", `{"name":"Ana","age":12}`)
		req.RemoteAddr = "192.0.2.1:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	if got := post(); got != http.StatusCreated {
		t.Fatalf("first POST status = %d, want %d", got, http.StatusCreated)
	}
	if got := post(); got != http.StatusTooManyRequests {
		t.Errorf("second POST status = %d, want %d", got, http.StatusTooManyRequests)
	}
}

func TestNewRouter_WriteRateLimitIgnoresForwardedHeaders(t *testing.T) {
	limiter := middleware.NewRateLimiter(middleware.NewRateLimiterConfig(600, 1))
	defer limiter.Stop()

	router := NewRouter(&RouterDeps{
		RateLimiter:   limiter,
		HealthChecker: stubChecker{},
		CamperService: &mockCamperService{
			createFn: func(ctx context.Context, fields model.CamperFields) (*model.Camper, error) {
				return model.NewCamperFromFields(fields)
			},
		},
	})

	created, limited := 0, 0
	for i := 0; i < 20; i++ {
		req := jsonRequest(http.MethodPost, "/campers", `{"name":"Ana","age":12}`)
		req.RemoteAddr = "192.0.2.1:1234"
		spoofed := fmt.Sprintf("203.0.113.%d", i+1)
		req.Header.Set("X-Forwarded-For", spoofed)
		req.Header.Set("X-Real-IP", spoofed)
		req.Header.Set("True-Client-IP", spoofed)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		switch w.Code {
		case http.StatusCreated:
			created++
		case http.StatusTooManyRequests:
			limited++
		default:
			t.Fatalf("request %d status = %d", i, w.Code)
		}
	}

	if created != 1 || limited != 19 {
		t.Errorf("created = %d, limited = %d, want 1 and 19", created, limited)
	}
	if got := limiter.WriteLimiterCount(); got != 1 {
		t.Errorf("WriteLimiterCount() = %d, want 1", got)
	}
}
