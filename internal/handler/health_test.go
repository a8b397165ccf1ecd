package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		deps       map[string]Pinger
		wantStatus int
		wantBody   string
		wantCheck  string
	}{
		{
			name:       "no dependencies",
			deps:       nil,
			wantStatus: http.StatusOK,
			wantBody:   "ok",
		},
		{
			name:       "database reachable",
			deps:       map[string]Pinger{"database": pingFunc(func(context.Context) error { return nil })},
			wantStatus: http.StatusOK,
			wantBody:   "ok",
			wantCheck:  "ok",
		},
		{
			name:       "database unreachable",
			deps:       map[string]Pinger{"database": pingFunc(func(context.Context) error { return errors.New("dial tcp: refused") })},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "degraded",
			wantCheck:  "unreachable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Health(tt.deps).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Status != tt.wantBody {
				t.Errorf("status field = %q, want %q", body.Status, tt.wantBody)
			}
			if got := body.Checks["database"]; got != tt.wantCheck {
				t.Errorf("database check = %q, want %q", got, tt.wantCheck)
			}
		})
	}
}
