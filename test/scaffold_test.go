package test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"leaguedesk/internal/importer/handler"
	"leaguedesk/internal/importer/reconcile"
	"leaguedesk/internal/importer/service"
	"leaguedesk/internal/roster/store/household"
	"leaguedesk/internal/roster/store/person"
	"leaguedesk/internal/roster/store/progress"
	"leaguedesk/internal/roster/store/shift"
	"leaguedesk/internal/roster/store/unmatched"
	"leaguedesk/pkg/testutil"
)

func newRouter(t *testing.T) chi.Router {
	t.Helper()

	households := household.NewInMemory()
	persons := person.NewInMemory()
	shifts := shift.NewInMemory()
	queue := unmatched.NewInMemory(shifts)

	reconciler, err := reconcile.New(households, persons, queue, shifts)
	if err != nil {
		t.Fatalf("build reconciler: %v", err)
	}
	svc, err := service.New(reconciler, households, persons, queue, progress.NewInMemory())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	router := chi.NewRouter()
	handler.New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(router)
	return router
}

func TestRouterScaffold(t *testing.T) {
	testutil.Given(t, "the import router backed by memory stores", func(t *testing.T) {
		router := newRouter(t)

		testutil.When(t, "calling POST /imports/players with one row", func(t *testing.T) {
			body := `{"season_id":"2026-spring","rows":[{"first_name":"Alex","last_name":"Reyes","guardian1_email":"dana@example.com"}]}`
			req := httptest.NewRequest(http.MethodPost, "/imports/players", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			testutil.Then(t, "it should return a batch summary", func(t *testing.T) {
				if rec.Code != http.StatusOK {
					t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
				}
				var summary service.Summary
				if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
					t.Fatalf("decode summary: %v", err)
				}
				if summary.BatchID == "" {
					t.Fatal("expected a batch id")
				}
				if summary.Created == 0 {
					t.Fatalf("expected created rows, got %+v", summary)
				}
			})
		})

		testutil.When(t, "calling GET /imports/shifts/unmatched", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/imports/shifts/unmatched?season_id=2026-spring", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			testutil.Then(t, "it should respond with an empty queue", func(t *testing.T) {
				if rec.Code != http.StatusOK {
					t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
				}
			})
		})
	})
}
