// Package handler exposes the import engine over HTTP.
package handler

//go:generate mockgen -source=handler.go -destination=mocks/service.go -package=mocks

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"leaguedesk/internal/importer/service"
	"leaguedesk/internal/roster/models"
	domainerrors "leaguedesk/pkg/domain-errors"
)

// Service is the import surface the handler depends on.
type Service interface {
	ImportPlayers(ctx context.Context, req service.Request) (*service.Summary, error)
	ImportVolunteers(ctx context.Context, req service.Request) (*service.Summary, error)
	ImportShifts(ctx context.Context, req service.Request) (*service.Summary, error)
	LinkUnmatched(ctx context.Context, recordID, householdID uuid.UUID) error
	AutoLink(ctx context.Context, seasonID string) (int, error)
	ListUnmatched(ctx context.Context, seasonID string) ([]*models.UnmatchedRecord, error)
	Progress(ctx context.Context, batchID string) (*models.BatchProgress, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the import routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/imports", func(r chi.Router) {
		r.Post("/players", h.importRows(h.service.ImportPlayers))
		r.Post("/volunteers", h.importRows(h.service.ImportVolunteers))
		r.Post("/shifts", h.importRows(h.service.ImportShifts))
		r.Post("/spreadsheet", h.importSpreadsheet)

		r.Post("/shifts/autolink", h.autoLink)
		r.Get("/shifts/unmatched", h.listUnmatched)
		r.Post("/shifts/unmatched/{recordID}/link", h.linkUnmatched)

		r.Get("/{batchID}/progress", h.progress)
	})
}

func (h *Handler) importRows(run func(context.Context, service.Request) (*service.Summary, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req importRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, r, domainerrors.New(domainerrors.CodeBadRequest, "malformed request body"))
			return
		}

		summary, err := run(r.Context(), service.Request{
			SeasonID:             req.SeasonID,
			Rows:                 req.Rows,
			OnlyActive:           req.Options.OnlyActive,
			ClearWorkbondIfEmpty: req.Options.ClearWorkbondIfEmpty,
		})
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusOK, summary)
	}
}

func (h *Handler) linkUnmatched(w http.ResponseWriter, r *http.Request) {
	recordID, err := uuid.Parse(chi.URLParam(r, "recordID"))
	if err != nil {
		h.writeError(w, r, domainerrors.New(domainerrors.CodeBadRequest, "invalid record id"))
		return
	}

	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, domainerrors.New(domainerrors.CodeBadRequest, "malformed request body"))
		return
	}
	householdID, err := uuid.Parse(req.HouseholdID)
	if err != nil {
		h.writeError(w, r, domainerrors.New(domainerrors.CodeBadRequest, "invalid household id"))
		return
	}

	if err := h.service.LinkUnmatched(r.Context(), recordID, householdID); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, linkResponse{RecordID: recordID.String(), HouseholdID: householdID.String()})
}

func (h *Handler) autoLink(w http.ResponseWriter, r *http.Request) {
	var req autoLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, domainerrors.New(domainerrors.CodeBadRequest, "malformed request body"))
		return
	}

	linked, err := h.service.AutoLink(r.Context(), req.SeasonID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, autoLinkResponse{Linked: linked})
}

func (h *Handler) listUnmatched(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListUnmatched(r.Context(), r.URL.Query().Get("season_id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, unmatchedListResponse{Records: records})
}

func (h *Handler) progress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.service.Progress(r.Context(), chi.URLParam(r, "batchID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, progress)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil && h.logger != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := domainerrors.ToHTTPStatus(domainerrors.CodeOf(err))
	if status >= http.StatusInternalServerError && h.logger != nil {
		h.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
	}
	h.writeJSON(w, status, errorResponse{
		Error: err.Error(),
		Code:  string(domainerrors.CodeOf(err)),
	})
}
