// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bandpraxis/gig-scheduler/internal/model"
	"github.com/bandpraxis/gig-scheduler/internal/repository"
	"github.com/bandpraxis/gig-scheduler/internal/service"
	"github.com/go-chi/chi/v5"
)

// GigHandler holds all HTTP handlers for the gig scheduler API.
type GigHandler struct {
	svc *service.GigService
}

// NewGigHandler constructs a GigHandler.
func NewGigHandler(svc *service.GigService) *GigHandler {
	return &GigHandler{svc: svc}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeServiceError maps service-layer failures onto HTTP statuses.
// Validation failures are user-correctable, so they surface verbatim.
func writeServiceError(w http.ResponseWriter, err error) {
	var ve service.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusUnprocessableEntity, ve.Message)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrNoDateEntry):
		writeError(w, http.StatusConflict, "no availability recorded for that date")
	case errors.Is(err, service.ErrNotMultiDay):
		writeError(w, http.StatusConflict, "gig is not multi-day")
	case errors.Is(err, service.ErrUnknownDate):
		writeError(w, http.StatusUnprocessableEntity, "date is not part of this gig")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// Identity comes from the auth layer in front of this service; role checks
// reach us as plain headers, consumed as booleans.
func memberID(r *http.Request) string {
	return r.Header.Get("X-Member-ID")
}

func isManager(r *http.Request) bool {
	return r.Header.Get("X-Is-Manager") == "true"
}

// requireManager writes a 403 and returns false for non-managers.
func requireManager(w http.ResponseWriter, r *http.Request) bool {
	if !isManager(r) {
		writeError(w, http.StatusForbidden, "manager role required")
		return false
	}
	return true
}

// requireSelfOrManager lets a member act on their own availability and
// managers act on anyone's.
func requireSelfOrManager(w http.ResponseWriter, r *http.Request, targetMember string) bool {
	if isManager(r) || memberID(r) == targetMember {
		return true
	}
	writeError(w, http.StatusForbidden, "cannot answer for another member")
	return false
}

// ─── Gig handlers ─────────────────────────────────────────────────────────────

// CreateGig handles POST /gigs
func (h *GigHandler) CreateGig(w http.ResponseWriter, r *http.Request) {
	if !requireManager(w, r) {
		return
	}

	var req model.CreateGigRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	gig, err := h.svc.CreateGig(r.Context(), req, memberID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, gig)
}

// ListGigs handles GET /gigs
func (h *GigHandler) ListGigs(w http.ResponseWriter, r *http.Request) {
	gigs, err := h.svc.ListGigs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list gigs")
		return
	}

	// Return an empty array rather than null for better client compatibility.
	if gigs == nil {
		gigs = []model.Gig{}
	}
	writeJSON(w, http.StatusOK, gigs)
}

// GetGig handles GET /gigs/{id}
func (h *GigHandler) GetGig(w http.ResponseWriter, r *http.Request) {
	gig, err := h.svc.GetGig(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gig)
}

// UpdateGig handles PUT /gigs/{id}
func (h *GigHandler) UpdateGig(w http.ResponseWriter, r *http.Request) {
	if !requireManager(w, r) {
		return
	}

	var req model.UpdateGigRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	gig, err := h.svc.UpdateGig(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gig)
}

// UpdateStatus handles PATCH /gigs/{id}/status
func (h *GigHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if !requireManager(w, r) {
		return
	}

	var req model.UpdateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(req.Status)})
}

// DeleteGig handles DELETE /gigs/{id}
func (h *GigHandler) DeleteGig(w http.ResponseWriter, r *http.Request) {
	if !requireManager(w, r) {
		return
	}

	if err := h.svc.DeleteGig(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Convert handles POST /gigs/{id}/convert
// Locks a multi-day gig to a single date, flattening availability.
func (h *GigHandler) Convert(w http.ResponseWriter, r *http.Request) {
	if !requireManager(w, r) {
		return
	}

	var req model.ConvertRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	gig, err := h.svc.ConvertToSingleDate(r.Context(), chi.URLParam(r, "id"), req.Date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gig)
}

// Overview handles GET /gigs/{id}/overview
func (h *GigHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.svc.Overview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// ─── Availability handlers ────────────────────────────────────────────────────

// SetAvailability handles PUT /gigs/{id}/availability/{memberID}
func (h *GigHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "memberID")
	if !requireSelfOrManager(w, r, target) {
		return
	}

	var req model.AvailabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	gig, err := h.svc.SetAvailability(r.Context(), chi.URLParam(r, "id"), target, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gig)
}

// SetDriving handles PUT /gigs/{id}/availability/{memberID}/driving
func (h *GigHandler) SetDriving(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "memberID")
	if !requireSelfOrManager(w, r, target) {
		return
	}

	var req model.DrivingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	gig, err := h.svc.SetDriving(r.Context(), chi.URLParam(r, "id"), target, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gig)
}

// ToggleDriving handles POST /gigs/{id}/availability/{memberID}/driving/toggle
func (h *GigHandler) ToggleDriving(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "memberID")
	if !requireSelfOrManager(w, r, target) {
		return
	}

	gig, err := h.svc.ToggleDriving(r.Context(), chi.URLParam(r, "id"), target)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gig)
}

// ─── Roster handlers ──────────────────────────────────────────────────────────

// CreateMember handles POST /members
func (h *GigHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	if !requireManager(w, r) {
		return
	}

	var req model.CreateMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	member, err := h.svc.CreateMember(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

// ListMembers handles GET /members
func (h *GigHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.svc.ListMembers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list members")
		return
	}

	if members == nil {
		members = []model.BandMember{}
	}
	writeJSON(w, http.StatusOK, members)
}

// DeleteMember handles DELETE /members/{id}
func (h *GigHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	if !requireManager(w, r) {
		return
	}

	if err := h.svc.DeleteMember(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
