package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/domain"
	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/service/reconcile"
	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/service/tvr"
)

// TVRService is the dashboard-facing TVR surface the handlers depend on.
type TVRService interface {
	CalculateTVR(ctx context.Context, f domain.SpotFilters) (domain.TVRResult, error)
	CacheStats(ctx context.Context) tvr.Stats
	ClearCache(ctx context.Context)
}

// ReconcileService produces plan/actual rows for a campaign.
type ReconcileService interface {
	Reconcile(ctx context.Context, campaignID string) ([]domain.CampaignPlanWithActuals, error)
}

// Handlers holds the HTTP handlers and their service dependencies.
type Handlers struct {
	tvrSvc       TVRService
	reconcileSvc ReconcileService
}

// NewHandlers creates the API handler set.
func NewHandlers(tvrSvc TVRService, reconcileSvc ReconcileService) *Handlers {
	return &Handlers{tvrSvc: tvrSvc, reconcileSvc: reconcileSvc}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// HealthCheck reports service liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetTVR computes (or serves from cache) the TVR for the query's filter set.
func (h *Handlers) GetTVR(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := domain.SpotFilters{
		Advertiser:     q.Get("advertiser"),
		Brand:          q.Get("brand"),
		Agency:         q.Get("agency"),
		Date:           q.Get("date"),
		BuyingAudience: q.Get("buying_audience"),
		Station:        q.Get("station"),
	}

	result, err := h.tvrSvc.CalculateTVR(r.Context(), filters)
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetCacheStats reports two-tier cache occupancy.
func (h *Handlers) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.tvrSvc.CacheStats(r.Context()))
}

// ClearCache empties both cache tiers.
func (h *Handlers) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.tvrSvc.ClearCache(r.Context())
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// GetPlanActuals returns a campaign's plan rows reconciled with actuals.
func (h *Handlers) GetPlanActuals(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "campaignID")
	if _, err := uuid.Parse(campaignID); err != nil {
		respondError(w, http.StatusBadRequest, "campaign id must be a UUID")
		return
	}

	rows, err := h.reconcileSvc.Reconcile(r.Context(), campaignID)
	if err != nil {
		if errors.Is(err, reconcile.ErrCampaignNotFound) {
			respondError(w, http.StatusNotFound, "campaign not found")
			return
		}
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"campaign_id": campaignID,
		"rows":        rows,
	})
}
