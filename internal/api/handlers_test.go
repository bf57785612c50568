package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/domain"
	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/service/reconcile"
	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/service/tvr"
)

type stubTVRService struct {
	lastFilters domain.SpotFilters
	result      domain.TVRResult
	cleared     bool
}

func (s *stubTVRService) CalculateTVR(ctx context.Context, f domain.SpotFilters) (domain.TVRResult, error) {
	s.lastFilters = f
	return s.result, nil
}

func (s *stubTVRService) CacheStats(ctx context.Context) tvr.Stats {
	return tvr.Stats{MemoryEntries: 2, MemoryKeys: []string{"a", "b"}, StoreEntries: 5}
}

func (s *stubTVRService) ClearCache(ctx context.Context) { s.cleared = true }

type stubReconcileService struct {
	rows []domain.CampaignPlanWithActuals
	err  error
}

func (s *stubReconcileService) Reconcile(ctx context.Context, campaignID string) ([]domain.CampaignPlanWithActuals, error) {
	return s.rows, s.err
}

func TestGetTVR(t *testing.T) {
	tvrSvc := &stubTVRService{result: domain.TVRResult{TVR: 10.0, Impacts: 15000, SpotCount: 2}}
	router := SetupRoutes(NewHandlers(tvrSvc, &stubReconcileService{}))

	req := httptest.NewRequest(http.MethodGet,
		"/api/tvr?advertiser=Acme&brand=Widget&date=2024-12-27&station=ITV1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var result domain.TVRResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.TVR != 10.0 {
		t.Errorf("TVR = %v, want 10.0", result.TVR)
	}
	if tvrSvc.lastFilters.Advertiser != "Acme" || tvrSvc.lastFilters.Station != "ITV1" {
		t.Errorf("filters not passed through: %+v", tvrSvc.lastFilters)
	}
}

func TestCacheEndpoints(t *testing.T) {
	tvrSvc := &stubTVRService{}
	router := SetupRoutes(NewHandlers(tvrSvc, &stubReconcileService{}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tvr/cache/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("stats status = %d", rec.Code)
	}
	var stats tvr.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.MemoryEntries != 2 || stats.StoreEntries != 5 {
		t.Errorf("stats = %+v", stats)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/tvr/cache/clear", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("clear status = %d", rec.Code)
	}
	if !tvrSvc.cleared {
		t.Error("clear endpoint did not reach the service")
	}
}

func TestGetPlanActuals(t *testing.T) {
	deal := 8.0
	variance := 2.0
	rows := []domain.CampaignPlanWithActuals{{
		CampaignPlan:    domain.CampaignPlan{ID: "p1", StationName: "ITV1", DealTVR: &deal},
		ActualTVR:       10.0,
		ActualSpotCount: 3,
		TVRVariance:     &variance,
	}}
	router := SetupRoutes(NewHandlers(&stubTVRService{}, &stubReconcileService{rows: rows}))

	campaignID := uuid.NewString()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/campaigns/"+campaignID+"/plan-actuals", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		CampaignID string                           `json:"campaign_id"`
		Rows       []domain.CampaignPlanWithActuals `json:"rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.CampaignID != campaignID || len(payload.Rows) != 1 {
		t.Fatalf("payload = %+v", payload)
	}
	if payload.Rows[0].TVRVariance == nil || *payload.Rows[0].TVRVariance != 2.0 {
		t.Errorf("variance lost in transport: %+v", payload.Rows[0])
	}
}

func TestGetPlanActuals_NotFound(t *testing.T) {
	router := SetupRoutes(NewHandlers(&stubTVRService{},
		&stubReconcileService{err: reconcile.ErrCampaignNotFound}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/campaigns/"+uuid.NewString()+"/plan-actuals", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetPlanActuals_BadID(t *testing.T) {
	router := SetupRoutes(NewHandlers(&stubTVRService{}, &stubReconcileService{}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/campaigns/not-a-uuid/plan-actuals", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
