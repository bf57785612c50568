package reconcile

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/domain"
	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/service/tvr"
)

// Service implements plan/actual reconciliation. All public methods are
// safe for concurrent use if the repository and panel client are.
type Service struct {
	repo  Repository
	panel PanelAPI

	// maxConcurrent bounds the slow path's per-station fan-out. The
	// original design issued one request per station with no cap; a
	// campaign with many stations would burst accordingly.
	maxConcurrent int
}

// NewService creates a reconciliation service.
func NewService(repo Repository, panel PanelAPI, maxConcurrent int) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 5
	}
	return &Service{repo: repo, panel: panel, maxConcurrent: maxConcurrent}
}

// Reconcile produces the campaign's plan rows augmented with actual TVR,
// impacts and variances. The operation fails only if the campaign or its
// plan rows cannot be loaded, or the mandatory bulk spot fetch fails; a
// station whose computation yields nothing is recorded as a zero-valued
// row (ActualSpotCount 0) rather than aborting the rest.
func (s *Service) Reconcile(ctx context.Context, campaignID string) ([]domain.CampaignPlanWithActuals, error) {
	campaign, err := s.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("load campaign %s: %w", campaignID, err)
	}
	plans, err := s.repo.ListPlans(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("load plan rows for %s: %w", campaignID, err)
	}
	if len(plans) == 0 {
		return nil, nil
	}

	baseFilters := domain.SpotFilters{
		Advertiser:     campaign.Advertiser,
		Brand:          campaign.Brand,
		Agency:         campaign.Agency,
		Date:           campaign.StartDate,
		BuyingAudience: campaign.BuyingAudience,
	}

	stations := distinctStations(plans)

	// Fast path: one bulk fetch, sliced per station client-side.
	spots, err := s.panel.GetAdvertisingSpots(ctx, baseFilters)
	if err != nil {
		return nil, fmt.Errorf("bulk spot fetch: %w", err)
	}

	results := make(map[string]domain.TVRResult, len(stations))
	matched := 0
	for _, station := range stations {
		stationSpots := MatchStationSpots(spots, station)
		if len(stationSpots) > 0 {
			matched++
		}
		results[stationKey(station)] = tvr.CalculatePerSpot(stationSpots, campaign.BuyingAudience)
	}

	// Sufficiency gate: when fewer than half the stations matched any
	// spots, name matching has systematically failed and the fast path's
	// zero-filled rows can't be trusted. Fall back to dedicated
	// provider-filtered calls per station, fully replacing these results.
	if matched*2 < len(stations) {
		log.Printf("[reconcile.Service] Fast path matched %d/%d stations for campaign %s, falling back to per-station fetches",
			matched, len(stations), campaignID)
		results = s.perStationResults(ctx, baseFilters, stations, campaign.BuyingAudience)
	}

	rows := make([]domain.CampaignPlanWithActuals, 0, len(plans))
	for _, plan := range plans {
		row := domain.CampaignPlanWithActuals{CampaignPlan: plan}
		if res, ok := results[stationKey(plan.StationName)]; ok {
			row.ActualTVR = res.TVR
			row.ActualImpacts = res.Impacts
			row.ActualSpotCount = res.SpotCount
		}
		// Variances stay nil unless both operands exist; an absent deal
		// rating means "no variance", which is not the same as zero.
		if plan.DealTVR != nil {
			v := row.ActualTVR - *plan.DealTVR
			row.TVRVariance = &v
			if plan.CPT != nil {
				vv := v * *plan.CPT
				row.ValueVariance = &vv
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// perStationResults is the slow path: one dedicated, provider-filtered
// fetch per station, bounded by maxConcurrent. Every station completes (or
// fails safe to a zero result) before it returns.
func (s *Service) perStationResults(ctx context.Context, base domain.SpotFilters, stations []string, buyingAudience string) map[string]domain.TVRResult {
	results := make(map[string]domain.TVRResult, len(stations))
	var mu sync.Mutex

	sem := make(chan struct{}, s.maxConcurrent)
	var wg sync.WaitGroup

	for _, station := range stations {
		select {
		case <-ctx.Done():
			// Remaining stations fail safe to zero results.
			mu.Lock()
			if _, ok := results[stationKey(station)]; !ok {
				results[stationKey(station)] = domain.TVRResult{}
			}
			mu.Unlock()
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(station string) {
			defer wg.Done()
			defer func() { <-sem }()

			filters := base
			filters.Station = station

			result := domain.TVRResult{}
			spots, err := s.panel.GetAdvertisingSpots(ctx, filters)
			if err != nil {
				log.Printf("[reconcile.Service] Station %q fetch failed, recording zero result: %v", station, err)
			} else {
				result = tvr.CalculatePerSpot(spots, buyingAudience)
			}

			mu.Lock()
			results[stationKey(station)] = result
			mu.Unlock()
		}(station)
	}

	wg.Wait()
	return results
}

func distinctStations(plans []domain.CampaignPlan) []string {
	seen := make(map[string]bool)
	var stations []string
	for _, p := range plans {
		if p.StationName == "" {
			continue
		}
		key := stationKey(p.StationName)
		if !seen[key] {
			seen[key] = true
			stations = append(stations, p.StationName)
		}
	}
	return stations
}

func stationKey(station string) string {
	return strings.ToLower(strings.TrimSpace(station))
}
