package reconcile

import (
	"context"
	"errors"

	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/domain"
)

// Sentinel errors for the reconciliation service layer.
var (
	ErrCampaignNotFound = errors.New("campaign not found")
)

// Repository defines the data access contract for campaigns and their
// plan rows. Implementations must be safe for concurrent use.
type Repository interface {
	// GetCampaign returns a single campaign. Returns ErrCampaignNotFound
	// if it doesn't exist.
	GetCampaign(ctx context.Context, id string) (*domain.Campaign, error)

	// ListPlans returns a campaign's planned-delivery rows ordered by
	// supplier then station.
	ListPlans(ctx context.Context, campaignID string) ([]domain.CampaignPlan, error)
}

// PanelAPI is the slice of the panel client the reconciliation engine needs.
type PanelAPI interface {
	GetAdvertisingSpots(ctx context.Context, f domain.SpotFilters) ([]domain.Spot, error)
}
