package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/domain"
	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/service/reconcile"
)

// CampaignRepo implements reconcile.Repository against PostgreSQL.
type CampaignRepo struct{ db *sql.DB }

// NewCampaignRepo creates a Postgres-backed campaign repository.
func NewCampaignRepo(db *sql.DB) *CampaignRepo { return &CampaignRepo{db: db} }

func (r *CampaignRepo) GetCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	c := &domain.Campaign{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, advertiser, COALESCE(brand,''), COALESCE(agency,''),
		       COALESCE(to_char(start_date,'YYYY-MM-DD'),''),
		       COALESCE(to_char(end_date,'YYYY-MM-DD'),''),
		       COALESCE(buying_audience,'')
		FROM campaigns
		WHERE id = $1
	`, id).Scan(
		&c.ID, &c.Name, &c.Advertiser, &c.Brand, &c.Agency,
		&c.StartDate, &c.EndDate, &c.BuyingAudience,
	)
	if err == sql.ErrNoRows {
		return nil, reconcile.ErrCampaignNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	return c, nil
}

func (r *CampaignRepo) ListPlans(ctx context.Context, campaignID string) ([]domain.CampaignPlan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, campaign_id, supplier_name, station_name,
		       COALESCE(buying_audience,''),
		       plan_tvr, deal_tvr, cpt, budget
		FROM campaign_plans
		WHERE campaign_id = $1
		ORDER BY supplier_name, station_name
	`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list campaign plans: %w", err)
	}
	defer rows.Close()

	var plans []domain.CampaignPlan
	for rows.Next() {
		var p domain.CampaignPlan
		var planTVR, dealTVR, cpt, budget sql.NullFloat64
		if err := rows.Scan(
			&p.ID, &p.CampaignID, &p.SupplierName, &p.StationName,
			&p.BuyingAudience, &planTVR, &dealTVR, &cpt, &budget,
		); err != nil {
			return nil, fmt.Errorf("scan campaign plan: %w", err)
		}
		p.PlanTVR = nullable(planTVR)
		p.DealTVR = nullable(dealTVR)
		p.CPT = nullable(cpt)
		p.Budget = nullable(budget)
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate campaign plans: %w", err)
	}
	return plans, nil
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
