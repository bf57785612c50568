package barb

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/domain"
	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/pkg/logger"
)

const (
	dateLayout     = "2006-01-02"
	datetimeLayout = "2006-01-02 15:04:05"

	spotsEndpoint = "/advertising_spots/"
)

// dateWindow resolves the transmission date window for a spot query.
// No explicit date, or a date in the future relative to now, cannot be
// serviced by a historical measurement panel; both substitute the
// configured known-good fallback week. Otherwise the window is ±3 days
// around the requested date.
func (c *Client) dateWindow(date string, now time.Time) (string, string) {
	if date == "" {
		return c.fallbackMin, c.fallbackMax
	}
	d, err := time.Parse(dateLayout, date)
	if err != nil || d.After(now) {
		return c.fallbackMin, c.fallbackMax
	}
	return d.AddDate(0, 0, -3).Format(dateLayout), d.AddDate(0, 0, 3).Format(dateLayout)
}

// GetAdvertisingSpots fetches the spot-level broadcast records matching the
// given filter set. Advertiser/brand/agency filters are passed to the
// provider, then verified client-side: provider-side advertiser filtering
// is best-effort only, so if it appears not to have taken effect the result
// set is re-filtered locally. Station filtering is always client-side.
func (c *Client) GetAdvertisingSpots(ctx context.Context, f domain.SpotFilters) ([]domain.Spot, error) {
	minDate, maxDate := c.dateWindow(f.Date, time.Now())

	params := url.Values{}
	params.Set("min_transmission_date", minDate)
	params.Set("max_transmission_date", maxDate)
	if f.Advertiser != "" {
		params.Set("advertiser_name", f.Advertiser)
	}
	if f.Brand != "" {
		params.Set("brand_name", f.Brand)
	}
	if f.Agency != "" {
		params.Set("agency_name", f.Agency)
	}

	raw, err := c.GetAll(ctx, spotsEndpoint, params)
	if err != nil {
		return nil, err
	}

	spots := decodeSpots(raw)

	spots = verifyAdvertiserFilter(spots, f.Advertiser)
	if f.Station != "" {
		spots = filterByStation(spots, f.Station)
	}
	spots = filterByAudience(spots)

	return spots, nil
}

func decodeSpots(raw []json.RawMessage) []domain.Spot {
	spots := make([]domain.Spot, 0, len(raw))
	for _, r := range raw {
		var rec spotRecord
		if err := json.Unmarshal(r, &rec); err != nil {
			logger.Warn("skipping unparseable spot record", "error", err.Error())
			continue
		}
		spots = append(spots, rec.toDomain())
	}
	return spots
}

func (r spotRecord) toDomain() domain.Spot {
	s := domain.Spot{
		SpotNumber:   r.SpotNumber,
		StationName:  r.Station.StationName,
		StationGroup: r.Station.StationGroup,
		Duration:     r.SpotDuration,
		Advertiser:   r.ClearcastInformation.AdvertiserName,
		Brand:        r.ClearcastInformation.ProductName,
		Agency:       r.ClearcastInformation.BuyerName,
	}
	if t, err := time.Parse(datetimeLayout, r.SpotStartDatetime.StandardDatetime); err == nil {
		s.TransmissionTime = t
	}
	for _, v := range r.AudienceViews {
		s.AudienceViews = append(s.AudienceViews, domain.AudienceMeasurement{
			Description:  v.Description,
			AudienceSize: v.AudienceSize,
			TargetSize:   v.TargetSize,
		})
	}
	return s
}

// verifyAdvertiserFilter re-applies the advertiser filter client-side when
// the provider-side filter appears not to have taken effect (no result's
// advertiser name contains the filter string).
func verifyAdvertiserFilter(spots []domain.Spot, advertiser string) []domain.Spot {
	if advertiser == "" || len(spots) == 0 {
		return spots
	}
	needle := strings.ToLower(advertiser)
	for _, s := range spots {
		if strings.Contains(strings.ToLower(s.Advertiser), needle) {
			return spots // provider filter worked, trust it
		}
	}

	logger.Warn("provider advertiser filter ineffective, filtering client-side",
		"advertiser", advertiser, "spots", len(spots))
	var filtered []domain.Spot
	for _, s := range spots {
		if strings.Contains(strings.ToLower(s.Advertiser), needle) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// filterByStation applies successively looser station matches: exact
// case-insensitive equality first, then bidirectional substring
// containment.
func filterByStation(spots []domain.Spot, station string) []domain.Spot {
	matchers := []func(spotStation, want string) bool{
		strings.EqualFold,
		func(spotStation, want string) bool {
			ss, w := strings.ToLower(spotStation), strings.ToLower(want)
			return strings.Contains(ss, w) || strings.Contains(w, ss)
		},
	}
	for _, match := range matchers {
		var out []domain.Spot
		for _, s := range spots {
			if match(s.StationName, station) {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// filterByAudience keeps spots carrying a recognized target-audience
// measurement. If that excludes everything, any spot with at least one
// measurement is kept instead.
func filterByAudience(spots []domain.Spot) []domain.Spot {
	var recognized []domain.Spot
	for _, s := range spots {
		if domain.HasResolvableAudience(s) {
			recognized = append(recognized, s)
		}
	}
	if len(recognized) > 0 {
		return recognized
	}

	var withAny []domain.Spot
	for _, s := range spots {
		if len(s.AudienceViews) > 0 {
			withAny = append(withAny, s)
		}
	}
	return withAny
}
