package domain

import "testing"

func TestResolveAudience_PrefersHousepersonOverAllHomes(t *testing.T) {
	views := []AudienceMeasurement{
		{Description: "All Homes", AudienceSize: 500},
		{Description: "Houseperson with children 0-15", AudienceSize: 120},
		{Description: "All Adults", AudienceSize: 900},
	}

	m, ok := ResolveAudience(views, false)
	if !ok {
		t.Fatal("expected a measurement to be resolved")
	}
	if m.Description != "Houseperson with children 0-15" {
		t.Errorf("expected houseperson measurement, got %q", m.Description)
	}
}

func TestResolveAudience_HousepersonMatchIsOrderIndependent(t *testing.T) {
	// Substring tests are independent of word order and case.
	views := []AudienceMeasurement{
		{Description: "CHILDREN 0-15 in home of houseperson", AudienceSize: 10},
	}
	if _, ok := ResolveAudience(views, false); !ok {
		t.Error("expected reordered houseperson description to resolve")
	}
}

func TestResolveAudience_AllHomesFallback(t *testing.T) {
	views := []AudienceMeasurement{
		{Description: "Adults ABC1", AudienceSize: 300},
		{Description: "all homes", AudienceSize: 500},
	}

	m, ok := ResolveAudience(views, false)
	if !ok {
		t.Fatal("expected a measurement to be resolved")
	}
	if m.Description != "all homes" {
		t.Errorf("expected all homes measurement, got %q", m.Description)
	}
}

func TestResolveAudience_LenientTakesFirst(t *testing.T) {
	views := []AudienceMeasurement{
		{Description: "Men 16-34", AudienceSize: 40},
		{Description: "Adults ABC1", AudienceSize: 300},
	}

	if _, ok := ResolveAudience(views, false); ok {
		t.Error("strict mode should not resolve an unrecognized audience")
	}

	m, ok := ResolveAudience(views, true)
	if !ok {
		t.Fatal("lenient mode should resolve the first measurement")
	}
	if m.Description != "Men 16-34" {
		t.Errorf("expected first measurement, got %q", m.Description)
	}
}

func TestResolveAudience_Empty(t *testing.T) {
	if _, ok := ResolveAudience(nil, true); ok {
		t.Error("no measurements should never resolve")
	}
}

func TestCacheKey_Canonical(t *testing.T) {
	a := SpotFilters{Advertiser: " Acme ", Brand: "Widget", Date: "2025-03-10"}
	b := SpotFilters{Brand: "widget", Advertiser: "acme", Date: "2025-03-10"}

	if a.CacheKey() != b.CacheKey() {
		t.Errorf("logically identical filters must share a key:\n%s\n%s",
			a.CacheKey(), b.CacheKey())
	}

	c := SpotFilters{Advertiser: "acme", Brand: "widget", Date: "2025-03-11"}
	if a.CacheKey() == c.CacheKey() {
		t.Error("different dates must not collide")
	}
}

func TestAudienceMeasurement_PersonCounts(t *testing.T) {
	m := AudienceMeasurement{AudienceSize: 100, TargetSize: 1000}
	if got := m.DeliveredPersons(); got != 10000 {
		t.Errorf("DeliveredPersons = %v, want 10000", got)
	}
	if got := m.TargetPersons(); got != 100000 {
		t.Errorf("TargetPersons = %v, want 100000", got)
	}
}
