package reconcile

import (
	"testing"

	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/domain"
)

func stationSpot(name, group string) domain.Spot {
	return domain.Spot{StationName: name, StationGroup: group}
}

func TestMatchStationSpots_ExactBeatsSubstring(t *testing.T) {
	spots := []domain.Spot{
		stationSpot("ITV1", ""),
		stationSpot("ITV1 Granada", ""),
	}
	out := MatchStationSpots(spots, "itv1")
	if len(out) != 1 || out[0].StationName != "ITV1" {
		t.Errorf("exact tier must win when it matches, got %v", out)
	}
}

func TestMatchStationSpots_SubstringBothDirections(t *testing.T) {
	spots := []domain.Spot{stationSpot("ITV1 Granada", "")}
	if out := MatchStationSpots(spots, "Granada"); len(out) != 1 {
		t.Error("plan name contained in spot name must match")
	}

	spots = []domain.Spot{stationSpot("C4", "")}
	if out := MatchStationSpots(spots, "C4 London"); len(out) != 1 {
		t.Error("spot name contained in plan name must match")
	}
}

func TestMatchStationSpots_GroupNameFallback(t *testing.T) {
	spots := []domain.Spot{stationSpot("Quest", "Discovery Networks")}
	out := MatchStationSpots(spots, "Discovery Networks")
	if len(out) != 1 {
		t.Error("group-name tier must match when station name doesn't")
	}
}

func TestMatchStationSpots_NormalizedHDSuffix(t *testing.T) {
	// "ITV1 HD" must reconcile against a plan row named "ITV1".
	spots := []domain.Spot{stationSpot("ITV1 HD", "")}
	if out := MatchStationSpots(spots, "ITV1"); len(out) != 1 {
		t.Fatal("HD-suffixed station must match its plan row")
	}

	// Whitespace drift plus HD suffix defeats the substring tier; only
	// the normalized tier recovers it.
	spots = []domain.Spot{stationSpot("ITV 1 HD", "")}
	if matchSubstring(spots[0], "ITV1") {
		t.Fatal("test premise broken: substring tier should not match")
	}
	if out := MatchStationSpots(spots, "ITV1"); len(out) != 1 {
		t.Error("normalized tier must strip whitespace and HD suffix")
	}
}

func TestMatchStationSpots_NoMatch(t *testing.T) {
	spots := []domain.Spot{stationSpot("Channel 5", "")}
	if out := MatchStationSpots(spots, "Dave"); out != nil {
		t.Errorf("expected no match, got %v", out)
	}
}

func TestNormalizeStation(t *testing.T) {
	tests := []struct{ in, want string }{
		{"ITV1 HD", "itv1"},
		{"ITV 1", "itv1"},
		{" Channel 4 ", "channel4"},
		{"E4HD", "e4"},
	}
	for _, tt := range tests {
		if got := normalizeStation(tt.in); got != tt.want {
			t.Errorf("normalizeStation(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
