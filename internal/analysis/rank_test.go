package analysis

import (
	"encoding/json"
	"testing"

	"github.com/codyseavey/asin-analyzer/internal/models"
)

func productWithRanks(t *testing.T, salesRanks string, reference models.OptionalInt) *models.Product {
	t.Helper()
	var p models.Product
	if err := json.Unmarshal([]byte(`{"salesRanks":`+salesRanks+`}`), &p); err != nil {
		t.Fatalf("failed to build product: %v", err)
	}
	p.SalesRankReference = reference
	return &p
}

func TestAggregateRank_Windowing(t *testing.T) {
	p := productWithRanks(t, `{"100":[0,100,1440,90,10080,80]}`, models.OptionalInt{})

	got := AggregateRank(p)

	if got.Current.String() != "80" {
		t.Errorf("Current = %s, want 80", got.Current)
	}
	if got.Best.String() != "80" {
		t.Errorf("Best = %s, want 80", got.Best)
	}
	// The 7-day cutoff is exactly timestamp 0, which is included
	if got.Avg7.String() != "90" {
		t.Errorf("Avg7 = %s, want 90", got.Avg7)
	}
	if got.Avg30.String() != "90" {
		t.Errorf("Avg30 = %s, want 90", got.Avg30)
	}
}

func TestAggregateRank_WindowExcludesOlderPairs(t *testing.T) {
	// 7 days + 1 minute before the latest pair falls outside the 7-day window
	p := productWithRanks(t, `{"100":[0,500,1,100,10081,80]}`, models.OptionalInt{})

	got := AggregateRank(p)

	if got.Avg7.String() != "90" {
		t.Errorf("Avg7 = %s, want 90", got.Avg7)
	}
	if got.Avg30.String() != "226" {
		t.Errorf("Avg30 = %s, want 226", got.Avg30)
	}
	if got.Best.String() != "80" {
		t.Errorf("Best = %s, want 80", got.Best)
	}
}

func TestAggregateRank_BestKeepsNegativeMarkers(t *testing.T) {
	p := productWithRanks(t, `{"100":[0,120,1440,-1,2880,110]}`, models.OptionalInt{})

	got := AggregateRank(p)

	if got.Best.String() != "-1" {
		t.Errorf("Best = %s, want -1", got.Best)
	}
	if got.Current.String() != "110" {
		t.Errorf("Current = %s, want 110", got.Current)
	}
}

func TestAggregateRank_CategorySelection(t *testing.T) {
	ranks := `{"300":[0,30],"200":[0,20]}`

	tests := []struct {
		name      string
		reference models.OptionalInt
		want      string
	}{
		{"preferred category", optInt(200), "20"},
		{"unknown reference falls back to first", optInt(999), "30"},
		{"zero reference falls back to first", optInt(0), "30"},
		{"missing reference falls back to first", models.OptionalInt{}, "30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggregateRank(productWithRanks(t, ranks, tt.reference))
			if got.Current.String() != tt.want {
				t.Errorf("Current = %s, want %s", got.Current, tt.want)
			}
		})
	}
}

func TestAggregateRank_Unavailable(t *testing.T) {
	tests := []struct {
		name       string
		salesRanks string
	}{
		{"no ranks", `{}`},
		{"null ranks", `null`},
		{"short series", `{"100":[5]}`},
		{"wrong type", `"nope"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggregateRank(productWithRanks(t, tt.salesRanks, models.OptionalInt{}))
			for _, n := range []models.Number{got.Current, got.Avg7, got.Avg30, got.Best} {
				if n.Valid() {
					t.Errorf("expected N/A, got %s", n)
				}
			}
		})
	}
}
