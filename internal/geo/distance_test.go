package geo

import (
	"math"
	"testing"
)

func TestMiles(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolerance              float64
	}{
		{
			name: "same point",
			lat1: 42.3601, lon1: -71.0589,
			lat2: 42.3601, lon2: -71.0589,
			want: 0, tolerance: 0,
		},
		{
			name: "new york to los angeles",
			lat1: 40.7128, lon1: -74.0060,
			lat2: 34.0522, lon2: -118.2437,
			want: 2445.6, tolerance: 1.0,
		},
		{
			name: "boston to cambridge",
			lat1: 42.3601, lon1: -71.0589,
			lat2: 42.3736, lon2: -71.1097,
			want: 2.8, tolerance: 0.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Miles(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("Miles() = %v, want %v ± %v", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestMilesOneDecimal(t *testing.T) {
	got := Miles(40.7128, -74.0060, 34.0522, -118.2437)
	if got != math.Round(got*10)/10 {
		t.Errorf("Miles() = %v, want one decimal place", got)
	}
}

func TestMilesNaNPropagates(t *testing.T) {
	if got := Miles(math.NaN(), 0, 0, 0); !math.IsNaN(got) {
		t.Errorf("Miles() with NaN input = %v, want NaN", got)
	}
}
