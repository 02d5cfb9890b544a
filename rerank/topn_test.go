package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/agrikit/core"
)

func makeScores(crops ...string) []*core.CropScore {
	out := make([]*core.CropScore, 0, len(crops))
	for i, crop := range crops {
		out = append(out, core.NewCropScore(crop, 1.0-float64(i)*0.1))
	}
	return out
}

func TestTopNNode(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		crops []string
		want  []string
	}{
		{
			name: "truncate to top 5",
			n:    5,
			crops: []string{"Rice", "Wheat", "Maize", "Cotton", "Sugarcane",
				"Chickpea", "Potato", "Mustard"},
			want: []string{"Rice", "Wheat", "Maize", "Cotton", "Sugarcane"},
		},
		{
			name:  "fewer items than n",
			n:     5,
			crops: []string{"Rice", "Wheat"},
			want:  []string{"Rice", "Wheat"},
		},
		{
			name:  "zero means no truncation",
			n:     0,
			crops: []string{"Rice", "Wheat", "Maize"},
			want:  []string{"Rice", "Wheat", "Maize"},
		},
		{
			name:  "exactly n",
			n:     3,
			crops: []string{"Rice", "Wheat", "Maize"},
			want:  []string{"Rice", "Wheat", "Maize"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &TopNNode{N: tt.n}
			got, err := node.Process(context.Background(), nil, makeScores(tt.crops...))
			if err != nil {
				t.Fatalf("Process: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d items, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i].Crop != tt.want[i] {
					t.Errorf("position %d = %s, want %s", i, got[i].Crop, tt.want[i])
				}
			}
		})
	}
}
