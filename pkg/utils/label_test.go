package utils

import "testing"

func TestMergeLabel(t *testing.T) {
	tests := []struct {
		name     string
		existing Label
		incoming Label
		want     Label
	}{
		{
			name:     "both present accumulate",
			existing: Label{Value: "rules", Source: "rank"},
			incoming: Label{Value: "model.logreg", Source: "rank"},
			want:     Label{Value: "rules|model.logreg", Source: "rank,rank"},
		},
		{
			name:     "empty existing keeps incoming",
			existing: Label{},
			incoming: Label{Value: "rules", Source: "rank"},
			want:     Label{Value: "rules", Source: "rank"},
		},
		{
			name:     "empty incoming keeps existing",
			existing: Label{Value: "rules", Source: "rank"},
			incoming: Label{},
			want:     Label{Value: "rules", Source: "rank"},
		},
		{
			name:     "missing incoming source",
			existing: Label{Value: "a", Source: "x"},
			incoming: Label{Value: "b"},
			want:     Label{Value: "a|b", Source: "x"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeLabel(tt.existing, tt.incoming)
			if got != tt.want {
				t.Errorf("MergeLabel = %+v, want %+v", got, tt.want)
			}
		})
	}
}
