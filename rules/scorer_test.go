package rules

import (
	"context"
	"math"
	"testing"

	"github.com/rushteam/agrikit/core"
)

// riceIdeal 的每个参数都落在 Rice 区间的正中点。
func riceIdeal() *core.FeatureRecord {
	return &core.FeatureRecord{
		Nitrogen:    100, // [80,120] 中点
		Phosphorus:  45,  // [30,60] 中点
		Potassium:   60,  // [40,80] 中点
		PH:          6.15,
		Temperature: 27,
		Humidity:    80,
		Rainfall:    250,
		State:       "Tamil Nadu",
		LandArea:    1,
	}
}

func TestParamScore(t *testing.T) {
	band := Band{Min: 80, Max: 120, Weight: 1}
	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{name: "at middle", value: 100, want: 1.0},
		{name: "at lower bound", value: 80, want: 0.8},
		{name: "at upper bound", value: 120, want: 0.8},
		{name: "halfway between middle and bound", value: 110, want: 0.9},
		{name: "just outside", value: 130, want: 1 - 10.0/40.0},
		{name: "one range-width outside", value: 160, want: 0},
		{name: "far outside clamps to zero", value: 400, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := paramScore(tt.value, band)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("paramScore(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestScorer_IdealInputHitsCeiling(t *testing.T) {
	scorer := NewScorer(nil)
	scores, err := scorer.Predict(context.Background(), riceIdeal())
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(scores) != len(DefaultTable().Crops) {
		t.Fatalf("got %d crops, want %d", len(scores), len(DefaultTable().Crops))
	}
	if scores[0].Crop != "Rice" {
		t.Fatalf("top crop = %s, want Rice", scores[0].Crop)
	}
	// 全参数在中点：加权均值 1.0 → 0.5+0.5 = 1.0 → 夹取到 0.98
	if math.Abs(scores[0].Score-scoreCeil) > 1e-9 {
		t.Errorf("top score = %v, want %v", scores[0].Score, scoreCeil)
	}
}

func TestScorer_ScoresStayInClampRange(t *testing.T) {
	scorer := NewScorer(nil)
	records := []*core.FeatureRecord{
		riceIdeal(),
		{State: "Punjab"}, // 全零输入
		{Nitrogen: 1e6, Phosphorus: 1e6, Potassium: 1e6, Temperature: 1e6,
			Humidity: 1e6, PH: 14, Rainfall: 1e6, State: "Punjab"},
	}
	for _, record := range records {
		scores, err := scorer.Predict(context.Background(), record)
		if err != nil {
			t.Fatalf("Predict: %v", err)
		}
		for _, cs := range scores {
			if cs.Score < scoreFloor || cs.Score > scoreCeil {
				t.Errorf("crop %s score %v outside [%v, %v]",
					cs.Crop, cs.Score, scoreFloor, scoreCeil)
			}
		}
	}
}

func TestScorer_StateBonus(t *testing.T) {
	scorer := NewScorer(nil)

	neutral := riceIdeal() // Tamil Nadu 不在任何偏好表中
	preferred := riceIdeal()
	preferred.State = "West Bengal"

	base, err := scorer.Predict(context.Background(), neutral)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	boosted, err := scorer.Predict(context.Background(), preferred)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}

	find := func(scores []*core.CropScore, crop string) *core.CropScore {
		for _, cs := range scores {
			if cs.Crop == crop {
				return cs
			}
		}
		t.Fatalf("crop %s not in results", crop)
		return nil
	}

	// Wheat 不偏好 West Bengal，分数应当不变
	if find(base, "Wheat").Score != find(boosted, "Wheat").Score {
		t.Errorf("Wheat score changed with state")
	}

	// Potato 无偏好表，任何 state 都不该出现加成 label
	if _, ok := find(boosted, "Potato").Labels["state_bonus"]; ok {
		t.Errorf("Potato got a state_bonus label")
	}
	if _, ok := find(boosted, "Rice").Labels["state_bonus"]; !ok {
		t.Errorf("Rice missing state_bonus label for West Bengal")
	}

	// 非满分场景验证 +0.1：Chickpea 在 ideal 输入下分数远离夹取边界
	baseChickpea := find(base, "Chickpea").Score
	preferred.State = "Rajasthan"
	boosted, err = scorer.Predict(context.Background(), preferred)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	got := find(boosted, "Chickpea").Score
	if math.Abs(got-(baseChickpea+stateBonus)) > 1e-9 {
		t.Errorf("Chickpea with Rajasthan = %v, want %v", got, baseChickpea+stateBonus)
	}
}

func TestScorer_WestBengalRice(t *testing.T) {
	scorer := NewScorer(nil)
	record := &core.FeatureRecord{
		Nitrogen: 100, Phosphorus: 45, Potassium: 60,
		PH: 6.2, Temperature: 27, Humidity: 80, Rainfall: 250,
		State: "West Bengal",
	}

	scores, err := scorer.Predict(context.Background(), record)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if scores[0].Crop != "Rice" {
		t.Fatalf("top crop = %s, want Rice", scores[0].Crop)
	}
	if scores[0].Score < 0.9 {
		t.Errorf("Rice score = %v, want >= 0.9", scores[0].Score)
	}
	if _, ok := scores[0].Labels["state_bonus"]; !ok {
		t.Errorf("Rice missing state_bonus for West Bengal")
	}
}

func TestScorer_Deterministic(t *testing.T) {
	scorer := NewScorer(nil)
	record := riceIdeal()

	first, err := scorer.Predict(context.Background(), record)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := scorer.Predict(context.Background(), record)
		if err != nil {
			t.Fatalf("Predict: %v", err)
		}
		for j := range first {
			if first[j].Crop != again[j].Crop || first[j].Score != again[j].Score {
				t.Fatalf("run %d diverged at #%d: %s/%v vs %s/%v",
					i, j, first[j].Crop, first[j].Score, again[j].Crop, again[j].Score)
			}
		}
	}
}

// 非中点输入下逐位比较分数：加权累加必须按固定列序进行，
// 否则浮点加法顺序变化会让同一输入产生末位不同的结果。
func TestScorer_BitIdenticalScores(t *testing.T) {
	scorer := NewScorer(nil)
	records := []*core.FeatureRecord{
		{Nitrogen: 93.7, Phosphorus: 37.1, Potassium: 52.3,
			Temperature: 23.9, Humidity: 71.4, PH: 6.31, Rainfall: 187.6,
			State: "Punjab"},
		{Nitrogen: 41.2, Phosphorus: 63.8, Potassium: 29.5,
			Temperature: 31.7, Humidity: 48.2, PH: 7.83, Rainfall: 64.1,
			State: "Gujarat"},
	}

	for _, record := range records {
		first, err := scorer.Predict(context.Background(), record)
		if err != nil {
			t.Fatalf("Predict: %v", err)
		}
		for i := 0; i < 50; i++ {
			again, err := scorer.Predict(context.Background(), record)
			if err != nil {
				t.Fatalf("Predict: %v", err)
			}
			for j := range first {
				if first[j].Crop != again[j].Crop {
					t.Fatalf("run %d: position %d crop %s vs %s",
						i, j, first[j].Crop, again[j].Crop)
				}
				a, b := math.Float64bits(first[j].Score), math.Float64bits(again[j].Score)
				if a != b {
					t.Fatalf("run %d: crop %s score bits %x vs %x",
						i, first[j].Crop, a, b)
				}
			}
		}
	}
}

func TestScorer_TieBreakFollowsTableOrder(t *testing.T) {
	table := &Table{Crops: []CropRequirements{
		{Crop: "First", Params: map[string]Band{"N": {Min: 0, Max: 10, Weight: 1}}},
		{Crop: "Second", Params: map[string]Band{"N": {Min: 0, Max: 10, Weight: 1}}},
		{Crop: "Third", Params: map[string]Band{"N": {Min: 0, Max: 10, Weight: 1}}},
	}}
	scorer := NewScorer(table)

	scores, err := scorer.Predict(context.Background(), &core.FeatureRecord{Nitrogen: 5})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	want := []string{"First", "Second", "Third"}
	for i, cs := range scores {
		if cs.Crop != want[i] {
			t.Errorf("position %d = %s, want %s", i, cs.Crop, want[i])
		}
	}
}

func TestTable_Validate(t *testing.T) {
	tests := []struct {
		name    string
		table   Table
		wantErr bool
	}{
		{name: "empty table", table: Table{}, wantErr: true},
		{
			name: "duplicate crop",
			table: Table{Crops: []CropRequirements{
				{Crop: "Rice", Params: map[string]Band{"N": {Min: 0, Max: 1, Weight: 1}}},
				{Crop: "Rice", Params: map[string]Band{"N": {Min: 0, Max: 1, Weight: 1}}},
			}},
			wantErr: true,
		},
		{
			name: "inverted band",
			table: Table{Crops: []CropRequirements{
				{Crop: "Rice", Params: map[string]Band{"N": {Min: 10, Max: 5, Weight: 1}}},
			}},
			wantErr: true,
		},
		{
			name: "zero weight",
			table: Table{Crops: []CropRequirements{
				{Crop: "Rice", Params: map[string]Band{"N": {Min: 0, Max: 1}}},
			}},
			wantErr: true,
		},
		{name: "builtin table", table: *DefaultTable(), wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
