package rules

import (
	"context"
	"math"
	"sort"

	"github.com/rushteam/agrikit/core"
	"github.com/rushteam/agrikit/pkg/utils"
)

// 最终得分的夹取区间：避免对外呈现绝对的 0 或 1。
const (
	scoreFloor = 0.05
	scoreCeil  = 0.98
)

// 地区偏好加成
const stateBonus = 0.1

// paramOrder 是参数得分的累加顺序。规则表以外的参数名不参与打分。
var paramOrder = []string{"N", "P", "K", "ph", "temperature", "humidity", "rainfall"}

// Scorer 是确定性的规则打分策略，不依赖任何训练工件。
// 工件缺失或受限的部署环境用它兜底，同一输入永远得到同一排序。
type Scorer struct {
	table *Table
}

// NewScorer 基于给定规则表创建 Scorer；table 为 nil 时使用内置表。
func NewScorer(table *Table) *Scorer {
	if table == nil {
		table = DefaultTable()
	}
	return &Scorer{table: table}
}

func (s *Scorer) Name() string { return "rules" }

// Predict 对规则表中的每种作物打分，返回降序排序。
// 同分作物按规则表声明顺序稳定排列。
func (s *Scorer) Predict(ctx context.Context, record *core.FeatureRecord) ([]*core.CropScore, error) {
	scores := make([]*core.CropScore, 0, len(s.table.Crops))
	for _, crop := range s.table.Crops {
		score, bonus := s.scoreCrop(&crop, record)
		cs := core.NewCropScore(crop.Crop, score)
		cs.PutLabel("rank_model", utils.Label{Value: s.Name(), Source: "rules"})
		if bonus {
			cs.PutLabel("state_bonus", utils.Label{Value: record.State, Source: "bonus"})
		}
		scores = append(scores, cs)
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	return scores, nil
}

// scoreCrop 计算单个作物的最终得分及是否命中地区偏好。
//
//	加权均值 m = Σ(paramScore·w) / Σw
//	最终得分 = clamp(0.5 + m·0.5 (+0.1 地区加成), 0.05, 0.98)
//
// 基线 0.5 保证即使全部参数不适宜，得分也落在下半区而不是直接归零。
func (s *Scorer) scoreCrop(crop *CropRequirements, record *core.FeatureRecord) (float64, bool) {
	var weighted, total float64
	// 浮点加法不可结合，必须按固定列序累加：map 迭代顺序随机会导致
	// 同一输入得到末位不同的分数。
	for _, param := range paramOrder {
		band, ok := crop.Params[param]
		if !ok {
			continue
		}
		value, ok := paramValue(param, record)
		if !ok {
			continue
		}
		weighted += paramScore(value, band) * band.Weight
		total += band.Weight
	}

	var mean float64
	if total > 0 {
		mean = weighted / total
	}
	score := 0.5 + mean*0.5

	bonus := false
	for _, st := range crop.PreferredStates {
		if st == record.State {
			score += stateBonus
			bonus = true
			break
		}
	}

	return math.Min(scoreCeil, math.Max(scoreFloor, score)), bonus
}

// paramScore 计算单参数的适宜度，结果落在 [0,1]。
//
// 区间内：靠近中点得分高，到边界线性衰减到 0.8；
// 区间外：按到最近边界的距离相对区间宽度线性衰减到 0。
func paramScore(value float64, band Band) float64 {
	width := band.Max - band.Min
	if value >= band.Min && value <= band.Max {
		mid := (band.Min + band.Max) / 2
		return 1 - 0.2*math.Abs(value-mid)/(width/2)
	}
	dist := math.Min(math.Abs(value-band.Min), math.Abs(value-band.Max))
	return math.Max(0, 1-dist/width)
}

// paramValue 把规则表的参数名映射到特征记录的字段。
func paramValue(param string, record *core.FeatureRecord) (float64, bool) {
	switch param {
	case "N":
		return record.Nitrogen, true
	case "P":
		return record.Phosphorus, true
	case "K":
		return record.Potassium, true
	case "ph":
		return record.PH, true
	case "temperature":
		return record.Temperature, true
	case "humidity":
		return record.Humidity, true
	case "rainfall":
		return record.Rainfall, true
	}
	return 0, false
}

var _ core.Predictor = (*Scorer)(nil)
