package core

import (
	"math"

	"github.com/rushteam/agrikit/pkg/utils"
)

// FeatureRecord 是一次预测请求的规范化输入：字段名、大小写已统一。
// 所有数值字段必须是有限值；State/SoilType 已做 Title-Case 归一化。
type FeatureRecord struct {
	Nitrogen    float64 // N：土壤氮含量
	Phosphorus  float64 // P：土壤磷含量
	Potassium   float64 // K：土壤钾含量
	Temperature float64 // 温度（摄氏度）
	Humidity    float64 // 相对湿度（%）
	PH          float64 // 土壤 pH 值（0-14）
	Rainfall    float64 // 降雨量（mm）
	State       string  // 邦/地区（类别特征，Title-Case）
	SoilType    string  // 土壤类型（可选类别特征，Title-Case；为空表示未提供）
	LandArea    float64 // 耕地面积；随特征向量透传，当前所有打分策略均不读取
}

// IsFinite 检查所有数值字段是否为有限值（非 NaN/Inf）。
func (r *FeatureRecord) IsFinite() bool {
	for _, v := range []float64{
		r.Nitrogen, r.Phosphorus, r.Potassium,
		r.Temperature, r.Humidity, r.PH, r.Rainfall, r.LandArea,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// CropScore 是排序结果中的统一承载结构：作物名、分数、解释性标签。
// Labels 用于解释与观测（打分来源、加成项等）；Score 用于排序决策。
type CropScore struct {
	Crop   string
	Score  float64
	Labels map[string]utils.Label
}

func NewCropScore(crop string, score float64) *CropScore {
	return &CropScore{
		Crop:   crop,
		Score:  score,
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (cs *CropScore) PutLabel(key string, lbl utils.Label) {
	if cs.Labels == nil {
		cs.Labels = make(map[string]utils.Label)
	}
	if old, ok := cs.Labels[key]; ok {
		cs.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	cs.Labels[key] = lbl
}
