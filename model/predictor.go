package model

import (
	"context"
	"sort"

	"github.com/rushteam/agrikit/core"
	"github.com/rushteam/agrikit/pkg/utils"
)

// Predictor 是工件驱动的打分策略：label 编码 → 列变换 → softmax 分类 → 解码。
//
// 特征向量的列序是固定且唯一的：
//
//	[N, P, K, temperature, humidity, ph, rainfall, state_code, (soil_code), land_area]
//
// 类别特征在进入列变换器之前由本 Predictor 做 label 编码，变换器只见数值。
// 一个字段只允许被一个阶段编码——历史实现里两种列序并存是副本漂移，
// 不是设计选择，这里用固定布局一次性钉死。
type Predictor struct {
	bundle *Bundle
}

// NewPredictor 基于已加载的工件集创建 Predictor。
func NewPredictor(bundle *Bundle) *Predictor {
	return &Predictor{bundle: bundle}
}

func (p *Predictor) Name() string { return "model.logreg" }

// Predict 返回按概率降序的完整作物排序；概率相同的按类别下标升序稳定排列。
// 编码失败（未知类别）返回校验类错误；变换/推理失败返回内部错误，不重试——
// 这些失败对同一输入是确定性的，重试不会改变结果。
func (p *Predictor) Predict(ctx context.Context, record *core.FeatureRecord) ([]*core.CropScore, error) {
	b := p.bundle

	stateCode, err := b.Encoders["state"].Encode(record.State)
	if err != nil {
		return nil, err
	}

	vector := []float64{
		record.Nitrogen,
		record.Phosphorus,
		record.Potassium,
		record.Temperature,
		record.Humidity,
		record.PH,
		record.Rainfall,
		float64(stateCode),
	}

	if b.HasSoilEncoder() {
		if record.SoilType == "" {
			return nil, core.MissingField(core.ModuleModel, "soil_type")
		}
		soilCode, err := b.Encoders["soil_type"].Encode(record.SoilType)
		if err != nil {
			return nil, err
		}
		vector = append(vector, float64(soilCode))
	}

	vector = append(vector, record.LandArea)

	transformed, err := b.Transformer.Transform(vector)
	if err != nil {
		return nil, core.TransformFailure(core.ModuleModel, err)
	}

	probs, err := b.Classifier.PredictProba(transformed)
	if err != nil {
		return nil, core.ModelFailure(core.ModuleModel, err)
	}

	scores := make([]*core.CropScore, len(probs))
	for idx, prob := range probs {
		crop, err := b.Target.Decode(idx)
		if err != nil {
			return nil, core.ModelFailure(core.ModuleModel, err)
		}
		cs := core.NewCropScore(crop, prob)
		cs.PutLabel("rank_model", utils.Label{Value: p.Name(), Source: "model"})
		scores[idx] = cs
	}

	// 降序排序；SliceStable 保证同分时类别下标小的在前
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	return scores, nil
}

// 确保 Predictor 实现了 core.Predictor 接口
var _ core.Predictor = (*Predictor)(nil)
