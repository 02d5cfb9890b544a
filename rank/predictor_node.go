package rank

import (
	"context"
	"errors"

	"github.com/rushteam/agrikit/core"
	"github.com/rushteam/agrikit/pipeline"
)

// PredictorNode 是包装单个打分策略的排序 Node。
// - 以 rctx.Record 为输入，产出按分数降序的作物列表
// - 打分策略自身负责写入 rank_model label
type PredictorNode struct {
	Predictor core.Predictor
}

func (n *PredictorNode) Name() string        { return "rank.predictor" }
func (n *PredictorNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *PredictorNode) Process(
	ctx context.Context,
	rctx *core.RequestContext,
	_ []*core.CropScore,
) ([]*core.CropScore, error) {
	if n.Predictor == nil {
		return nil, core.ModelFailure(core.ModuleModel, errors.New("no predictor configured"))
	}
	if rctx == nil || rctx.Record == nil {
		return nil, core.MissingField(core.ModuleModel, "record")
	}
	return n.Predictor.Predict(ctx, rctx.Record)
}
