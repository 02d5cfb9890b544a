package filter

import (
	"context"

	"github.com/rushteam/agrikit/core"
	"github.com/rushteam/agrikit/pipeline"
	"github.com/rushteam/agrikit/pkg/dsl"
)

// ExprNode 是表达式过滤节点：只保留表达式为 true 的作物。
// 表达式用 CEL 编写，可引用 crop / label / record 三个变量。
//
// 示例：
//   - `crop.score >= 0.5`            → 过滤掉低分作物
//   - `crop.name != "Mustard"`       → 剔除指定作物
//   - `record.ph < 6.0 ? crop.name != "Chickpea" : true`
type ExprNode struct {
	Expr string
}

func (n *ExprNode) Name() string {
	return "filter.expr"
}

func (n *ExprNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *ExprNode) Process(
	_ context.Context,
	rctx *core.RequestContext,
	scores []*core.CropScore,
) ([]*core.CropScore, error) {
	if n.Expr == "" || len(scores) == 0 {
		return scores, nil
	}

	var record *core.FeatureRecord
	if rctx != nil {
		record = rctx.Record
	}

	out := make([]*core.CropScore, 0, len(scores))
	for _, cs := range scores {
		if cs == nil {
			continue
		}
		keep, err := dsl.NewEval(cs, record).Evaluate(n.Expr)
		if err != nil {
			// 表达式本身有问题属于配置错误，整条流水线失败
			return nil, core.TransformFailure(core.ModuleRules, err)
		}
		if keep {
			out = append(out, cs)
		}
	}
	return out, nil
}
