package feature

import (
	"context"
	"time"

	"github.com/rushteam/agrikit/core"
	"github.com/rushteam/agrikit/pipeline"
)

// EnrichNode 在归一化之前用在线特征库补齐缺失的请求参数。
//
// 使用场景：调用方只提供了土壤化验值，缺少气候参数（humidity/rainfall 等），
// 按 state 从特征库取该地区的参考均值补齐。
//
// 约束：
//   - 只补缺失字段，绝不覆盖调用方显式给出的值
//   - Service 未配置时是 no-op，Pipeline 行为与未挂载此 Node 等价
//   - 查询失败只意味着不补齐，不中断请求（后续 MISSING_FIELD 会如实上报）
type EnrichNode struct {
	Service core.FeatureService

	// Mappings 是特征引用到规范字段名的映射，
	// 例如 {"state_climate:humidity": "humidity", "state_climate:rainfall": "rainfall"}。
	Mappings map[string]string

	// Timeout 单次特征查询的超时；零值表示 2s。
	Timeout time.Duration
}

func (n *EnrichNode) Name() string        { return "enrich.features" }
func (n *EnrichNode) Kind() pipeline.Kind { return pipeline.KindEnrich }

func (n *EnrichNode) Process(
	ctx context.Context,
	rctx *core.RequestContext,
	scores []*core.CropScore,
) ([]*core.CropScore, error) {
	if n.Service == nil || len(n.Mappings) == 0 || rctx.Raw == nil {
		return scores, nil
	}

	// 只查缺失字段
	missing := make([]string, 0, len(n.Mappings))
	for ref, field := range n.Mappings {
		if _, ok := lookupAlias(rctx.Raw, field); !ok {
			missing = append(missing, ref)
		}
	}
	if len(missing) == 0 {
		return scores, nil
	}

	stateRaw, ok := lookupAlias(rctx.Raw, "state")
	if !ok {
		return scores, nil // 没有实体键就无从查询
	}
	state, ok := stateRaw.(string)
	if !ok {
		return scores, nil
	}

	timeout := n.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	queryCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	values, err := n.Service.GetFeatures(queryCtx,
		map[string]any{"state": TitleCase(state)}, missing)
	if err != nil {
		return scores, nil
	}

	for ref, value := range values {
		field, ok := n.Mappings[ref]
		if !ok {
			continue
		}
		if _, present := lookupAlias(rctx.Raw, field); !present {
			rctx.Raw[field] = value
		}
	}
	return scores, nil
}
