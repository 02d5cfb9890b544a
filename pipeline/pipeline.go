package pipeline

import (
	"context"

	"github.com/rushteam/agrikit/core"
)

// Pipeline 是 agrikit 的核心抽象：把一次推理请求拆成可组合的 Node 链
// （Ingest → Enrich → Rank → Filter → ReRank）。
// 任一 Node 返回错误即短路，错误原样上抛给 transport 层映射。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RequestContext,
	scores []*core.CropScore,
) ([]*core.CropScore, error) {
	cur := scores
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
