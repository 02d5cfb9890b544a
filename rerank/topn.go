package rerank

import (
	"context"

	"github.com/rushteam/agrikit/core"
	"github.com/rushteam/agrikit/pipeline"
)

// TopNNode 是 Top-N 截断节点，在排序之后截取前 N 个作物。
// 截断只看位置不看分数：同分作物的去留由上游排序的稳定顺序决定。
//
// 示例：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &rank.PredictorNode{...},  // 排序
//	        &rerank.TopNNode{N: 5},    // 截取 Top 5
//	    },
//	}
type TopNNode struct {
	// N 要保留的作物数量（Top N）
	// 如果 N <= 0 或 N >= len(scores)，不截断
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RequestContext,
	scores []*core.CropScore,
) ([]*core.CropScore, error) {
	if n.N <= 0 {
		return scores, nil
	}
	if len(scores) <= n.N {
		return scores, nil
	}
	return scores[:n.N], nil
}
