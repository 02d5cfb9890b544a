package pipeline

import (
	"context"

	"github.com/rushteam/agrikit/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindIngest Kind = "ingest" // 归一化阶段：原始载荷 -> 规范化 FeatureRecord
	KindEnrich Kind = "enrich" // 补全阶段：从外部特征库补齐缺失参数
	KindRank   Kind = "rank"   // 打分阶段：生成作物排序
	KindFilter Kind = "filter" // 过滤阶段：剔除不符合约束的条目
	KindReRank Kind = "rerank" // 重排阶段：截断/投影排序结果
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 scores -> 输出 scores”的形态：Ingest/Enrich 阶段 scores 为空，
// 只修改 rctx；Rank 阶段生成排序；Filter/ReRank 阶段在排序上做变换。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RequestContext,
		scores []*core.CropScore,
	) ([]*core.CropScore, error)
}
