// Package agrikit 是一个作物推荐工具包（Agriculture Kit）。
//
// 设计要点：
// - Pipeline-first: 一次预测请求通过 Node 串联（Ingest → Enrich → Rank → Filter → ReRank）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - 策略可插拔: 工件驱动的分类器（model）与规则打分（rules）实现同一 Predictor 接口
package agrikit

import "github.com/rushteam/agrikit/pipeline"

// 轻量 facade：便于用户直接 import "agrikit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindIngest = pipeline.KindIngest
	KindEnrich = pipeline.KindEnrich
	KindRank   = pipeline.KindRank
	KindFilter = pipeline.KindFilter
	KindReRank = pipeline.KindReRank
)
