package config

import (
	"fmt"
	"time"

	"github.com/rushteam/agrikit/core"
	"github.com/rushteam/agrikit/feature"
	"github.com/rushteam/agrikit/filter"
	"github.com/rushteam/agrikit/model"
	"github.com/rushteam/agrikit/pipeline"
	"github.com/rushteam/agrikit/pkg/conv"
	"github.com/rushteam/agrikit/rank"
	"github.com/rushteam/agrikit/rerank"
	"github.com/rushteam/agrikit/rules"
)

// Runtime 聚合构建 Node 所需的共享资源。
// 这些资源在进程启动时初始化一次，不由 YAML 配置描述：
// 工件是文件系统产物，特征库是外部连接，规则表可能被运维覆盖。
type Runtime struct {
	Bundle   *model.Bundle       // 可选；缺失时 rank.predictor 的 model 策略不可用
	Rules    *rules.Table        // nil 时使用内置规则表
	Features core.FeatureService // 可选；缺失时 enrich.features 是 no-op
}

// Predictor 按名称解析打分策略。
func (rt *Runtime) Predictor(name string) (core.Predictor, error) {
	switch name {
	case "model":
		if rt.Bundle == nil {
			return nil, fmt.Errorf("predictor %q requires a model bundle", name)
		}
		return model.NewPredictor(rt.Bundle), nil
	case "rules":
		return rules.NewScorer(rt.Rules), nil
	}
	return nil, fmt.Errorf("unknown predictor %q (supported: model, rules)", name)
}

// RegisterBuiltins 把内置 Node 的构建器注册到默认注册表。
// 构建器闭包持有 Runtime，YAML 配置只描述 Node 的行为参数。
func RegisterBuiltins(rt *Runtime) {
	Register("ingest.mapper", buildIngestNode)
	Register("enrich.features", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return buildEnrichNode(rt, cfg)
	})
	Register("rank.predictor", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return buildPredictorNode(rt, cfg)
	})
	Register("rank.fanout", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return buildFanoutNode(rt, cfg)
	})
	Register("filter.expr", buildExprNode)
	Register("rerank.topn", buildTopNNode)
}

func buildIngestNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &feature.IngestNode{
		Mapper: feature.Mapper{
			RequireSoilType: conv.ConfigGet(cfg, "require_soil_type", false),
			DefaultLandArea: conv.ConfigGetFloat64(cfg, "default_land_area", 0),
		},
	}, nil
}

func buildEnrichNode(rt *Runtime, cfg map[string]interface{}) (pipeline.Node, error) {
	mappings := make(map[string]string)
	if raw, ok := cfg["mappings"].(map[string]interface{}); ok {
		for ref, field := range raw {
			if s, ok := field.(string); ok {
				mappings[ref] = s
			}
		}
	}
	return &feature.EnrichNode{
		Service:  rt.Features,
		Mappings: mappings,
		Timeout:  time.Duration(conv.ConfigGetInt64(cfg, "timeout_ms", 0)) * time.Millisecond,
	}, nil
}

func buildPredictorNode(rt *Runtime, cfg map[string]interface{}) (pipeline.Node, error) {
	name := conv.ConfigGet(cfg, "predictor", "model")
	p, err := rt.Predictor(name)
	if err != nil {
		return nil, err
	}
	return &rank.PredictorNode{Predictor: p}, nil
}

func buildFanoutNode(rt *Runtime, cfg map[string]interface{}) (pipeline.Node, error) {
	names := conv.SliceAnyToString(cfg["predictors"])
	if len(names) == 0 {
		return nil, fmt.Errorf("rank.fanout requires predictors")
	}
	predictors := make([]core.Predictor, 0, len(names))
	for _, name := range names {
		p, err := rt.Predictor(name)
		if err != nil {
			return nil, err
		}
		predictors = append(predictors, p)
	}
	return &rank.Fanout{
		Predictors:    predictors,
		Timeout:       time.Duration(conv.ConfigGetInt64(cfg, "timeout_ms", 0)) * time.Millisecond,
		MaxConcurrent: int(conv.ConfigGetInt64(cfg, "max_concurrent", 0)),
		MergeStrategy: conv.ConfigGet(cfg, "merge", rank.MergePrimary),
	}, nil
}

func buildExprNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &filter.ExprNode{
		Expr: conv.ConfigGet(cfg, "expr", ""),
	}, nil
}

func buildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{
		N: int(conv.ConfigGetInt64(cfg, "n", 0)),
	}, nil
}
