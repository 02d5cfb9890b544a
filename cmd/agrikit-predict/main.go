package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rushteam/agrikit/core"
	"github.com/rushteam/agrikit/feature"
	"github.com/rushteam/agrikit/model"
	"github.com/rushteam/agrikit/pipeline"
	"github.com/rushteam/agrikit/rank"
	"github.com/rushteam/agrikit/rerank"
	"github.com/rushteam/agrikit/rules"
)

// agrikit-predict 是单次预测的进程级入口：
//
//	agrikit-predict '{"N":90,"P":42,"K":43,...,"state":"Punjab"}'
//	echo '{...}' | agrikit-predict -artifacts ./artifacts
//
// 成功时输出排序后的 JSON 数组；失败时输出 {"error": "..."} 并以非零码退出。
// 任何诊断信息都不写 stdout，保证输出可被上游进程直接解析。

type output struct {
	Crop        string  `json:"crop"`
	Probability float64 `json:"probability"`
}

func main() {
	artifacts := flag.String("artifacts", "", "训练产物目录；为空使用规则打分")
	rulesPath := flag.String("rules", "", "规则表覆盖文件（YAML）")
	topN := flag.Int("top", 5, "返回的作物数量；0 表示全部")
	flag.Parse()

	if err := run(*artifacts, *rulesPath, *topN, flag.Args()); err != nil {
		envelope, _ := json.Marshal(map[string]string{"error": err.Error()})
		fmt.Println(string(envelope))
		os.Exit(1)
	}
}

func run(artifacts, rulesPath string, topN int, args []string) error {
	raw, err := readPayload(args)
	if err != nil {
		return err
	}

	predictor, err := buildPredictor(artifacts, rulesPath)
	if err != nil {
		return err
	}

	p := &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&feature.IngestNode{},
			&rank.PredictorNode{Predictor: predictor},
			&rerank.TopNNode{N: topN},
		},
	}

	rctx := &core.RequestContext{Raw: raw}
	scores, err := p.Run(context.Background(), rctx, nil)
	if err != nil {
		return err
	}

	out := make([]output, 0, len(scores))
	for _, cs := range scores {
		out = append(out, output{Crop: cs.Crop, Probability: cs.Score})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// readPayload 从首个命令行参数或 stdin 读取 JSON 载荷。
func readPayload(args []string) (map[string]any, error) {
	var data []byte
	if len(args) > 0 {
		data = []byte(args[0])
	} else {
		var err error
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON payload: %w", err)
	}
	return raw, nil
}

func buildPredictor(artifacts, rulesPath string) (core.Predictor, error) {
	if artifacts != "" {
		bundle, err := model.LoadBundle(artifacts)
		if err != nil {
			return nil, err
		}
		return model.NewPredictor(bundle), nil
	}

	var table *rules.Table
	if rulesPath != "" {
		var err error
		table, err = rules.LoadTable(rulesPath)
		if err != nil {
			return nil, err
		}
	}
	return rules.NewScorer(table), nil
}
