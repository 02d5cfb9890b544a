package feature

import (
	"context"

	"github.com/rushteam/agrikit/core"
	"github.com/rushteam/agrikit/pipeline"
)

// IngestNode 是 Pipeline 的归一化入口：rctx.Raw -> rctx.Record。
// 字段映射、Title-Case 归一化、领域校验按序执行，任一步失败即短路。
// 之后的 Node 只读 rctx.Record，不再接触原始载荷。
type IngestNode struct {
	Mapper Mapper
}

func (n *IngestNode) Name() string        { return "ingest.mapper" }
func (n *IngestNode) Kind() pipeline.Kind { return pipeline.KindIngest }

func (n *IngestNode) Process(
	_ context.Context,
	rctx *core.RequestContext,
	scores []*core.CropScore,
) ([]*core.CropScore, error) {
	if rctx.Record != nil {
		// 调用方已经给出规范化记录（如 library 直连场景），只做校验
		if err := ValidateRecord(rctx.Record); err != nil {
			return nil, err
		}
		return scores, nil
	}

	record, err := n.Mapper.Map(rctx.Raw)
	if err != nil {
		return nil, err
	}
	if err := ValidateRecord(record); err != nil {
		return nil, err
	}
	rctx.Record = record
	return scores, nil
}
