package feature

import (
	"context"
	"fmt"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"

	"github.com/rushteam/agrikit/core"
)

// FeastProvider 是基于官方 Feast Go SDK 的 core.FeatureService 实现。
//
// Feast 的在线特征库保存按地区预计算的农艺参考特征
// （如 state_climate:humidity、state_climate:rainfall、state_soil:n_mean），
// EnrichNode 用它补齐请求中缺失的参数。
//
// 工程特征：
//   - 实时性：好（gRPC 低延迟）
//   - 一致性：特征由离线管道物化，读路径只读
type FeastProvider struct {
	client  *feastsdk.GrpcClient
	Project string
}

// NewFeastProvider 连接 Feast Feature Server（gRPC，默认端口 6565）。
func NewFeastProvider(host string, port int, project string) (*FeastProvider, error) {
	if port == 0 {
		port = 6565
	}
	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, fmt.Errorf("feast grpc client: %w", err)
	}
	return &FeastProvider{client: client, Project: project}, nil
}

// GetFeatures 查询在线特征（实现 core.FeatureService）。
// 查不到的特征不出现在返回 map 中。
func (p *FeastProvider) GetFeatures(
	ctx context.Context,
	entity map[string]any,
	features []string,
) (map[string]float64, error) {
	if len(features) == 0 || len(entity) == 0 {
		return map[string]float64{}, nil
	}

	row := make(feastsdk.Row, len(entity))
	for k, v := range entity {
		switch val := v.(type) {
		case string:
			row[k] = feastsdk.StrVal(val)
		case int:
			row[k] = feastsdk.Int64Val(int64(val))
		case int64:
			row[k] = feastsdk.Int64Val(val)
		case float64:
			row[k] = feastsdk.DoubleVal(val)
		case bool:
			row[k] = feastsdk.BoolVal(val)
		default:
			row[k] = feastsdk.StrVal(fmt.Sprintf("%v", val))
		}
	}

	resp, err := p.client.GetOnlineFeatures(ctx, &feastsdk.OnlineFeaturesRequest{
		Features: features,
		Entities: []feastsdk.Row{row},
		Project:  p.Project,
	})
	if err != nil {
		return nil, core.Unavailable(core.ModuleFeature, fmt.Errorf("feast get online features: %w", err))
	}

	rows := resp.Rows()
	if len(rows) == 0 {
		return map[string]float64{}, nil
	}

	values := make(map[string]float64, len(features))
	for _, name := range features {
		val, exists := rows[0][name]
		if !exists || val == nil {
			continue
		}
		if f, ok := toFloat(val); ok {
			values[name] = f
		}
	}
	return values, nil
}

func (p *FeastProvider) Close() error {
	return p.client.Close()
}

// toFloat 把 SDK 返回的 protobuf Value 转成 float64。
// 数值型以外的特征（字符串、字节串、列表）被跳过。
func toFloat(val *feasttypes.Value) (float64, bool) {
	switch v := val.GetVal().(type) {
	case *feasttypes.Value_DoubleVal:
		return v.DoubleVal, true
	case *feasttypes.Value_FloatVal:
		return float64(v.FloatVal), true
	case *feasttypes.Value_Int64Val:
		return float64(v.Int64Val), true
	case *feasttypes.Value_Int32Val:
		return float64(v.Int32Val), true
	}
	return 0, false
}

// 确保 FeastProvider 实现了 core.FeatureService 接口
var _ core.FeatureService = (*FeastProvider)(nil)
