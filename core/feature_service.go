package core

import "context"

// FeatureService 是外部特征查询的领域接口。
//
// 使用场景：
//   - 请求缺失部分土壤参数时，按地区从在线特征库补齐（feature.EnrichNode）
//
// 实现：
//   - feature.FeastProvider（基于 Feast 在线特征库）
//   - 测试中可用固定 map 实现
type FeatureService interface {
	// GetFeatures 按实体（如 {"state": "Punjab"}）查询一组特征值。
	// 查不到的特征不出现在返回 map 中，不算错误。
	GetFeatures(ctx context.Context, entity map[string]any, features []string) (map[string]float64, error)

	Close() error
}
