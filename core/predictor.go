package core

import "context"

// Predictor 是打分策略的领域接口：输入规范化特征记录，输出完整的作物排序。
//
// 设计原则：
//   - 定义在领域层（core），由具体策略实现（model 包、rules 包）
//   - 两种策略可互换：工件驱动的分类器与零工件的规则打分器遵循同一契约
//   - 纯同步计算，无 IO、无内部状态变更，可被任意并发调用
//
// 返回值约定：
//   - 按 Score 降序排列的完整排序（截断交给 rerank.TopNNode）
//   - 分数相同的条目保持策略内部的稳定顺序
//   - 失败返回 *DomainError（UNKNOWN_CATEGORY / TRANSFORM_FAILURE / MODEL_FAILURE）
type Predictor interface {
	Name() string
	Predict(ctx context.Context, record *FeatureRecord) ([]*CropScore, error)
}
