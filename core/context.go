package core

// RequestContext 承载一次预测请求的原始载荷与规范化结果，贯穿整个 Pipeline 透传。
type RequestContext struct {
	// Raw 是 transport 层收到的原始字段映射（各入口的字段命名不一致，
	// 由 feature.Mapper 统一归一化到 Record）。
	Raw map[string]any

	// Record 是规范化后的特征记录；Ingest 之后不再为 nil。
	Record *FeatureRecord

	// Params 请求级上下文参数（如 top_n、调试开关等）。
	Params map[string]any
}

// GetParam 读取请求级参数，不存在时返回默认值。
func (rctx *RequestContext) GetParam(key string, def any) any {
	if rctx.Params == nil {
		return def
	}
	if v, ok := rctx.Params[key]; ok {
		return v
	}
	return def
}
