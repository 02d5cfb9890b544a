package feature

import "github.com/rushteam/agrikit/core"

// ValidateRecord 做领域约束校验：
//   - 所有数值字段必须是有限值
//   - ph 必须落在 [0, 14]
//   - 养分含量（N/P/K）必须 >= 0
//
// 校验必须发生在任何打分策略之前：ph=15 这类请求不允许进入 Predictor。
func ValidateRecord(record *core.FeatureRecord) error {
	if record == nil {
		return core.MissingField(core.ModuleFeature, "record")
	}
	if !record.IsFinite() {
		return core.InvalidType(core.ModuleFeature, "record", "non-finite numeric value")
	}
	if record.PH < 0 || record.PH > 14 {
		return core.OutOfRange(core.ModuleFeature, "ph", record.PH)
	}
	if record.Nitrogen < 0 {
		return core.OutOfRange(core.ModuleFeature, "N", record.Nitrogen)
	}
	if record.Phosphorus < 0 {
		return core.OutOfRange(core.ModuleFeature, "P", record.Phosphorus)
	}
	if record.Potassium < 0 {
		return core.OutOfRange(core.ModuleFeature, "K", record.Potassium)
	}
	return nil
}
