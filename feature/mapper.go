package feature

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rushteam/agrikit/core"
	"github.com/rushteam/agrikit/pkg/conv"
)

// fieldAliases 把各 transport 入口的字段命名映射到规范字段。
// 历史上各入口对同一字段的命名并不一致（N/nitrogen、ph/pH、soil_type/Soil Type 等），
// 归一化必须集中在这一处，禁止在各 adapter 里各写一份。
// 别名按声明顺序查找，取第一个出现的 key。
var fieldAliases = map[string][]string{
	"N":           {"N", "n", "nitrogen", "Nitrogen"},
	"P":           {"P", "p", "phosphorus", "Phosphorus"},
	"K":           {"K", "k", "potassium", "Potassium"},
	"temperature": {"temperature", "Temperature"},
	"humidity":    {"humidity", "Humidity"},
	"ph":          {"ph", "pH", "PH", "Ph"},
	"rainfall":    {"rainfall", "Rainfall"},
	"state":       {"state", "State"},
	"soil_type":   {"soil_type", "Soil_Type", "Soil Type", "soilType", "SoilType"},
	"land_size":   {"land_size", "land_area", "landArea", "Area", "area"},
}

// requiredNumeric 是必填数值字段的规范名，顺序即错误报告顺序。
var requiredNumeric = []string{"N", "P", "K", "temperature", "humidity", "ph", "rainfall"}

// Mapper 把原始载荷映射为规范化的 core.FeatureRecord：
// 字段别名归一、数值解析、类别值 Title-Case。
type Mapper struct {
	// RequireSoilType 为 true 时 soil_type 是必填字段（部分部署的模型包含土壤类型特征）。
	RequireSoilType bool

	// DefaultLandArea 是 land_size 缺省时的默认值；零值按 1.0 处理。
	DefaultLandArea float64
}

// Map 执行字段映射与归一化。缺少必填字段返回 MISSING_FIELD，
// 数值无法解析返回 INVALID_TYPE。
func (m *Mapper) Map(raw map[string]any) (*core.FeatureRecord, error) {
	record := &core.FeatureRecord{}

	numeric := make(map[string]float64, len(requiredNumeric))
	for _, field := range requiredNumeric {
		v, ok := lookupAlias(raw, field)
		if !ok {
			return nil, core.MissingField(core.ModuleFeature, field)
		}
		f, ok := conv.ToFloat64Lenient(v)
		if !ok {
			return nil, core.InvalidType(core.ModuleFeature, field, fmt.Sprintf("%v", v))
		}
		numeric[field] = f
	}
	record.Nitrogen = numeric["N"]
	record.Phosphorus = numeric["P"]
	record.Potassium = numeric["K"]
	record.Temperature = numeric["temperature"]
	record.Humidity = numeric["humidity"]
	record.PH = numeric["ph"]
	record.Rainfall = numeric["rainfall"]

	stateRaw, ok := lookupAlias(raw, "state")
	if !ok {
		return nil, core.MissingField(core.ModuleFeature, "state")
	}
	state, ok := conv.ToString(stateRaw)
	if !ok || strings.TrimSpace(state) == "" {
		return nil, core.InvalidType(core.ModuleFeature, "state", fmt.Sprintf("%v", stateRaw))
	}
	record.State = TitleCase(state)

	if soilRaw, ok := lookupAlias(raw, "soil_type"); ok {
		soil, ok := conv.ToString(soilRaw)
		if !ok {
			return nil, core.InvalidType(core.ModuleFeature, "soil_type", fmt.Sprintf("%v", soilRaw))
		}
		record.SoilType = TitleCase(soil)
	} else if m.RequireSoilType {
		return nil, core.MissingField(core.ModuleFeature, "soil_type")
	}

	record.LandArea = m.DefaultLandArea
	if record.LandArea == 0 {
		record.LandArea = 1.0
	}
	if areaRaw, ok := lookupAlias(raw, "land_size"); ok {
		area, ok := conv.ToFloat64Lenient(areaRaw)
		if !ok {
			return nil, core.InvalidType(core.ModuleFeature, "land_size", fmt.Sprintf("%v", areaRaw))
		}
		record.LandArea = area
	}

	return record, nil
}

// lookupAlias 按别名表在原始载荷中查找规范字段。
func lookupAlias(raw map[string]any, field string) (any, bool) {
	for _, key := range fieldAliases[field] {
		if v, ok := raw[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// TitleCase 把类别值归一化为 Title-Case：每个词首字母大写、其余小写。
// 编码器词表是大小写敏感的，"punjab" / "PUNJAB" / "Punjab" 必须归一到同一个值；
// 该变换是幂等的。
func TitleCase(s string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	for i, w := range words {
		// 首字符按 rune 取，多字节首字符不能按字节切
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
