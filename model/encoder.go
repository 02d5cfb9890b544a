package model

import (
	"fmt"

	"github.com/rushteam/agrikit/core"
)

// LabelEncoder 是类别特征与整数编码之间的固定双射。
// 词表在工件构建期确定（本系统运行期之外），加载后只读。
//
// 严格模式是唯一模式：不在词表内的值一律返回 UNKNOWN_CATEGORY，
// 并携带完整的允许值列表。静默回退到编码 0 会把任意未知地区
// 当成词表第一个地区去预测，是已观测到的线上缺陷，不允许复刻。
type LabelEncoder struct {
	Field   string   // 对应的规范字段名（如 "state"、"soil_type"、"crop"）
	Classes []string // 有序词表：下标即编码

	index map[string]int
}

// NewLabelEncoder 创建编码器并建立反查索引。
func NewLabelEncoder(field string, classes []string) *LabelEncoder {
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	return &LabelEncoder{Field: field, Classes: classes, index: index}
}

// Encode 把标签编码为整数。
func (e *LabelEncoder) Encode(value string) (int, error) {
	code, ok := e.index[value]
	if !ok {
		allowed := make([]string, len(e.Classes))
		copy(allowed, e.Classes)
		return 0, core.UnknownCategory(core.ModuleModel, e.Field, value, allowed)
	}
	return code, nil
}

// Decode 把整数编码还原为标签。
func (e *LabelEncoder) Decode(code int) (string, error) {
	if code < 0 || code >= len(e.Classes) {
		return "", fmt.Errorf("label code %d out of range [0, %d)", code, len(e.Classes))
	}
	return e.Classes[code], nil
}

// Contains 检查值是否在词表内。
func (e *LabelEncoder) Contains(value string) bool {
	_, ok := e.index[value]
	return ok
}

// Len 返回词表大小。
func (e *LabelEncoder) Len() int { return len(e.Classes) }
