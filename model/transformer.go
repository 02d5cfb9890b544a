package model

import "fmt"

// 列变换类型
const (
	ScaleStandard    = "standard"    // z-score 标准化：(x - mean) / std
	ScalePassthrough = "passthrough" // 原样透传（类别编码、land_area 等）
)

// Column 描述特征向量中一列的变换方式。
type Column struct {
	Name  string  `json:"name"`
	Scale string  `json:"scale"`
	Mean  float64 `json:"mean,omitempty"`
	Std   float64 `json:"std,omitempty"`
}

// ColumnTransformer 是固定的、顺序敏感的数值变换：
// 对定长有序特征向量逐列应用 z-score 标准化或透传。
// 统计量（mean/std）在工件构建期拟合，加载后只读；
// 变换是确定性的纯函数，同输入必同输出。
type ColumnTransformer struct {
	Columns []Column `json:"columns"`
}

// Transform 对有序特征向量逐列变换。输入长度必须与列定义一致。
func (t *ColumnTransformer) Transform(vector []float64) ([]float64, error) {
	if len(vector) != len(t.Columns) {
		return nil, fmt.Errorf("feature vector length %d does not match %d columns",
			len(vector), len(t.Columns))
	}

	out := make([]float64, len(vector))
	for i, col := range t.Columns {
		switch col.Scale {
		case ScaleStandard:
			if col.Std > 0 {
				out[i] = (vector[i] - col.Mean) / col.Std
			} else {
				out[i] = vector[i] - col.Mean
			}
		case ScalePassthrough, "":
			out[i] = vector[i]
		default:
			return nil, fmt.Errorf("column %s: unknown scale %q", col.Name, col.Scale)
		}
	}
	return out, nil
}

// Dim 返回变换的输入/输出维度（逐列变换，两者相同）。
func (t *ColumnTransformer) Dim() int { return len(t.Columns) }
