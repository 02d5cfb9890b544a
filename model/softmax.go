package model

import (
	"fmt"
	"math"
)

// SoftmaxRegression 实现了多分类逻辑回归 (Multinomial Logistic Regression)。
//
// 预测原理：
//  1. 每个类别做线性加权求和: z_c = Intercept_c + sum(Coef_c_i * x_i)
//  2. Softmax 变换: P_c = exp(z_c) / sum(exp(z_k))
//
// 输出是固定有序类别空间上的概率分布，类别下标由目标编码器解码为作物名。
type SoftmaxRegression struct {
	// Coef 是 [类别数][特征数] 的系数矩阵
	Coef [][]float64 `json:"coef"`
	// Intercept 是每个类别的偏置项，长度等于类别数
	Intercept []float64 `json:"intercept"`
}

func (m *SoftmaxRegression) Name() string { return "logreg" }

// NumClasses 返回类别数。
func (m *SoftmaxRegression) NumClasses() int { return len(m.Coef) }

// NumFeatures 返回期望的特征维度。
func (m *SoftmaxRegression) NumFeatures() int {
	if len(m.Coef) == 0 {
		return 0
	}
	return len(m.Coef[0])
}

// PredictProba 计算每个类别的概率，顺序与类别下标一致。
func (m *SoftmaxRegression) PredictProba(x []float64) ([]float64, error) {
	if len(m.Coef) == 0 {
		return nil, fmt.Errorf("model has no coefficients")
	}
	if len(m.Intercept) != len(m.Coef) {
		return nil, fmt.Errorf("intercept length %d does not match %d classes",
			len(m.Intercept), len(m.Coef))
	}

	logits := make([]float64, len(m.Coef))
	for c, weights := range m.Coef {
		if len(weights) != len(x) {
			return nil, fmt.Errorf("class %d expects %d features, got %d",
				c, len(weights), len(x))
		}
		z := m.Intercept[c]
		for i, w := range weights {
			z += w * x[i]
		}
		logits[c] = z
	}

	// softmax：减去最大 logit 防止上溢
	maxLogit := logits[0]
	for _, z := range logits[1:] {
		if z > maxLogit {
			maxLogit = z
		}
	}
	var sum float64
	probs := make([]float64, len(logits))
	for c, z := range logits {
		probs[c] = math.Exp(z - maxLogit)
		sum += probs[c]
	}
	for c := range probs {
		probs[c] /= sum
	}
	return probs, nil
}
