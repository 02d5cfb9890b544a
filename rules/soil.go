package rules

// NutrientStatus 是五档养分水位。
type NutrientStatus string

const (
	StatusVeryLow  NutrientStatus = "Very Low"
	StatusLow      NutrientStatus = "Low"
	StatusMedium   NutrientStatus = "Medium"
	StatusHigh     NutrientStatus = "High"
	StatusVeryHigh NutrientStatus = "Very High"
)

// PHStatus 是五档酸碱度水位。
type PHStatus string

const (
	PHHighlyAcidic   PHStatus = "Highly Acidic"
	PHAcidic         PHStatus = "Acidic"
	PHNeutral        PHStatus = "Neutral"
	PHAlkaline       PHStatus = "Alkaline"
	PHHighlyAlkaline PHStatus = "Highly Alkaline"
)

// SoilAnalysis 是基于 NPK 与 pH 的土壤分档及施肥建议，
// 随推荐结果一并返回，帮助使用者理解土壤本身的短板。
type SoilAnalysis struct {
	Status struct {
		Nitrogen   NutrientStatus `json:"nitrogen"`
		Phosphorus NutrientStatus `json:"phosphorus"`
		Potassium  NutrientStatus `json:"potassium"`
		PH         PHStatus       `json:"ph"`
	} `json:"status"`
	Recommendations struct {
		Nitrogen   string `json:"nitrogen"`
		Phosphorus string `json:"phosphorus"`
		Potassium  string `json:"potassium"`
		PH         string `json:"ph"`
	} `json:"recommendations"`
}

// AnalyzeSoil 对氮磷钾与 pH 做阈值分档并给出对应施肥建议。
// 各阈值是既定的农艺分档常量，分档完全确定性。
func AnalyzeSoil(n, p, k, ph float64) *SoilAnalysis {
	a := &SoilAnalysis{}
	a.Status.Nitrogen = bandStatus(n, 30, 50, 80, 120)
	a.Status.Phosphorus = bandStatus(p, 20, 40, 60, 80)
	a.Status.Potassium = bandStatus(k, 30, 50, 80, 120)
	a.Status.PH = phStatus(ph)

	a.Recommendations.Nitrogen = nutrientAdvice(a.Status.Nitrogen,
		"Apply nitrogen-rich fertilizers like urea or ammonium sulfate.",
		"Reduce nitrogen application. Consider crops that can utilize excess nitrogen.",
		"Maintain current nitrogen levels with balanced fertilizer application.")
	a.Recommendations.Phosphorus = nutrientAdvice(a.Status.Phosphorus,
		"Apply phosphate fertilizers like DAP or superphosphate.",
		"Reduce phosphorus application to prevent runoff issues.",
		"Maintain current phosphorus levels with balanced fertilizer application.")
	a.Recommendations.Potassium = nutrientAdvice(a.Status.Potassium,
		"Apply potassium-rich fertilizers like potassium chloride or potassium sulfate.",
		"Reduce potassium application. Your soil has sufficient reserves.",
		"Maintain current potassium levels with balanced fertilizer application.")

	switch a.Status.PH {
	case PHAcidic, PHHighlyAcidic:
		a.Recommendations.PH = "Apply agricultural lime to raise soil pH. Consider crops tolerant to acidic conditions."
	case PHAlkaline, PHHighlyAlkaline:
		a.Recommendations.PH = "Apply sulfur or gypsum to lower soil pH. Consider crops tolerant to alkaline conditions."
	default:
		a.Recommendations.PH = "Maintain current pH levels. Most crops thrive in this pH range."
	}
	return a
}

func bandStatus(v, t1, t2, t3, t4 float64) NutrientStatus {
	switch {
	case v < t1:
		return StatusVeryLow
	case v < t2:
		return StatusLow
	case v < t3:
		return StatusMedium
	case v < t4:
		return StatusHigh
	default:
		return StatusVeryHigh
	}
}

func phStatus(v float64) PHStatus {
	switch {
	case v < 4.5:
		return PHHighlyAcidic
	case v < 6.0:
		return PHAcidic
	case v < 7.5:
		return PHNeutral
	case v < 9.0:
		return PHAlkaline
	default:
		return PHHighlyAlkaline
	}
}

func nutrientAdvice(status NutrientStatus, low, high, balanced string) string {
	switch status {
	case StatusLow, StatusVeryLow:
		return low
	case StatusHigh, StatusVeryHigh:
		return high
	default:
		return balanced
	}
}
