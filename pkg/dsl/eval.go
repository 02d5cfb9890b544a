package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/agrikit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量和函数
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		// 定义变量类型
		cel.Variable("crop", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("record", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Eval 是排序结果过滤表达式的解释器，使用 CEL (Common Expression Language) 实现。
// CEL 是 Google 开发的表达式语言，具有类型安全、高性能、线程安全等特性。
//
// 表达式语法（CEL 标准语法）：
//   - 数值：crop.score > 0.5 / crop.score >= 0.9
//   - 名称：crop.name == "Rice" / crop.name != "Mustard"
//   - 标签：label.rank_model == "rules"
//   - 记录：record.state == "Punjab" && crop.score > 0.7
//
// 示例：
//   - `crop.score >= 0.5` → 过滤掉低分作物
//   - `label.state_bonus != null` → 只保留命中了地区加成的作物
type Eval struct {
	score  *core.CropScore
	record *core.FeatureRecord
	env    *cel.Env
}

// NewEval 创建一个新的表达式解释器。
func NewEval(score *core.CropScore, record *core.FeatureRecord) *Eval {
	env, _ := getCELEnv()
	return &Eval{
		score:  score,
		record: record,
		env:    env,
	}
}

// Evaluate 解析并执行表达式，返回布尔结果。
// 空表达式恒为 true。不存在的 label key 用 `label.key != null` 检查存在性。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}
	if e.env == nil {
		return false, fmt.Errorf("cel env not initialized")
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program error: %v", err)
	}

	out, _, err := prg.Eval(e.buildInput())
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func (e *Eval) buildInput() map[string]interface{} {
	// label.xxx 直接访问 Label.Value；CEL 访问不存在的 key 会报错，
	// 存在性检查用 label.key != null
	labelAccessor := make(map[string]interface{})
	if e.score != nil {
		for k, v := range e.score.Labels {
			labelAccessor[k] = v.Value
		}
	}

	crop := map[string]interface{}{}
	if e.score != nil {
		crop["name"] = e.score.Crop
		crop["score"] = e.score.Score
	}

	record := map[string]interface{}{}
	if e.record != nil {
		record = map[string]interface{}{
			"nitrogen":    e.record.Nitrogen,
			"phosphorus":  e.record.Phosphorus,
			"potassium":   e.record.Potassium,
			"temperature": e.record.Temperature,
			"humidity":    e.record.Humidity,
			"ph":          e.record.PH,
			"rainfall":    e.record.Rainfall,
			"state":       e.record.State,
			"soil_type":   e.record.SoilType,
			"land_area":   e.record.LandArea,
		}
	}

	return map[string]interface{}{
		"crop":   crop,
		"label":  labelAccessor,
		"record": record,
	}
}
