package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Band 是单个农艺参数的适宜区间与权重。
type Band struct {
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	Weight float64 `yaml:"weight"`
}

// CropRequirements 是一种作物的打分表：按参数名索引的适宜区间。
// 表中未出现的参数不参与打分，也不计入权重和。
type CropRequirements struct {
	Crop            string          `yaml:"crop"`
	Params          map[string]Band `yaml:"params"`
	PreferredStates []string        `yaml:"preferred_states,omitempty"`
}

// Table 是完整的规则表：作物按声明顺序排列，同分时该顺序即平局顺序。
type Table struct {
	Crops []CropRequirements `yaml:"crops"`
}

// DefaultTable 返回内置规则表。
// 这些区间、权重、地区偏好是领域常量（基于农艺研究），不是可推导参数；
// 数值必须逐字保持，打分结果才能与既有部署对齐。
func DefaultTable() *Table {
	return &Table{Crops: []CropRequirements{
		{
			Crop: "Rice",
			Params: map[string]Band{
				"N":           {Min: 80, Max: 120, Weight: 0.15},
				"P":           {Min: 30, Max: 60, Weight: 0.1},
				"K":           {Min: 40, Max: 80, Weight: 0.1},
				"ph":          {Min: 5.5, Max: 6.8, Weight: 0.15},
				"temperature": {Min: 22, Max: 32, Weight: 0.2},
				"humidity":    {Min: 70, Max: 90, Weight: 0.15},
				"rainfall":    {Min: 200, Max: 300, Weight: 0.25},
			},
			PreferredStates: []string{"West Bengal", "Andhra Pradesh", "Punjab"},
		},
		{
			Crop: "Wheat",
			Params: map[string]Band{
				"N":           {Min: 60, Max: 100, Weight: 0.2},
				"P":           {Min: 30, Max: 60, Weight: 0.1},
				"K":           {Min: 25, Max: 50, Weight: 0.1},
				"ph":          {Min: 6.0, Max: 7.5, Weight: 0.1},
				"temperature": {Min: 15, Max: 25, Weight: 0.2},
				"humidity":    {Min: 40, Max: 65, Weight: 0.1},
				"rainfall":    {Min: 75, Max: 150, Weight: 0.2},
			},
			PreferredStates: []string{"Punjab", "Uttar Pradesh", "Rajasthan"},
		},
		{
			Crop: "Maize",
			Params: map[string]Band{
				"N":           {Min: 50, Max: 90, Weight: 0.15},
				"P":           {Min: 25, Max: 45, Weight: 0.1},
				"K":           {Min: 40, Max: 80, Weight: 0.15},
				"ph":          {Min: 5.8, Max: 7.0, Weight: 0.1},
				"temperature": {Min: 20, Max: 30, Weight: 0.2},
				"humidity":    {Min: 50, Max: 75, Weight: 0.1},
				"rainfall":    {Min: 150, Max: 250, Weight: 0.2},
			},
			PreferredStates: []string{"Karnataka", "Rajasthan", "Punjab"},
		},
		{
			Crop: "Cotton",
			Params: map[string]Band{
				"N":           {Min: 40, Max: 80, Weight: 0.1},
				"P":           {Min: 20, Max: 40, Weight: 0.1},
				"K":           {Min: 50, Max: 70, Weight: 0.15},
				"ph":          {Min: 6.0, Max: 8.0, Weight: 0.1},
				"temperature": {Min: 25, Max: 35, Weight: 0.25},
				"humidity":    {Min: 40, Max: 70, Weight: 0.1},
				"rainfall":    {Min: 150, Max: 200, Weight: 0.2},
			},
			PreferredStates: []string{"Gujarat", "Maharashtra", "Punjab"},
		},
		{
			Crop: "Chickpea",
			Params: map[string]Band{
				"N":           {Min: 20, Max: 40, Weight: 0.1},
				"P":           {Min: 30, Max: 60, Weight: 0.15},
				"K":           {Min: 20, Max: 40, Weight: 0.1},
				"ph":          {Min: 6.0, Max: 8.0, Weight: 0.1},
				"temperature": {Min: 18, Max: 28, Weight: 0.15},
				"humidity":    {Min: 30, Max: 60, Weight: 0.15},
				"rainfall":    {Min: 60, Max: 150, Weight: 0.25},
			},
			PreferredStates: []string{"Rajasthan", "Maharashtra", "Punjab"},
		},
		{
			Crop: "Sugarcane",
			Params: map[string]Band{
				"N":           {Min: 80, Max: 150, Weight: 0.15},
				"P":           {Min: 40, Max: 80, Weight: 0.1},
				"K":           {Min: 80, Max: 150, Weight: 0.15},
				"ph":          {Min: 6.0, Max: 7.5, Weight: 0.1},
				"temperature": {Min: 20, Max: 35, Weight: 0.2},
				"humidity":    {Min: 70, Max: 90, Weight: 0.1},
				"rainfall":    {Min: 200, Max: 300, Weight: 0.2},
			},
			PreferredStates: []string{"Uttar Pradesh", "Maharashtra", "Karnataka"},
		},
		{
			Crop: "Potato",
			Params: map[string]Band{
				"N":           {Min: 60, Max: 120, Weight: 0.15},
				"P":           {Min: 50, Max: 100, Weight: 0.15},
				"K":           {Min: 80, Max: 120, Weight: 0.15},
				"ph":          {Min: 5.5, Max: 6.5, Weight: 0.15},
				"temperature": {Min: 15, Max: 25, Weight: 0.15},
				"humidity":    {Min: 60, Max: 80, Weight: 0.1},
				"rainfall":    {Min: 120, Max: 180, Weight: 0.15},
			},
		},
		{
			Crop: "Mustard",
			Params: map[string]Band{
				"N":           {Min: 40, Max: 80, Weight: 0.15},
				"P":           {Min: 20, Max: 50, Weight: 0.15},
				"K":           {Min: 20, Max: 50, Weight: 0.15},
				"ph":          {Min: 6.0, Max: 7.5, Weight: 0.1},
				"temperature": {Min: 15, Max: 25, Weight: 0.2},
				"humidity":    {Min: 50, Max: 70, Weight: 0.1},
				"rainfall":    {Min: 80, Max: 160, Weight: 0.15},
			},
		},
	}}
}

// LoadTable 从 YAML 文件加载规则表（运维层覆盖内置表用）。
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate 做规则表的结构校验。
func (t *Table) Validate() error {
	if len(t.Crops) == 0 {
		return fmt.Errorf("rules table has no crops")
	}
	seen := make(map[string]bool, len(t.Crops))
	for _, c := range t.Crops {
		if c.Crop == "" {
			return fmt.Errorf("crop with empty name")
		}
		if seen[c.Crop] {
			return fmt.Errorf("duplicate crop %q", c.Crop)
		}
		seen[c.Crop] = true
		for param, band := range c.Params {
			if band.Max <= band.Min {
				return fmt.Errorf("crop %s param %s: max must be greater than min", c.Crop, param)
			}
			if band.Weight <= 0 {
				return fmt.Errorf("crop %s param %s: weight must be positive", c.Crop, param)
			}
		}
	}
	return nil
}
