package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// 工件文件名。一套训练产物固定包含四件：分类器、列变换器、
// 类别编码器词表、目标（作物名）词表。
const (
	FileClassifier  = "classifier.json"
	FileTransformer = "transformer.json"
	FileEncoders    = "encoders.json"
	FileLabels      = "labels.json"
)

// Bundle 聚合一次部署所需的全部预计算工件。
// 进程启动时加载一次，此后只读；任意并发的预测请求可共享同一 Bundle。
// 加载失败必须让进程拒绝启动，而不是带着缺失的工件对外服务。
type Bundle struct {
	Classifier  *SoftmaxRegression
	Transformer *ColumnTransformer
	// Encoders 按规范字段名（"state"、"soil_type"）索引类别编码器
	Encoders map[string]*LabelEncoder
	// Target 把分类器的类别下标解码为作物名
	Target *LabelEncoder
}

// LoadBundle 从目录加载四个工件文件并做维度一致性校验。
func LoadBundle(dir string) (*Bundle, error) {
	var classifier SoftmaxRegression
	if err := readJSON(filepath.Join(dir, FileClassifier), &classifier); err != nil {
		return nil, fmt.Errorf("load classifier: %w", err)
	}

	var transformer ColumnTransformer
	if err := readJSON(filepath.Join(dir, FileTransformer), &transformer); err != nil {
		return nil, fmt.Errorf("load transformer: %w", err)
	}

	var vocab map[string][]string
	if err := readJSON(filepath.Join(dir, FileEncoders), &vocab); err != nil {
		return nil, fmt.Errorf("load encoders: %w", err)
	}
	encoders := make(map[string]*LabelEncoder, len(vocab))
	for field, classes := range vocab {
		encoders[field] = NewLabelEncoder(field, classes)
	}

	var labels []string
	if err := readJSON(filepath.Join(dir, FileLabels), &labels); err != nil {
		return nil, fmt.Errorf("load labels: %w", err)
	}

	b := &Bundle{
		Classifier:  &classifier,
		Transformer: &transformer,
		Encoders:    encoders,
		Target:      NewLabelEncoder("crop", labels),
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("validate bundle: %w", err)
	}
	return b, nil
}

// Validate 校验各工件的维度彼此一致。
func (b *Bundle) Validate() error {
	if b.Classifier == nil || b.Transformer == nil || b.Target == nil {
		return fmt.Errorf("bundle is incomplete")
	}
	if b.Classifier.NumClasses() == 0 {
		return fmt.Errorf("classifier has no classes")
	}
	if b.Classifier.NumClasses() != b.Target.Len() {
		return fmt.Errorf("classifier has %d classes but target vocabulary has %d",
			b.Classifier.NumClasses(), b.Target.Len())
	}
	if b.Classifier.NumFeatures() != b.Transformer.Dim() {
		return fmt.Errorf("classifier expects %d features but transformer emits %d",
			b.Classifier.NumFeatures(), b.Transformer.Dim())
	}
	if len(b.Classifier.Intercept) != b.Classifier.NumClasses() {
		return fmt.Errorf("intercept length %d does not match %d classes",
			len(b.Classifier.Intercept), b.Classifier.NumClasses())
	}
	if _, ok := b.Encoders["state"]; !ok {
		return fmt.Errorf("missing state encoder")
	}
	return nil
}

// HasSoilEncoder 报告该 Bundle 是否包含土壤类型特征。
// 部分部署的训练产物不含 soil_type 列，两种布局都要支持。
func (b *Bundle) HasSoilEncoder() bool {
	_, ok := b.Encoders["soil_type"]
	return ok
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
