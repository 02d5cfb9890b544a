package model

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeArtifacts(t *testing.T, dir string, files map[string]any) {
	t.Helper()
	for name, v := range files {
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal %s: %v", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func validArtifacts() map[string]any {
	columns := []Column{
		{Name: "N", Scale: "standard", Mean: 50, Std: 10},
		{Name: "P", Scale: "standard", Mean: 50, Std: 10},
		{Name: "state_code", Scale: "passthrough"},
	}
	return map[string]any{
		FileClassifier: SoftmaxRegression{
			Coef:      [][]float64{{1, 0, 0}, {0, 1, 0}},
			Intercept: []float64{0, 0},
		},
		FileTransformer: ColumnTransformer{Columns: columns},
		FileEncoders: map[string][]string{
			"state": {"Punjab", "West Bengal"},
		},
		FileLabels: []string{"Rice", "Wheat"},
	}
}

func TestLoadBundle(t *testing.T) {
	dir := t.TempDir()
	writeArtifacts(t, dir, validArtifacts())

	b, err := LoadBundle(dir)
	if err != nil {
		t.Fatalf("LoadBundle: %v", err)
	}
	if b.Target.Len() != 2 || b.Classifier.NumClasses() != 2 {
		t.Errorf("classes = %d/%d, want 2/2", b.Target.Len(), b.Classifier.NumClasses())
	}
	if b.HasSoilEncoder() {
		t.Errorf("HasSoilEncoder = true, want false")
	}
	if !b.Encoders["state"].Contains("Punjab") {
		t.Errorf("state encoder missing Punjab")
	}
}

func TestLoadBundle_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(files map[string]any)
	}{
		{
			name:   "missing classifier file",
			mutate: func(files map[string]any) { delete(files, FileClassifier) },
		},
		{
			name: "class count mismatch",
			mutate: func(files map[string]any) {
				files[FileLabels] = []string{"Rice", "Wheat", "Maize"}
			},
		},
		{
			name: "feature dimension mismatch",
			mutate: func(files map[string]any) {
				files[FileTransformer] = ColumnTransformer{Columns: []Column{
					{Name: "N", Scale: "passthrough"},
				}}
			},
		},
		{
			name: "missing state encoder",
			mutate: func(files map[string]any) {
				files[FileEncoders] = map[string][]string{}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := validArtifacts()
			tt.mutate(files)

			dir := t.TempDir()
			writeArtifacts(t, dir, files)
			if _, err := LoadBundle(dir); err == nil {
				t.Errorf("LoadBundle succeeded, want error")
			}
		})
	}
}
