package feature

import (
	"math"
	"testing"

	"github.com/rushteam/agrikit/core"
)

func validPayload() map[string]any {
	return map[string]any{
		"N": 90.0, "P": 42.0, "K": 43.0,
		"temperature": 24.5, "humidity": 82.0,
		"ph": 6.5, "rainfall": 202.9,
		"state": "Punjab",
	}
}

func TestMapper_Map(t *testing.T) {
	tests := []struct {
		name      string
		raw       map[string]any
		wantErr   string // 期望的错误代码；空表示成功
		wantField string
		check     func(t *testing.T, r *core.FeatureRecord)
	}{
		{
			name: "canonical field names",
			raw:  validPayload(),
			check: func(t *testing.T, r *core.FeatureRecord) {
				if r.Nitrogen != 90 || r.PH != 6.5 || r.State != "Punjab" {
					t.Errorf("record = %+v", r)
				}
				if r.LandArea != 1.0 {
					t.Errorf("default land area = %v, want 1.0", r.LandArea)
				}
			},
		},
		{
			name: "aliased field names",
			raw: map[string]any{
				"nitrogen": 90.0, "phosphorus": 42.0, "potassium": 43.0,
				"Temperature": 24.5, "Humidity": 82.0,
				"pH": 6.5, "Rainfall": 202.9,
				"State": "punjab", "Soil Type": "loamy", "land_area": 2.5,
			},
			check: func(t *testing.T, r *core.FeatureRecord) {
				if r.Nitrogen != 90 || r.PH != 6.5 {
					t.Errorf("record = %+v", r)
				}
				if r.State != "Punjab" {
					t.Errorf("state = %q, want Punjab", r.State)
				}
				if r.SoilType != "Loamy" {
					t.Errorf("soil type = %q, want Loamy", r.SoilType)
				}
				if r.LandArea != 2.5 {
					t.Errorf("land area = %v, want 2.5", r.LandArea)
				}
			},
		},
		{
			name: "numeric strings are parsed",
			raw: map[string]any{
				"N": "90", "P": "42", "K": "43",
				"temperature": "24.5", "humidity": "82",
				"ph": "6.5", "rainfall": "202.9",
				"state": "Punjab",
			},
			check: func(t *testing.T, r *core.FeatureRecord) {
				if r.Rainfall != 202.9 {
					t.Errorf("rainfall = %v, want 202.9", r.Rainfall)
				}
			},
		},
		{
			name: "missing nitrogen",
			raw: func() map[string]any {
				m := validPayload()
				delete(m, "N")
				return m
			}(),
			wantErr: core.ErrorCodeMissingField, wantField: "N",
		},
		{
			name: "missing state",
			raw: func() map[string]any {
				m := validPayload()
				delete(m, "state")
				return m
			}(),
			wantErr: core.ErrorCodeMissingField, wantField: "state",
		},
		{
			name: "non-numeric humidity",
			raw: func() map[string]any {
				m := validPayload()
				m["humidity"] = "wet"
				return m
			}(),
			wantErr: core.ErrorCodeInvalidType, wantField: "humidity",
		},
		{
			name: "blank state",
			raw: func() map[string]any {
				m := validPayload()
				m["state"] = "   "
				return m
			}(),
			wantErr: core.ErrorCodeInvalidType, wantField: "state",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Mapper
			record, err := m.Map(tt.raw)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Map: %v", err)
				}
				tt.check(t, record)
				return
			}
			domainErr := core.GetDomainError(err)
			if domainErr == nil {
				t.Fatalf("Map error = %v, want DomainError %s", err, tt.wantErr)
			}
			if domainErr.Code != tt.wantErr || domainErr.Field != tt.wantField {
				t.Errorf("got %s/%s, want %s/%s",
					domainErr.Code, domainErr.Field, tt.wantErr, tt.wantField)
			}
		})
	}
}

func TestMapper_RequireSoilType(t *testing.T) {
	m := Mapper{RequireSoilType: true}
	_, err := m.Map(validPayload())
	domainErr := core.GetDomainError(err)
	if domainErr == nil || domainErr.Code != core.ErrorCodeMissingField || domainErr.Field != "soil_type" {
		t.Fatalf("Map error = %v, want MISSING_FIELD soil_type", err)
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"punjab", "Punjab"},
		{"PUNJAB", "Punjab"},
		{"  west bengal ", "West Bengal"},
		{"jammu and kashmir", "Jammu And Kashmir"},
		{"Loamy", "Loamy"},
		// 多字节首字符按 rune 处理；无大小写概念的文字原样保留
		{"ærø clay", "Ærø Clay"},
		{"黑土", "黑土"},
	}
	for _, tt := range tests {
		got := TitleCase(tt.in)
		if got != tt.want {
			t.Errorf("TitleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
		// 幂等：再做一次不变
		if again := TitleCase(got); again != got {
			t.Errorf("TitleCase not idempotent: %q -> %q", got, again)
		}
	}
}

func TestValidateRecord(t *testing.T) {
	base := func() *core.FeatureRecord {
		return &core.FeatureRecord{
			Nitrogen: 90, Phosphorus: 42, Potassium: 43,
			Temperature: 24.5, Humidity: 82, PH: 6.5, Rainfall: 202.9,
			State: "Punjab", LandArea: 1,
		}
	}

	tests := []struct {
		name    string
		mutate  func(r *core.FeatureRecord)
		wantErr string
	}{
		{name: "valid", mutate: func(r *core.FeatureRecord) {}},
		{name: "ph above 14", mutate: func(r *core.FeatureRecord) { r.PH = 15 },
			wantErr: core.ErrorCodeOutOfRange},
		{name: "ph below 0", mutate: func(r *core.FeatureRecord) { r.PH = -0.1 },
			wantErr: core.ErrorCodeOutOfRange},
		{name: "ph boundary 0 and 14 are legal", mutate: func(r *core.FeatureRecord) { r.PH = 14 }},
		{name: "negative nitrogen", mutate: func(r *core.FeatureRecord) { r.Nitrogen = -1 },
			wantErr: core.ErrorCodeOutOfRange},
		{name: "negative phosphorus", mutate: func(r *core.FeatureRecord) { r.Phosphorus = -1 },
			wantErr: core.ErrorCodeOutOfRange},
		{name: "negative potassium", mutate: func(r *core.FeatureRecord) { r.Potassium = -1 },
			wantErr: core.ErrorCodeOutOfRange},
		{name: "nan temperature", mutate: func(r *core.FeatureRecord) { r.Temperature = math.NaN() },
			wantErr: core.ErrorCodeInvalidType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := base()
			tt.mutate(record)
			err := ValidateRecord(record)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateRecord: %v", err)
				}
				return
			}
			domainErr := core.GetDomainError(err)
			if domainErr == nil || domainErr.Code != tt.wantErr {
				t.Errorf("ValidateRecord error = %v, want %s", err, tt.wantErr)
			}
		})
	}
}
