package model

import (
	"reflect"
	"testing"

	"github.com/rushteam/agrikit/core"
)

var indianStates = []string{
	"Punjab", "Rajasthan", "Gujarat", "Karnataka", "Andhra Pradesh",
	"Uttar Pradesh", "Maharashtra", "Jammu And Kashmir", "West Bengal",
}

func TestLabelEncoder_Encode(t *testing.T) {
	enc := NewLabelEncoder("state", indianStates)

	tests := []struct {
		value    string
		wantCode int
		wantErr  bool
	}{
		{value: "Punjab", wantCode: 0},
		{value: "West Bengal", wantCode: 8},
		{value: "Atlantis", wantErr: true},
		{value: "punjab", wantErr: true}, // 大小写敏感，归一化是上游的职责
		{value: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			code, err := enc.Encode(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Encode(%q) = %d, want error", tt.value, code)
				}
				return
			}
			if err != nil {
				t.Fatalf("Encode(%q): %v", tt.value, err)
			}
			if code != tt.wantCode {
				t.Errorf("Encode(%q) = %d, want %d", tt.value, code, tt.wantCode)
			}
		})
	}
}

func TestLabelEncoder_UnknownCategoryCarriesAllowedValues(t *testing.T) {
	enc := NewLabelEncoder("state", indianStates)

	_, err := enc.Encode("Atlantis")
	domainErr := core.GetDomainError(err)
	if domainErr == nil {
		t.Fatalf("error = %v, want DomainError", err)
	}
	if domainErr.Code != core.ErrorCodeUnknownCategory {
		t.Errorf("code = %s, want UNKNOWN_CATEGORY", domainErr.Code)
	}
	if domainErr.Field != "state" || domainErr.Value != "Atlantis" {
		t.Errorf("field/value = %s/%s", domainErr.Field, domainErr.Value)
	}
	if !reflect.DeepEqual(domainErr.Allowed, indianStates) {
		t.Errorf("allowed = %v, want full vocabulary", domainErr.Allowed)
	}
	if !core.IsValidation(err) {
		t.Errorf("UNKNOWN_CATEGORY must classify as validation error")
	}
}

func TestLabelEncoder_RoundTrip(t *testing.T) {
	enc := NewLabelEncoder("crop", []string{"Rice", "Wheat", "Maize"})
	for i, want := range enc.Classes {
		got, err := enc.Decode(i)
		if err != nil {
			t.Fatalf("Decode(%d): %v", i, err)
		}
		if got != want {
			t.Errorf("Decode(%d) = %q, want %q", i, got, want)
		}
	}
	if _, err := enc.Decode(3); err == nil {
		t.Errorf("Decode(3) succeeded, want out-of-range error")
	}
	if _, err := enc.Decode(-1); err == nil {
		t.Errorf("Decode(-1) succeeded, want out-of-range error")
	}
}
