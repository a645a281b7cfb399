package llmprovider

import (
	"errors"
	"testing"
)

func TestValidateRequestParams_Temperature(t *testing.T) {
	tests := []struct {
		name        string
		temperature *float64
		wantErr     bool
	}{
		{"nil temperature is valid", nil, false},
		{"temperature 0.0", float64Ptr(0.0), false},
		{"temperature 0.5", float64Ptr(0.5), false},
		{"temperature 2.0", float64Ptr(2.0), false},
		{"temperature -0.1 is invalid", float64Ptr(-0.1), true},
		{"temperature 2.1 is invalid", float64Ptr(2.1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := &RequestParams{
				Temperature: tt.temperature,
			}
			err := ValidateRequestParams(params)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequestParams() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err != nil && !IsInvalidRequest(err) {
				t.Error("validation error should be classified as invalid request")
			}
		})
	}
}

func TestValidateRequestParams_TopP(t *testing.T) {
	tests := []struct {
		name    string
		topP    *float64
		wantErr bool
	}{
		{"nil topP is valid", nil, false},
		{"topP 0.0", float64Ptr(0.0), false},
		{"topP 1.0", float64Ptr(1.0), false},
		{"topP -0.1 is invalid", float64Ptr(-0.1), true},
		{"topP 1.1 is invalid", float64Ptr(1.1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequestParams(&RequestParams{TopP: tt.topP})
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequestParams() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRequestParams_MaxTokens(t *testing.T) {
	err := ValidateRequestParams(&RequestParams{MaxTokens: intPtr(0)})

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Field != "max_tokens" {
		t.Errorf("Field = %q, want max_tokens", validationErr.Field)
	}
	if !errors.Is(err, ErrInvalidRequest) {
		t.Error("expected ErrInvalidRequest in chain")
	}

	if err := ValidateRequestParams(&RequestParams{MaxTokens: intPtr(1000)}); err != nil {
		t.Errorf("max_tokens 1000 should be valid: %v", err)
	}
}

func TestValidateRequestParams_Nil(t *testing.T) {
	if err := ValidateRequestParams(nil); err != nil {
		t.Errorf("nil params should be valid, got %v", err)
	}
}

func TestRequestParams_Defaults(t *testing.T) {
	var nilParams *RequestParams
	if got := nilParams.GetMaxTokens(1000); got != 1000 {
		t.Errorf("GetMaxTokens on nil = %d, want 1000", got)
	}
	if got := nilParams.GetTemperature(0.5); got != 0.5 {
		t.Errorf("GetTemperature on nil = %f, want 0.5", got)
	}

	params := &RequestParams{MaxTokens: intPtr(200), Temperature: float64Ptr(0.1)}
	if got := params.GetMaxTokens(1000); got != 200 {
		t.Errorf("GetMaxTokens = %d, want 200", got)
	}
	if got := params.GetTemperature(0.5); got != 0.1 {
		t.Errorf("GetTemperature = %f, want 0.1", got)
	}
}

func TestGetRequestParamStruct(t *testing.T) {
	params, err := GetRequestParamStruct(map[string]interface{}{
		"temperature": 0.5,
		"max_tokens":  1000,
		"stop":        []string{"END"},
	})
	if err != nil {
		t.Fatalf("GetRequestParamStruct() error = %v", err)
	}

	if params.Temperature == nil || *params.Temperature != 0.5 {
		t.Errorf("Temperature = %v, want 0.5", params.Temperature)
	}
	if params.MaxTokens == nil || *params.MaxTokens != 1000 {
		t.Errorf("MaxTokens = %v, want 1000", params.MaxTokens)
	}
	if len(params.Stop) != 1 || params.Stop[0] != "END" {
		t.Errorf("Stop = %v, want [END]", params.Stop)
	}

	empty, err := GetRequestParamStruct(nil)
	if err != nil || empty == nil {
		t.Errorf("nil map should yield empty params, got %v, %v", empty, err)
	}
}
