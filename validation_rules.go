package llmprovider

import (
	"fmt"
)

// ModelValidationRule checks model-related warnings
type ModelValidationRule struct {
	registry *CapabilityRegistry
}

func (r *ModelValidationRule) Name() string {
	return "Model Validation"
}

// Check flags deployments that do not match a known base model. Azure
// deployment names are user-chosen, so this is informational only.
func (r *ModelValidationRule) Check(provider string, req *GenerateRequest) []ValidationWarning {
	var warnings []ValidationWarning

	if !r.registry.SupportsModel(provider, req.Model) {
		warnings = append(warnings, ValidationWarning{
			Code:     WarningCodeModelUnknown,
			Category: "model",
			Field:    "model",
			Value:    req.Model,
			Message:  fmt.Sprintf("Model %s not found in %s capabilities (custom deployment name or outdated capabilities)", req.Model, provider),
			Severity: SeverityInfo,
		})
	}

	return warnings
}

// ParameterValidationRule checks parameter range warnings
type ParameterValidationRule struct {
	registry *CapabilityRegistry
}

func (r *ParameterValidationRule) Name() string {
	return "Parameter Validation"
}

func (r *ParameterValidationRule) Check(provider string, req *GenerateRequest) []ValidationWarning {
	var warnings []ValidationWarning

	if req.Params == nil {
		return warnings
	}

	providerCaps, err := r.registry.GetProviderCapabilities(provider)
	if err != nil {
		// Can't check without capabilities
		return warnings
	}

	constraints := providerCaps.Constraints

	if req.Params.Temperature != nil {
		temp := *req.Params.Temperature
		if temp < constraints.TemperatureMin || temp > constraints.TemperatureMax {
			warnings = append(warnings, ValidationWarning{
				Code:     WarningCodeTemperatureOutOfRange,
				Category: "parameter",
				Field:    "temperature",
				Value:    temp,
				Message:  fmt.Sprintf("Temperature %.2f outside recommended range [%.2f, %.2f]", temp, constraints.TemperatureMin, constraints.TemperatureMax),
				Severity: SeverityWarning,
			})
		}
	}

	if req.Params.TopP != nil {
		topP := *req.Params.TopP
		if topP < constraints.TopPMin || topP > constraints.TopPMax {
			warnings = append(warnings, ValidationWarning{
				Code:     WarningCodeTopPOutOfRange,
				Category: "parameter",
				Field:    "top_p",
				Value:    topP,
				Message:  fmt.Sprintf("TopP %.2f outside recommended range [%.2f, %.2f]", topP, constraints.TopPMin, constraints.TopPMax),
				Severity: SeverityWarning,
			})
		}
	}

	if req.Params.MaxTokens != nil {
		if modelCap, err := r.registry.GetModelCapability(provider, req.Model); err == nil && modelCap.MaxOutputTokens > 0 {
			if *req.Params.MaxTokens > modelCap.MaxOutputTokens {
				warnings = append(warnings, ValidationWarning{
					Code:     WarningCodeMaxTokensTooHigh,
					Category: "parameter",
					Field:    "max_tokens",
					Value:    *req.Params.MaxTokens,
					Message:  fmt.Sprintf("max_tokens %d exceeds %s limit of %d", *req.Params.MaxTokens, req.Model, modelCap.MaxOutputTokens),
					Severity: SeverityError,
				})
			}
		}
	}

	return warnings
}

// DataSourceValidationRule checks that attached data sources are usable
type DataSourceValidationRule struct {
	registry *CapabilityRegistry
}

func (r *DataSourceValidationRule) Name() string {
	return "Data Source Validation"
}

func (r *DataSourceValidationRule) Check(provider string, req *GenerateRequest) []ValidationWarning {
	var warnings []ValidationWarning

	if len(req.DataSources) == 0 {
		return warnings
	}

	if r.registry.SupportsModel(provider, req.Model) && !r.registry.SupportsDataSources(provider, req.Model) {
		warnings = append(warnings, ValidationWarning{
			Code:     WarningCodeDataSourceUnsupported,
			Category: "data_source",
			Field:    "dataSources",
			Value:    req.Model,
			Message:  fmt.Sprintf("Model %s does not support data sources", req.Model),
			Severity: SeverityError,
		})
	}

	for i, ds := range req.DataSources {
		if ds.Type != DataSourceAzureCognitiveSearch {
			continue
		}
		for _, param := range []string{"endpoint", "key", "indexName"} {
			if ds.StringParam(param) == "" {
				warnings = append(warnings, ValidationWarning{
					Code:     WarningCodeDataSourceIncomplete,
					Category: "data_source",
					Field:    fmt.Sprintf("dataSources[%d].parameters.%s", i, param),
					Message:  fmt.Sprintf("Data source %d is missing %s", i, param),
					Severity: SeverityWarning,
				})
			}
		}
	}

	return warnings
}
