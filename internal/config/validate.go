package config

import (
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidationResult holds the results of option validation
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []ValidationError
}

// ValidateOptions inspects a raw option map. Normalization never fails, so
// anything it would silently ignore or coerce is reported as a warning.
func ValidateOptions(opts map[string]any) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	// sorted for stable output
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := opts[key]

		o, ok := LookupOption(key)
		if !ok {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   key,
				Message: "Unknown option, ignored",
			})
			continue
		}

		if key == o.Legacy {
			if canonical, ok := opts[o.Key]; ok && canonical != nil {
				if !reflect.DeepEqual(canonical, value) {
					result.Warnings = append(result.Warnings, ValidationError{
						Field:   key,
						Message: fmt.Sprintf("Overridden by %s", o.Key),
					})
				}
				continue
			}
		}

		validateValue(key, o, value, result)
	}

	return result
}

func validateValue(key string, o Option, value any, result *ValidationResult) {
	if value == nil {
		return
	}

	switch o.Kind {
	case "bool":
		switch v := value.(type) {
		case bool:
		case string:
			if !strings.EqualFold(v, "true") && !strings.EqualFold(v, "false") {
				result.Warnings = append(result.Warnings, ValidationError{
					Field:   key,
					Message: fmt.Sprintf("Value %q is not a boolean, treated as false", v),
				})
			}
		default:
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   key,
				Message: fmt.Sprintf("Value of type %T is not a boolean, treated as false", value),
			})
		}
	case "string":
		if _, ok := stringValue(value); !ok {
			result.Valid = false
			result.Errors = append(result.Errors, ValidationError{
				Field:   key,
				Message: fmt.Sprintf("Value of type %T cannot be used as a string", value),
			})
		}
	}
}

// ValidateOptionsFile loads and validates an option file
func ValidateOptionsFile(path string) (*ValidationResult, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("option file does not exist: %s", path)
	}

	opts, err := LoadOptions(path)
	if err != nil {
		return &ValidationResult{
			Valid:    false,
			Errors:   []ValidationError{{Message: err.Error()}},
			Warnings: []ValidationError{},
		}, nil
	}

	return ValidateOptions(opts), nil
}
