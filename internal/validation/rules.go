// Package validation provides custom validation rules for the application.
package validation

import (
	"path/filepath"
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/devicekey/internal/errors"
)

var (
	// metricNameRegex is the Prometheus metric name grammar.
	metricNameRegex = regexp.MustCompile(`^[a-zA-Z_:][a-zA-Z0-9_:]*$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not have leading or trailing whitespace"),
)

// MetricName validates a Prometheus metric name prefix.
var MetricName = validation.NewStringRuleWithError(
	metricNameRegex.MatchString,
	validation.NewError("validation_metric_name", "must be a valid metric name"),
)

// AbsolutePath validates that a string is an absolute filesystem path.
var AbsolutePath = validation.NewStringRuleWithError(
	filepath.IsAbs,
	validation.NewError("validation_absolute_path", "must be an absolute path"),
)
