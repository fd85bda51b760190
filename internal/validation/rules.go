// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/gatekeeper/internal/errors"
)

// policyNameRegex restricts policy names to a URL-safe slug form.
var policyNameRegex = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// PolicyName validates that a string is a lowercase slug usable as a policy
// name in URLs and endpoint metadata.
var PolicyName = validation.NewStringRuleWithError(
	func(s string) bool {
		return policyNameRegex.MatchString(s)
	},
	validation.NewError(
		"validation_policy_name",
		"must be a lowercase slug (letters, digits, hyphens, underscores)",
	),
)
