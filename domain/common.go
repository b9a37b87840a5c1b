package domain

import (
	"errors"
	"fmt"
)

// Bounds shared by cooking_time and ingredient amounts.
const (
	MinAmount = 1
	MaxAmount = 32000
)

var (
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MessageFailedAuthentication = "authentication credentials were not provided"

	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")

	ErrTokenNotFound = errors.New("failed to token not found")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("token invalid")
)

// Validation rules reported in ValidationError.Rule.
const (
	RuleImageRequired        = "image_required"
	RuleImageInvalid         = "image_invalid"
	RuleNameRequired         = "name_required"
	RuleTagsRequired         = "tags_required"
	RuleTagsDuplicate        = "tags_duplicate"
	RuleTagUnknown           = "tag_unknown"
	RuleIngredientsRequired  = "ingredients_required"
	RuleIngredientsDuplicate = "ingredients_duplicate"
	RuleIngredientUnknown    = "ingredient_unknown"
	RuleAmountOutOfRange     = "amount_out_of_range"
	RuleCookingTimeRange     = "cooking_time_out_of_range"
	RuleInvalidSlug          = "invalid_slug"
	RuleInvalidID            = "invalid_id"
)

// ValidationError names the input field and the rule it broke.
type ValidationError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func NewValidationError(field, rule, message string) *ValidationError {
	return &ValidationError{Field: field, Rule: rule, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidationRule reports whether err is a ValidationError for rule.
func IsValidationRule(err error, rule string) bool {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Rule == rule
	}
	return false
}
