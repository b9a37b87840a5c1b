package utils

import (
	"testing"

	"Foodgram-Backend/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorUsesJSONFieldNames(t *testing.T) {
	v := NewValidator()

	err := v.Struct(domain.RegisterRequest{})
	require.Error(t, err)

	fields := ValidationErrors(err)
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}
	assert.Contains(t, names, "email")
	assert.Contains(t, names, "first_name")
	assert.Contains(t, names, "password")
}

func TestUsernameRule(t *testing.T) {
	v := NewValidator()
	base := domain.RegisterRequest{
		Email:     "cook@example.com",
		FirstName: "Ann",
		LastName:  "Cook",
		Password:  "secret-pass",
	}

	tests := []struct {
		username string
		valid    bool
	}{
		{"chef.ann", true},
		{"ann+cook@home", true},
		{"me", false},
		{"ME", false},
		{"bad name", false},
		{"semi;colon", false},
	}
	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			req := base
			req.Username = tt.username
			err := v.Struct(req)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, "username", ValidationErrors(err)[0].Field)
		})
	}
}

func TestRecipeIngredientsAreValidated(t *testing.T) {
	v := NewValidator()
	req := domain.RecipeRequest{
		Name: "Crepes",
		Text: "Whisk and fry.",
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: "4b2a3f9e-0c1d-4e5f-8a9b-0c1d2e3f4a5b", Amount: 10},
			{Amount: 20},
		},
	}

	err := v.Struct(req)
	require.Error(t, err)
	fields := ValidationErrors(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "id", fields[0].Field)
	assert.Equal(t, "id is required", fields[0].Msg)

	req.Ingredients[1].ID = "4b2a3f9e-0c1d-4e5f-8a9b-0c1d2e3f4a5c"
	assert.NoError(t, v.Struct(req))
}

func TestValidationErrorsIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, ValidationErrors(domain.ErrRecipeNotFound))
}
