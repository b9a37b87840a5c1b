package domain

import (
	"fmt"
	"time"
)

var (
	MessageSuccessGetRecipes          = "success get recipes"
	MessageSuccessGetRecipeDetail     = "success get recipe detail"
	MessageSuccessCreateRecipe        = "recipe created successfully"
	MessageSuccessUpdateRecipe        = "recipe updated successfully"
	MessageSuccessDeleteRecipe        = "recipe deleted successfully"
	MessageSuccessAddFavorite         = "recipe added to favorites"
	MessageSuccessRemoveFavorite      = "recipe removed from favorites"
	MessageSuccessAddShoppingCart     = "recipe added to shopping cart"
	MessageSuccessRemoveShoppingCart  = "recipe removed from shopping cart"
	MessageFailedGetRecipes           = "failed to get recipes"
	MessageFailedGetRecipeDetail      = "failed to get recipe detail"
	MessageFailedCreateRecipe         = "failed to create recipe"
	MessageFailedUpdateRecipe         = "failed to update recipe"
	MessageFailedDeleteRecipe         = "failed to delete recipe"
	MessageFailedAddFavorite          = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite       = "failed to remove recipe from favorites"
	MessageFailedAddShoppingCart      = "failed to add recipe to shopping cart"
	MessageFailedRemoveShoppingCart   = "failed to remove recipe from shopping cart"
	MessageFailedDownloadShoppingCart = "failed to download shopping cart"
	MessageShoppingListHeader         = "Shopping list"
	MessageShoppingListColumns        = "Ingredient - Measurement unit - Amount"
	ShoppingListFilename              = "shopping_cart.txt"

	ErrRecipeNotFound            = fmt.Errorf("%w: recipe not found", ErrNotFound)
	ErrUnauthorizedRecipeAccess  = fmt.Errorf("%w: only the author can change this recipe", ErrForbidden)
	ErrRecipeAlreadyFavorited    = fmt.Errorf("%w: recipe is already in favorites", ErrAlreadyExists)
	ErrRecipeNotFavorited        = fmt.Errorf("%w: recipe is not in favorites", ErrNotFound)
	ErrRecipeAlreadyInCart       = fmt.Errorf("%w: recipe is already in shopping cart", ErrAlreadyExists)
	ErrRecipeNotInCart           = fmt.Errorf("%w: recipe is not in shopping cart", ErrNotFound)
	ErrDuplicateRecipeIngredient = fmt.Errorf("%w: ingredient listed twice for recipe", ErrAlreadyExists)
)

type (
	RecipeIngredientRequest struct {
		ID     string `json:"id" validate:"required"`
		Amount int    `json:"amount"`
	}

	// RecipeRequest is the body of both create and update calls.
	RecipeRequest struct {
		Name        string                    `json:"name" validate:"required,max=200"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time"`
		Image       string                    `json:"image"`
		Tags        []string                  `json:"tags"`
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"dive"`
	}

	RecipeFilter struct {
		Tags             []string
		AuthorID         string
		IsFavorited      bool
		IsInShoppingCart bool
	}

	RecipeIngredient struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	Recipe struct {
		ID               string             `json:"id"`
		Name             string             `json:"name"`
		Text             string             `json:"text"`
		CookingTime      int                `json:"cooking_time"`
		Image            string             `json:"image"`
		Tags             []Tag              `json:"tags"`
		Author           User               `json:"author"`
		Ingredients      []RecipeIngredient `json:"ingredients"`
		IsFavorited      bool               `json:"is_favorited"`
		IsInShoppingCart bool               `json:"is_in_shopping_cart"`
		CreatedAt        time.Time          `json:"pub_date"`
	}

	RecipeShort struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}

	RecipeListResponse struct {
		Count   int      `json:"count"`
		Results []Recipe `json:"results"`
	}

	ShoppingListLine struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int64  `json:"amount"`
	}
)
