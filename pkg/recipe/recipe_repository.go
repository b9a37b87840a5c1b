package recipe

import (
	"context"
	"errors"
	"fmt"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe, tagIDs []uuid.UUID, amounts []*entities.AmountIngredient) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe, tagIDs []uuid.UUID, amounts []*entities.AmountIngredient) error
		DeleteRecipe(ctx context.Context, id uuid.UUID) error
		GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, query RecipeQuery) ([]*entities.Recipe, error)
		GetAuthorRecipes(ctx context.Context, authorID uuid.UUID, limit int) ([]*entities.Recipe, error)
		CountAuthorRecipes(ctx context.Context, authorID uuid.UUID) (int64, error)
		GetShoppingList(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingListLine, error)
	}

	// RecipeQuery is a conjunctive filter; nil and empty members do not restrict.
	RecipeQuery struct {
		TagSlugs    []string
		AuthorID    *uuid.UUID
		FavoritedBy *uuid.UUID
		InCartOf    *uuid.UUID
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, tagIDs []uuid.UUID, amounts []*entities.AmountIngredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := loadTags(tx, tagIDs)
		if err != nil {
			return err
		}
		if err := checkIngredients(tx, amounts); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		return replaceComposition(tx, recipe, tags, amounts)
	})
}

func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe, tagIDs []uuid.UUID, amounts []*entities.AmountIngredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := loadTags(tx, tagIDs)
		if err != nil {
			return err
		}
		if err := checkIngredients(tx, amounts); err != nil {
			return err
		}

		res := tx.Model(recipe).
			Select("name", "text", "cooking_time", "image_url").
			Updates(recipe)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrRecipeNotFound
		}
		return replaceComposition(tx, recipe, tags, amounts)
	})
}

// replaceComposition clears the recipe's tag links and ingredient rows and
// writes the given sets in their place.
func replaceComposition(tx *gorm.DB, recipe *entities.Recipe, tags []*entities.Tag, amounts []*entities.AmountIngredient) error {
	if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
		return err
	}
	if len(tags) > 0 {
		if err := tx.Model(recipe).Association("Tags").Append(tags); err != nil {
			return err
		}
	}

	if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.AmountIngredient{}).Error; err != nil {
		return err
	}
	recipe.Ingredients = amounts
	if len(amounts) == 0 {
		return nil
	}
	for _, a := range amounts {
		a.RecipeID = recipe.ID
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
	}
	if err := tx.Omit(clause.Associations).Create(&amounts).Error; err != nil {
		if utils.IsUniqueViolation(err) {
			return domain.ErrDuplicateRecipeIngredient
		}
		return err
	}
	return nil
}

func loadTags(tx *gorm.DB, ids []uuid.UUID) ([]*entities.Tag, error) {
	var tags []*entities.Tag
	if err := tx.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) == len(ids) {
		return tags, nil
	}

	found := make(map[uuid.UUID]bool, len(tags))
	for _, t := range tags {
		found[t.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return nil, domain.NewValidationError("tags", domain.RuleTagUnknown, fmt.Sprintf("tag %s does not exist", id))
		}
	}
	return tags, nil
}

func checkIngredients(tx *gorm.DB, amounts []*entities.AmountIngredient) error {
	ids := make([]uuid.UUID, 0, len(amounts))
	for _, a := range amounts {
		ids = append(ids, a.IngredientID)
	}

	var found []uuid.UUID
	if err := tx.Model(&entities.Ingredient{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return err
	}
	if len(found) == len(ids) {
		return nil
	}

	known := make(map[uuid.UUID]bool, len(found))
	for _, id := range found {
		known[id] = true
	}
	for _, id := range ids {
		if !known[id] {
			return domain.NewValidationError("ingredients", domain.RuleIngredientUnknown, fmt.Sprintf("ingredient %s does not exist", id))
		}
	}
	return nil
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&entities.AmountIngredient{}, &entities.Favorite{}, &entities.ShoppingCart{}} {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&entities.Recipe{ID: id}).Association("Tags").Clear(); err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&entities.Recipe{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrRecipeNotFound
		}
		return nil
	})
}

func (r *recipeRepository) hydrated(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.name ASC")
		}).
		Preload("Ingredients.Ingredient")
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.hydrated(ctx).Where("recipes.id = ?", id).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipes(ctx context.Context, query RecipeQuery) ([]*entities.Recipe, error) {
	q := r.hydrated(ctx).Model(&entities.Recipe{})

	if len(query.TagSlugs) > 0 {
		tagged := r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", query.TagSlugs)
		q = q.Where("recipes.id IN (?)", tagged)
	}
	if query.AuthorID != nil {
		q = q.Where("recipes.author_id = ?", *query.AuthorID)
	}
	if query.FavoritedBy != nil {
		q = q.Where("recipes.id IN (?)", r.db.Model(&entities.Favorite{}).
			Select("recipe_id").
			Where("user_id = ?", *query.FavoritedBy))
	}
	if query.InCartOf != nil {
		q = q.Where("recipes.id IN (?)", r.db.Model(&entities.ShoppingCart{}).
			Select("recipe_id").
			Where("user_id = ?", *query.InCartOf))
	}

	var recipes []*entities.Recipe
	if err := q.Order("recipes.created_at DESC").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) GetAuthorRecipes(ctx context.Context, authorID uuid.UUID, limit int) ([]*entities.Recipe, error) {
	q := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var recipes []*entities.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountAuthorRecipes(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetShoppingList sums ingredient amounts over every recipe in the user's cart,
// grouped by ingredient name and unit.
func (r *recipeRepository) GetShoppingList(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingListLine, error) {
	var lines []domain.ShoppingListLine
	if err := r.db.WithContext(ctx).
		Table("amount_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(amount_ingredients.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = amount_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = amount_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC").
		Scan(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}
