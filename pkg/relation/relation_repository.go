package relation

import (
	"context"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// RecipeRelationRepository stores presence/absence rows between a user and a recipe.
	RecipeRelationRepository interface {
		Add(ctx context.Context, userID, recipeID uuid.UUID) error
		Remove(ctx context.Context, userID, recipeID uuid.UUID) error
		Exists(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
		LinkedRecipes(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	}

	recipeLink[T any] interface {
		*T
		entities.RecipeLink
	}

	recipeRelationRepository[T any, PT recipeLink[T]] struct {
		db               *gorm.DB
		errAlreadyExists error
		errNotFound      error
	}
)

func NewRecipeRelationRepository[T any, PT recipeLink[T]](db *gorm.DB, errAlreadyExists, errNotFound error) RecipeRelationRepository {
	return &recipeRelationRepository[T, PT]{
		db:               db,
		errAlreadyExists: errAlreadyExists,
		errNotFound:      errNotFound,
	}
}

func NewFavoriteRepository(db *gorm.DB) RecipeRelationRepository {
	return NewRecipeRelationRepository[entities.Favorite](db, domain.ErrRecipeAlreadyFavorited, domain.ErrRecipeNotFavorited)
}

func NewShoppingCartRepository(db *gorm.DB) RecipeRelationRepository {
	return NewRecipeRelationRepository[entities.ShoppingCart](db, domain.ErrRecipeAlreadyInCart, domain.ErrRecipeNotInCart)
}

func (r *recipeRelationRepository[T, PT]) Add(ctx context.Context, userID, recipeID uuid.UUID) error {
	exists, err := r.Exists(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if exists {
		return r.errAlreadyExists
	}
	return r.insert(ctx, userID, recipeID)
}

// insert relies on the (user_id, recipe_id) unique index to reject a row
// that a concurrent writer added after the existence check.
func (r *recipeRelationRepository[T, PT]) insert(ctx context.Context, userID, recipeID uuid.UUID) error {
	row := PT(new(T))
	row.Link(userID, recipeID)

	if err := r.db.WithContext(ctx).Omit("User", "Recipe").Create(row).Error; err != nil {
		if utils.IsUniqueViolation(err) {
			return r.errAlreadyExists
		}
		return err
	}
	return nil
}

func (r *recipeRelationRepository[T, PT]) Remove(ctx context.Context, userID, recipeID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.errNotFound
	}
	return nil
}

func (r *recipeRelationRepository[T, PT]) Exists(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(new(T)).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRelationRepository[T, PT]) LinkedRecipes(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	linked := make(map[uuid.UUID]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return linked, nil
	}

	var found []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(new(T)).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &found).Error; err != nil {
		return nil, err
	}
	for _, id := range found {
		linked[id] = true
	}
	return linked, nil
}
