package ingredient

import (
	"context"
	"strings"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"

	"github.com/google/uuid"
)

type (
	IngredientService interface {
		SearchIngredients(ctx context.Context, name string) ([]domain.Ingredient, error)
		GetIngredient(ctx context.Context, ingredientID string) (domain.Ingredient, error)
	}

	ingredientService struct {
		ingredientRepository IngredientRepository
	}
)

func NewIngredientService(ingredientRepository IngredientRepository) IngredientService {
	return &ingredientService{ingredientRepository: ingredientRepository}
}

func (s *ingredientService) SearchIngredients(ctx context.Context, name string) ([]domain.Ingredient, error) {
	ingredients, err := s.ingredientRepository.SearchIngredients(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}

	result := make([]domain.Ingredient, 0, len(ingredients))
	for _, i := range ingredients {
		result = append(result, toIngredient(i))
	}
	return result, nil
}

func (s *ingredientService) GetIngredient(ctx context.Context, ingredientID string) (domain.Ingredient, error) {
	id, err := uuid.Parse(ingredientID)
	if err != nil {
		return domain.Ingredient{}, domain.ErrIngredientNotFound
	}

	i, err := s.ingredientRepository.GetIngredientByID(ctx, id)
	if err != nil {
		return domain.Ingredient{}, err
	}
	return toIngredient(i), nil
}

func toIngredient(i *entities.Ingredient) domain.Ingredient {
	return domain.Ingredient{
		ID:              i.ID.String(),
		Name:            i.Name,
		MeasurementUnit: i.MeasurementUnit,
	}
}
