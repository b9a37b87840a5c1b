package recipe

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/logging"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/internal/utils/storage"
	"Foodgram-Backend/pkg/relation"

	"github.com/google/uuid"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.RecipeRequest, userID string) (domain.Recipe, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.RecipeRequest, userID string) (domain.Recipe, error)
		DeleteRecipe(ctx context.Context, recipeID string, userID string) error
		GetRecipe(ctx context.Context, recipeID string, userID string) (domain.Recipe, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int, userID string) (domain.RecipeListResponse, error)
		AddFavorite(ctx context.Context, recipeID string, userID string) (domain.RecipeShort, error)
		RemoveFavorite(ctx context.Context, recipeID string, userID string) error
		AddToShoppingCart(ctx context.Context, recipeID string, userID string) (domain.RecipeShort, error)
		RemoveFromShoppingCart(ctx context.Context, recipeID string, userID string) error
		DownloadShoppingList(ctx context.Context, userID string) (string, error)
	}

	recipeService struct {
		recipeRepository       RecipeRepository
		favoriteRepository     relation.RecipeRelationRepository
		shoppingCartRepository relation.RecipeRelationRepository
		subscriptionRepository relation.SubscriptionRepository
		s3                     storage.AwsS3
	}

	// composition is a validated recipe request ready for the repository.
	composition struct {
		image   *storage.Image
		tagIDs  []uuid.UUID
		amounts []*entities.AmountIngredient
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	favoriteRepository relation.RecipeRelationRepository,
	shoppingCartRepository relation.RecipeRelationRepository,
	subscriptionRepository relation.SubscriptionRepository,
	s3 storage.AwsS3,
) RecipeService {
	return &recipeService{
		recipeRepository:       recipeRepository,
		favoriteRepository:     favoriteRepository,
		shoppingCartRepository: shoppingCartRepository,
		subscriptionRepository: subscriptionRepository,
		s3:                     s3,
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.RecipeRequest, userID string) (domain.Recipe, error) {
	authorID, err := uuid.Parse(userID)
	if err != nil {
		return domain.Recipe{}, domain.ErrTokenInvalid
	}

	comp, err := validateRecipeRequest(req)
	if err != nil {
		return domain.Recipe{}, err
	}

	recipe := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Name:        strings.TrimSpace(req.Name),
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}

	key, err := s.s3.UploadFile(ctx, imageKey(recipe.ID, comp.image), comp.image.Data, comp.image.ContentType)
	if err != nil {
		return domain.Recipe{}, err
	}
	recipe.ImageURL = s.s3.GetPublicLinkKey(key)

	if err := s.recipeRepository.CreateRecipe(ctx, recipe, comp.tagIDs, comp.amounts); err != nil {
		s.removeImage(ctx, key)
		return domain.Recipe{}, err
	}

	return s.GetRecipe(ctx, recipe.ID.String(), userID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.RecipeRequest, userID string) (domain.Recipe, error) {
	existing, err := s.ownedRecipe(ctx, recipeID, userID)
	if err != nil {
		return domain.Recipe{}, err
	}

	comp, err := validateRecipeRequest(req)
	if err != nil {
		return domain.Recipe{}, err
	}

	oldKey := s.s3.GetObjectKeyFromLink(existing.ImageURL)
	key, err := s.s3.UploadFile(ctx, imageKey(existing.ID, comp.image), comp.image.Data, comp.image.ContentType)
	if err != nil {
		return domain.Recipe{}, err
	}

	recipe := &entities.Recipe{
		ID:          existing.ID,
		AuthorID:    existing.AuthorID,
		Name:        strings.TrimSpace(req.Name),
		Text:        req.Text,
		CookingTime: req.CookingTime,
		ImageURL:    s.s3.GetPublicLinkKey(key),
	}
	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, comp.tagIDs, comp.amounts); err != nil {
		s.removeImage(ctx, key)
		return domain.Recipe{}, err
	}
	s.removeImage(ctx, oldKey)

	return s.GetRecipe(ctx, recipe.ID.String(), userID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID string, userID string) error {
	existing, err := s.ownedRecipe(ctx, recipeID, userID)
	if err != nil {
		return err
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, existing.ID); err != nil {
		return err
	}
	s.removeImage(ctx, s.s3.GetObjectKeyFromLink(existing.ImageURL))
	return nil
}

// ownedRecipe loads the recipe and checks that userID is its author.
func (s *recipeService) ownedRecipe(ctx context.Context, recipeID string, userID string) (*entities.Recipe, error) {
	id, err := uuid.Parse(recipeID)
	if err != nil {
		return nil, domain.ErrRecipeNotFound
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID.String() != userID {
		return nil, domain.ErrUnauthorizedRecipeAccess
	}
	return recipe, nil
}

func (s *recipeService) removeImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.s3.DeleteFile(ctx, key); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to delete recipe image")
	}
}

// imageKey is unique per upload so a new image never overwrites the one the
// stored recipe still points at.
func imageKey(recipeID uuid.UUID, img *storage.Image) string {
	return fmt.Sprintf("recipes/%s/%s%s", recipeID, uuid.NewString(), img.Extension)
}

func (s *recipeService) GetRecipe(ctx context.Context, recipeID string, userID string) (domain.Recipe, error) {
	id, err := uuid.Parse(recipeID)
	if err != nil {
		return domain.Recipe{}, domain.ErrRecipeNotFound
	}
	requester, err := parseRequester(userID)
	if err != nil {
		return domain.Recipe{}, err
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return domain.Recipe{}, err
	}

	views, err := s.hydrate(ctx, []*entities.Recipe{recipe}, requester)
	if err != nil {
		return domain.Recipe{}, err
	}
	return views[0], nil
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int, userID string) (domain.RecipeListResponse, error) {
	requester, err := parseRequester(userID)
	if err != nil {
		return domain.RecipeListResponse{}, err
	}

	query, err := buildQuery(filter, requester)
	if err != nil {
		return domain.RecipeListResponse{}, err
	}

	recipes, err := s.recipeRepository.GetRecipes(ctx, query)
	if err != nil {
		return domain.RecipeListResponse{}, err
	}

	total := len(recipes)
	start, end := utils.PageBounds(total, page, limit)
	recipes = recipes[start:end]

	results, err := s.hydrate(ctx, recipes, requester)
	if err != nil {
		return domain.RecipeListResponse{}, err
	}
	return domain.RecipeListResponse{Count: total, Results: results}, nil
}

// buildQuery turns the request filter into a repository query. The favorite
// and cart flags only apply to an authenticated requester.
func buildQuery(filter domain.RecipeFilter, requester *uuid.UUID) (RecipeQuery, error) {
	var query RecipeQuery

	for _, t := range filter.Tags {
		if !entities.ValidTagSlug(t) {
			return RecipeQuery{}, domain.NewValidationError("tags", domain.RuleInvalidSlug, fmt.Sprintf("%q is not a valid tag slug", t))
		}
		query.TagSlugs = append(query.TagSlugs, t)
	}

	if filter.AuthorID != "" {
		authorID, err := uuid.Parse(filter.AuthorID)
		if err != nil {
			return RecipeQuery{}, domain.NewValidationError("author", domain.RuleInvalidID, "author must be a valid id")
		}
		query.AuthorID = &authorID
	}

	if requester != nil {
		if filter.IsFavorited {
			query.FavoritedBy = requester
		}
		if filter.IsInShoppingCart {
			query.InCartOf = requester
		}
	}
	return query, nil
}

func (s *recipeService) AddFavorite(ctx context.Context, recipeID string, userID string) (domain.RecipeShort, error) {
	return s.addRelation(ctx, s.favoriteRepository, recipeID, userID)
}

func (s *recipeService) RemoveFavorite(ctx context.Context, recipeID string, userID string) error {
	return s.removeRelation(ctx, s.favoriteRepository, recipeID, userID)
}

func (s *recipeService) AddToShoppingCart(ctx context.Context, recipeID string, userID string) (domain.RecipeShort, error) {
	return s.addRelation(ctx, s.shoppingCartRepository, recipeID, userID)
}

func (s *recipeService) RemoveFromShoppingCart(ctx context.Context, recipeID string, userID string) error {
	return s.removeRelation(ctx, s.shoppingCartRepository, recipeID, userID)
}

func (s *recipeService) addRelation(ctx context.Context, repo relation.RecipeRelationRepository, recipeID string, userID string) (domain.RecipeShort, error) {
	recipe, requester, err := s.relationTarget(ctx, recipeID, userID)
	if err != nil {
		return domain.RecipeShort{}, err
	}
	if err := repo.Add(ctx, requester, recipe.ID); err != nil {
		return domain.RecipeShort{}, err
	}
	return ShortView(recipe), nil
}

func (s *recipeService) removeRelation(ctx context.Context, repo relation.RecipeRelationRepository, recipeID string, userID string) error {
	recipe, requester, err := s.relationTarget(ctx, recipeID, userID)
	if err != nil {
		return err
	}
	return repo.Remove(ctx, requester, recipe.ID)
}

func (s *recipeService) relationTarget(ctx context.Context, recipeID string, userID string) (*entities.Recipe, uuid.UUID, error) {
	requester, err := uuid.Parse(userID)
	if err != nil {
		return nil, uuid.Nil, domain.ErrTokenInvalid
	}
	id, err := uuid.Parse(recipeID)
	if err != nil {
		return nil, uuid.Nil, domain.ErrRecipeNotFound
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return nil, uuid.Nil, err
	}
	return recipe, requester, nil
}

func (s *recipeService) DownloadShoppingList(ctx context.Context, userID string) (string, error) {
	requester, err := uuid.Parse(userID)
	if err != nil {
		return "", domain.ErrTokenInvalid
	}

	lines, err := s.recipeRepository.GetShoppingList(ctx, requester)
	if err != nil {
		return "", err
	}
	return RenderShoppingList(lines), nil
}

// RenderShoppingList formats aggregated lines as the plain-text download body.
func RenderShoppingList(lines []domain.ShoppingListLine) string {
	var b strings.Builder
	b.WriteString(domain.MessageShoppingListHeader)
	b.WriteByte('\n')
	b.WriteString(domain.MessageShoppingListColumns)
	b.WriteByte('\n')
	for _, l := range lines {
		fmt.Fprintf(&b, "%s - %s - %d\n", l.Name, l.MeasurementUnit, l.Amount)
	}
	return b.String()
}

func parseRequester(userID string) (*uuid.UUID, error) {
	if userID == "" {
		return nil, nil
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	return &id, nil
}

// validateRecipeRequest checks the composer preconditions in a fixed order and
// reports the first rule broken.
func validateRecipeRequest(req domain.RecipeRequest) (*composition, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, domain.NewValidationError("name", domain.RuleNameRequired, "name is required")
	}

	img, err := storage.DecodeImage(req.Image, storage.AllowImage...)
	if err != nil {
		return nil, err
	}

	if len(req.Tags) == 0 {
		return nil, domain.NewValidationError("tags", domain.RuleTagsRequired, "at least one tag is required")
	}
	tagIDs := make([]uuid.UUID, 0, len(req.Tags))
	seenTags := make(map[uuid.UUID]bool, len(req.Tags))
	for _, raw := range req.Tags {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, domain.NewValidationError("tags", domain.RuleInvalidID, fmt.Sprintf("%q is not a valid tag id", raw))
		}
		if seenTags[id] {
			return nil, domain.NewValidationError("tags", domain.RuleTagsDuplicate, "tags must not repeat")
		}
		seenTags[id] = true
		tagIDs = append(tagIDs, id)
	}

	if len(req.Ingredients) == 0 {
		return nil, domain.NewValidationError("ingredients", domain.RuleIngredientsRequired, "at least one ingredient is required")
	}
	amounts := make([]*entities.AmountIngredient, 0, len(req.Ingredients))
	seenIngredients := make(map[uuid.UUID]bool, len(req.Ingredients))
	for _, entry := range req.Ingredients {
		id, err := uuid.Parse(entry.ID)
		if err != nil {
			return nil, domain.NewValidationError("ingredients", domain.RuleInvalidID, fmt.Sprintf("%q is not a valid ingredient id", entry.ID))
		}
		if seenIngredients[id] {
			return nil, domain.NewValidationError("ingredients", domain.RuleIngredientsDuplicate, "ingredients must not repeat")
		}
		seenIngredients[id] = true

		if entry.Amount < domain.MinAmount || entry.Amount > domain.MaxAmount {
			return nil, domain.NewValidationError("ingredients", domain.RuleAmountOutOfRange,
				fmt.Sprintf("amount must be between %d and %d", domain.MinAmount, domain.MaxAmount))
		}
		amounts = append(amounts, &entities.AmountIngredient{IngredientID: id, Amount: entry.Amount})
	}

	if req.CookingTime < domain.MinAmount || req.CookingTime > domain.MaxAmount {
		return nil, domain.NewValidationError("cooking_time", domain.RuleCookingTimeRange,
			fmt.Sprintf("cooking time must be between %d and %d", domain.MinAmount, domain.MaxAmount))
	}

	return &composition{image: img, tagIDs: tagIDs, amounts: amounts}, nil
}

// hydrate builds read-shapes for recipes loaded with their associations.
func (s *recipeService) hydrate(ctx context.Context, recipes []*entities.Recipe, requester *uuid.UUID) ([]domain.Recipe, error) {
	views := make([]domain.Recipe, 0, len(recipes))
	if len(recipes) == 0 {
		return views, nil
	}

	favorited := map[uuid.UUID]bool{}
	inCart := map[uuid.UUID]bool{}
	subscribed := map[uuid.UUID]bool{}
	if requester != nil {
		recipeIDs := make([]uuid.UUID, 0, len(recipes))
		authorIDs := make([]uuid.UUID, 0, len(recipes))
		for _, r := range recipes {
			recipeIDs = append(recipeIDs, r.ID)
			authorIDs = append(authorIDs, r.AuthorID)
		}

		var err error
		if favorited, err = s.favoriteRepository.LinkedRecipes(ctx, *requester, recipeIDs); err != nil {
			return nil, err
		}
		if inCart, err = s.shoppingCartRepository.LinkedRecipes(ctx, *requester, recipeIDs); err != nil {
			return nil, err
		}
		if subscribed, err = s.subscriptionRepository.SubscribedAuthors(ctx, *requester, authorIDs); err != nil {
			return nil, err
		}
	}

	for _, r := range recipes {
		if r.Author == nil {
			return nil, errors.New("recipe author not loaded")
		}
		view := domain.Recipe{
			ID:          r.ID.String(),
			Name:        r.Name,
			Text:        r.Text,
			CookingTime: r.CookingTime,
			Image:       r.ImageURL,
			Tags:        make([]domain.Tag, 0, len(r.Tags)),
			Author: domain.User{
				ID:           r.Author.ID.String(),
				Email:        r.Author.Email,
				Username:     r.Author.Username,
				FirstName:    r.Author.FirstName,
				LastName:     r.Author.LastName,
				IsSubscribed: subscribed[r.AuthorID],
			},
			Ingredients:      make([]domain.RecipeIngredient, 0, len(r.Ingredients)),
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			CreatedAt:        r.CreatedAt,
		}
		for _, t := range r.Tags {
			view.Tags = append(view.Tags, TagView(t))
		}
		for _, a := range r.Ingredients {
			if a.Ingredient == nil {
				continue
			}
			view.Ingredients = append(view.Ingredients, domain.RecipeIngredient{
				ID:              a.IngredientID.String(),
				Name:            a.Ingredient.Name,
				MeasurementUnit: a.Ingredient.MeasurementUnit,
				Amount:          a.Amount,
			})
		}
		sort.Slice(view.Ingredients, func(i, j int) bool {
			return view.Ingredients[i].Name < view.Ingredients[j].Name
		})
		views = append(views, view)
	}
	return views, nil
}

func ShortView(r *entities.Recipe) domain.RecipeShort {
	return domain.RecipeShort{
		ID:          r.ID.String(),
		Name:        r.Name,
		Image:       r.ImageURL,
		CookingTime: r.CookingTime,
	}
}

func TagView(t *entities.Tag) domain.Tag {
	return domain.Tag{
		ID:    t.ID.String(),
		Name:  t.Name,
		Slug:  t.Slug,
		Color: t.Color,
	}
}
