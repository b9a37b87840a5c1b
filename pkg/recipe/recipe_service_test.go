package recipe

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/testutil"
	"Foodgram-Backend/pkg/relation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	pngImage    = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAA="
	pngImage2x2 = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAIAAAACCAYAAAA="
	gifImage    = "data:image/gif;base64,R0lGODlhAQABAAAAAA=="
)

type memoryS3 struct {
	objects map[string][]byte
	deleted []string
}

func newMemoryS3() *memoryS3 {
	return &memoryS3{objects: map[string][]byte{}}
}

func (m *memoryS3) UploadFile(_ context.Context, key string, data []byte, _ string) (string, error) {
	m.objects[key] = data
	return key, nil
}

func (m *memoryS3) DeleteFile(_ context.Context, key string) error {
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *memoryS3) GetPublicLinkKey(key string) string {
	return "https://img.test/" + key
}

func (m *memoryS3) GetObjectKeyFromLink(link string) string {
	return strings.TrimPrefix(link, "https://img.test/")
}

func (m *memoryS3) keys() []string {
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	return keys
}

type serviceFixture struct {
	db      *gorm.DB
	s3      *memoryS3
	service RecipeService
	author  *entities.User
	reader  *entities.User
	tags    []*entities.Tag
	flour   *entities.Ingredient
	sugar   *entities.Ingredient
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	db := testutil.NewDB(t)
	s3 := newMemoryS3()
	return &serviceFixture{
		db: db,
		s3: s3,
		service: NewRecipeService(
			NewRecipeRepository(db),
			relation.NewFavoriteRepository(db),
			relation.NewShoppingCartRepository(db),
			relation.NewSubscriptionRepository(db),
			s3,
		),
		author: testutil.CreateUser(t, db, "author"),
		reader: testutil.CreateUser(t, db, "reader"),
		tags: []*entities.Tag{
			testutil.CreateTag(t, db, "breakfast", 1),
			testutil.CreateTag(t, db, "dessert", 2),
		},
		flour: testutil.CreateIngredient(t, db, "Flour", "g"),
		sugar: testutil.CreateIngredient(t, db, "Sugar", "g"),
	}
}

func (f *serviceFixture) request() domain.RecipeRequest {
	return domain.RecipeRequest{
		Name:        "Crepes",
		Text:        "Whisk and fry.",
		CookingTime: 20,
		Image:       pngImage,
		Tags:        []string{f.tags[0].ID.String(), f.tags[1].ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: f.flour.ID.String(), Amount: 250},
			{ID: f.sugar.ID.String(), Amount: 30},
		},
	}
}

func TestCreateRecipeReturnsReadShape(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	got, err := f.service.CreateRecipe(ctx, f.request(), f.author.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "Crepes", got.Name)
	assert.Equal(t, "author", got.Author.Username)
	assert.Equal(t, []string{"breakfast", "dessert"}, []string{got.Tags[0].Slug, got.Tags[1].Slug})
	assert.Equal(t, []domain.RecipeIngredient{
		{ID: f.flour.ID.String(), Name: "Flour", MeasurementUnit: "g", Amount: 250},
		{ID: f.sugar.ID.String(), Name: "Sugar", MeasurementUnit: "g", Amount: 30},
	}, got.Ingredients)
	assert.False(t, got.IsFavorited)
	assert.False(t, got.IsInShoppingCart)

	key := f.s3.GetObjectKeyFromLink(got.Image)
	assert.True(t, strings.HasPrefix(key, "recipes/"+got.ID+"/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)
	assert.Equal(t, []string{key}, f.s3.keys())
}

func TestCreateRecipeValidationRules(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*domain.RecipeRequest)
		rule   string
	}{
		{"missing name", func(r *domain.RecipeRequest) { r.Name = "  " }, domain.RuleNameRequired},
		{"missing image", func(r *domain.RecipeRequest) { r.Image = "" }, domain.RuleImageRequired},
		{"image not an image", func(r *domain.RecipeRequest) { r.Image = "aGVsbG8sIHBsYWluIHRleHQgYm9keQ==" }, domain.RuleImageInvalid},
		{"missing tags", func(r *domain.RecipeRequest) { r.Tags = nil }, domain.RuleTagsRequired},
		{"duplicate tags", func(r *domain.RecipeRequest) { r.Tags = []string{r.Tags[0], r.Tags[0]} }, domain.RuleTagsDuplicate},
		{"malformed tag id", func(r *domain.RecipeRequest) { r.Tags = []string{"nope"} }, domain.RuleInvalidID},
		{"unknown tag", func(r *domain.RecipeRequest) { r.Tags = []string{uuid.NewString()} }, domain.RuleTagUnknown},
		{"missing ingredients", func(r *domain.RecipeRequest) { r.Ingredients = nil }, domain.RuleIngredientsRequired},
		{"duplicate ingredients", func(r *domain.RecipeRequest) {
			r.Ingredients = []domain.RecipeIngredientRequest{r.Ingredients[0], r.Ingredients[0]}
		}, domain.RuleIngredientsDuplicate},
		{"unknown ingredient", func(r *domain.RecipeRequest) { r.Ingredients[0].ID = uuid.NewString() }, domain.RuleIngredientUnknown},
		{"amount too small", func(r *domain.RecipeRequest) { r.Ingredients[0].Amount = 0 }, domain.RuleAmountOutOfRange},
		{"amount too large", func(r *domain.RecipeRequest) { r.Ingredients[1].Amount = domain.MaxAmount + 1 }, domain.RuleAmountOutOfRange},
		{"cooking time too small", func(r *domain.RecipeRequest) { r.CookingTime = 0 }, domain.RuleCookingTimeRange},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := f.request()
			tc.mutate(&req)

			_, err := f.service.CreateRecipe(ctx, req, f.author.ID.String())
			assert.True(t, domain.IsValidationRule(err, tc.rule), "got %v", err)
		})
	}

	var count int64
	require.NoError(t, f.db.Model(&entities.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
	// Images uploaded for requests that failed inside the transaction are removed.
	assert.Empty(t, f.s3.objects)
}

func TestUpdateRecipeByNonAuthorIsForbidden(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateRecipe(ctx, f.request(), f.author.ID.String())
	require.NoError(t, err)

	_, err = f.service.UpdateRecipe(ctx, created.ID, f.request(), f.reader.ID.String())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = f.service.DeleteRecipe(ctx, created.ID, f.reader.ID.String())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.service.UpdateRecipe(ctx, uuid.NewString(), f.request(), f.author.ID.String())
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestUpdateRecipeReplacesSetsAndImage(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateRecipe(ctx, f.request(), f.author.ID.String())
	require.NoError(t, err)

	req := f.request()
	req.Name = "Sweet crepes"
	req.Image = gifImage
	req.Tags = []string{f.tags[1].ID.String()}
	req.Ingredients = []domain.RecipeIngredientRequest{{ID: f.sugar.ID.String(), Amount: 80}}

	got, err := f.service.UpdateRecipe(ctx, created.ID, req, f.author.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "Sweet crepes", got.Name)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "dessert", got.Tags[0].Slug)
	assert.Equal(t, []domain.RecipeIngredient{
		{ID: f.sugar.ID.String(), Name: "Sugar", MeasurementUnit: "g", Amount: 80},
	}, got.Ingredients)
	assert.Equal(t, created.CreatedAt.Unix(), got.CreatedAt.Unix())

	key := f.s3.GetObjectKeyFromLink(got.Image)
	assert.True(t, strings.HasSuffix(key, ".gif"), key)
	assert.Equal(t, []string{key}, f.s3.keys())
}

func TestUpdateRecipeWithSameImageTypeDropsOldObject(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateRecipe(ctx, f.request(), f.author.ID.String())
	require.NoError(t, err)

	req := f.request()
	req.Image = pngImage2x2
	got, err := f.service.UpdateRecipe(ctx, created.ID, req, f.author.ID.String())
	require.NoError(t, err)

	assert.NotEqual(t, created.Image, got.Image)
	key := f.s3.GetObjectKeyFromLink(got.Image)
	assert.Equal(t, []string{key}, f.s3.keys())
	assert.Equal(t, decodePNG(t, pngImage2x2), f.s3.objects[key])
}

func TestFailedUpdateKeepsStoredImage(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateRecipe(ctx, f.request(), f.author.ID.String())
	require.NoError(t, err)
	oldKey := f.s3.GetObjectKeyFromLink(created.Image)

	req := f.request()
	req.Image = pngImage2x2
	req.Tags = []string{uuid.NewString()}
	_, err = f.service.UpdateRecipe(ctx, created.ID, req, f.author.ID.String())
	require.True(t, domain.IsValidationRule(err, domain.RuleTagUnknown))

	got, err := f.service.GetRecipe(ctx, created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, created.Image, got.Image)
	assert.Equal(t, []string{oldKey}, f.s3.keys())
	assert.Equal(t, decodePNG(t, pngImage), f.s3.objects[oldKey])
}

func decodePNG(t *testing.T, dataURI string) []byte {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURI, "data:image/png;base64,"))
	require.NoError(t, err)
	return raw
}

func TestDeleteRecipeRemovesImage(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateRecipe(ctx, f.request(), f.author.ID.String())
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteRecipe(ctx, created.ID, f.author.ID.String()))
	assert.Empty(t, f.s3.objects)

	_, err = f.service.GetRecipe(ctx, created.ID, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIsFavoritedMirrorsRequester(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateRecipe(ctx, f.request(), f.author.ID.String())
	require.NoError(t, err)

	short, err := f.service.AddFavorite(ctx, created.ID, f.reader.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.RecipeShort{ID: created.ID, Name: created.Name, Image: created.Image, CookingTime: created.CookingTime}, short)

	anonymous, err := f.service.GetRecipe(ctx, created.ID, "")
	require.NoError(t, err)
	assert.False(t, anonymous.IsFavorited)

	asReader, err := f.service.GetRecipe(ctx, created.ID, f.reader.ID.String())
	require.NoError(t, err)
	assert.True(t, asReader.IsFavorited)
	assert.False(t, asReader.IsInShoppingCart)

	asAuthor, err := f.service.GetRecipe(ctx, created.ID, f.author.ID.String())
	require.NoError(t, err)
	assert.False(t, asAuthor.IsFavorited)

	_, err = f.service.AddFavorite(ctx, created.ID, f.reader.ID.String())
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	require.NoError(t, f.service.RemoveFavorite(ctx, created.ID, f.reader.ID.String()))
	assert.ErrorIs(t, f.service.RemoveFavorite(ctx, created.ID, f.reader.ID.String()), domain.ErrNotFound)

	asReader, err = f.service.GetRecipe(ctx, created.ID, f.reader.ID.String())
	require.NoError(t, err)
	assert.False(t, asReader.IsFavorited)
}

func TestRelationOnUnknownRecipe(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.AddToShoppingCart(ctx, uuid.NewString(), f.reader.ID.String())
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	err = f.service.RemoveFromShoppingCart(ctx, "not-a-uuid", f.reader.ID.String())
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestAuthorIsSubscribedInReadShape(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateRecipe(ctx, f.request(), f.author.ID.String())
	require.NoError(t, err)
	require.NoError(t, relation.NewSubscriptionRepository(f.db).Subscribe(ctx, f.reader.ID, f.author.ID))

	got, err := f.service.GetRecipe(ctx, created.ID, f.reader.ID.String())
	require.NoError(t, err)
	assert.True(t, got.Author.IsSubscribed)

	got, err = f.service.GetRecipe(ctx, created.ID, "")
	require.NoError(t, err)
	assert.False(t, got.Author.IsSubscribed)
}

func TestGetRecipesFlagsAreNoOpsForAnonymous(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	first, err := f.service.CreateRecipe(ctx, f.request(), f.author.ID.String())
	require.NoError(t, err)
	req := f.request()
	req.Name = "Porridge"
	req.Tags = []string{f.tags[0].ID.String()}
	_, err = f.service.CreateRecipe(ctx, req, f.author.ID.String())
	require.NoError(t, err)

	_, err = f.service.AddToShoppingCart(ctx, first.ID, f.reader.ID.String())
	require.NoError(t, err)

	all, err := f.service.GetRecipes(ctx, domain.RecipeFilter{IsInShoppingCart: true}, 1, 10, "")
	require.NoError(t, err)
	assert.Equal(t, 2, all.Count)

	mine, err := f.service.GetRecipes(ctx, domain.RecipeFilter{IsInShoppingCart: true}, 1, 10, f.reader.ID.String())
	require.NoError(t, err)
	require.Equal(t, 1, mine.Count)
	assert.Equal(t, first.ID, mine.Results[0].ID)
	assert.True(t, mine.Results[0].IsInShoppingCart)

	dessert, err := f.service.GetRecipes(ctx, domain.RecipeFilter{Tags: []string{"dessert"}}, 1, 10, "")
	require.NoError(t, err)
	require.Equal(t, 1, dessert.Count)
	assert.Equal(t, first.ID, dessert.Results[0].ID)

	paged, err := f.service.GetRecipes(ctx, domain.RecipeFilter{}, 2, 1, "")
	require.NoError(t, err)
	assert.Equal(t, 2, paged.Count)
	assert.Len(t, paged.Results, 1)

	beyond, err := f.service.GetRecipes(ctx, domain.RecipeFilter{}, 5, 1, "")
	require.NoError(t, err)
	assert.Equal(t, 2, beyond.Count)
	assert.Empty(t, beyond.Results)
}

func TestGetRecipesFiltersByMixedCaseSlug(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	brunch := testutil.CreateTag(t, f.db, "Sunday_Brunch", 3)
	testutil.CreateRecipe(t, f.db, f.author, "Shakshuka", []*entities.Tag{brunch}, nil)
	testutil.CreateRecipe(t, f.db, f.author, "Porridge", []*entities.Tag{f.tags[0]}, nil)

	list, err := f.service.GetRecipes(ctx, domain.RecipeFilter{Tags: []string{"Sunday_Brunch"}}, 1, 10, "")
	require.NoError(t, err)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "Shakshuka", list.Results[0].Name)
}

func TestGetRecipesRejectsBadFilter(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.GetRecipes(ctx, domain.RecipeFilter{Tags: []string{"Not A Slug"}}, 1, 10, "")
	assert.True(t, domain.IsValidationRule(err, domain.RuleInvalidSlug))

	_, err = f.service.GetRecipes(ctx, domain.RecipeFilter{Tags: []string{"brunch!"}}, 1, 10, "")
	assert.True(t, domain.IsValidationRule(err, domain.RuleInvalidSlug))

	_, err = f.service.GetRecipes(ctx, domain.RecipeFilter{AuthorID: "42"}, 1, 10, "")
	assert.True(t, domain.IsValidationRule(err, domain.RuleInvalidID))
}

func TestDownloadShoppingList(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	req := f.request()
	req.Ingredients = []domain.RecipeIngredientRequest{{ID: f.flour.ID.String(), Amount: 200}}
	bread, err := f.service.CreateRecipe(ctx, req, f.author.ID.String())
	require.NoError(t, err)

	req = f.request()
	req.Name = "Cake"
	req.Ingredients = []domain.RecipeIngredientRequest{
		{ID: f.sugar.ID.String(), Amount: 50},
		{ID: f.flour.ID.String(), Amount: 100},
	}
	cake, err := f.service.CreateRecipe(ctx, req, f.author.ID.String())
	require.NoError(t, err)

	for _, id := range []string{bread.ID, cake.ID} {
		_, err := f.service.AddToShoppingCart(ctx, id, f.reader.ID.String())
		require.NoError(t, err)
	}

	body, err := f.service.DownloadShoppingList(ctx, f.reader.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Shopping list\nIngredient - Measurement unit - Amount\nFlour - g - 300\nSugar - g - 50\n", body)

	empty, err := f.service.DownloadShoppingList(ctx, f.author.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Shopping list\nIngredient - Measurement unit - Amount\n", empty)
}
