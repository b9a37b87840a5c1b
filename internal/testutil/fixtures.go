package testutil

import (
	"fmt"
	"testing"

	"Foodgram-Backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func CreateUser(t testing.TB, db *gorm.DB, username string) *entities.User {
	t.Helper()
	u := &entities.User{
		ID:        uuid.New(),
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "First " + username,
		LastName:  "Last " + username,
		Password:  "not-a-real-hash",
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func CreateTag(t testing.TB, db *gorm.DB, slug string, n int) *entities.Tag {
	t.Helper()
	tag := &entities.Tag{
		ID:    uuid.New(),
		Name:  "Tag " + slug,
		Slug:  slug,
		Color: fmt.Sprintf("#%06X", n),
	}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("create tag %s: %v", slug, err)
	}
	return tag
}

func CreateIngredient(t testing.TB, db *gorm.DB, name, unit string) *entities.Ingredient {
	t.Helper()
	ing := &entities.Ingredient{ID: uuid.New(), Name: name, MeasurementUnit: unit}
	if err := db.Create(ing).Error; err != nil {
		t.Fatalf("create ingredient %s: %v", name, err)
	}
	return ing
}

// CreateRecipe writes a recipe row with its tag links and ingredient amounts
// directly, bypassing the service layer.
func CreateRecipe(t testing.TB, db *gorm.DB, author *entities.User, name string, tags []*entities.Tag, amounts map[*entities.Ingredient]int) *entities.Recipe {
	t.Helper()
	r := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    author.ID,
		Name:        name,
		Text:        "Text of " + name,
		CookingTime: 10,
		ImageURL:    "https://img.example.com/recipes/" + name + ".png",
	}
	if err := db.Omit("Tags", "Ingredients", "Author").Create(r).Error; err != nil {
		t.Fatalf("create recipe %s: %v", name, err)
	}
	if len(tags) > 0 {
		if err := db.Model(r).Association("Tags").Append(tags); err != nil {
			t.Fatalf("link tags: %v", err)
		}
	}
	for ing, amount := range amounts {
		row := &entities.AmountIngredient{ID: uuid.New(), RecipeID: r.ID, IngredientID: ing.ID, Amount: amount}
		if err := db.Omit("Ingredient").Create(row).Error; err != nil {
			t.Fatalf("create amount: %v", err)
		}
	}
	return r
}
