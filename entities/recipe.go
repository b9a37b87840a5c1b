package entities

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Name        string    `gorm:"size:200;not null;check:chk_recipes_name,name <> ''" json:"name"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	CookingTime int       `gorm:"type:smallint;not null;check:chk_recipes_cooking_time,cooking_time BETWEEN 1 AND 32000" json:"cooking_time"`
	ImageURL    string    `gorm:"not null" json:"image"`

	Author      *User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Tags        []*Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	Ingredients []*AmountIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
	Timestamp
}

// AmountIngredient joins a recipe to an ingredient with a quantity.
type AmountIngredient struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:,composite:recipe_ingredient" json:"recipe_id"`
	IngredientID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:,composite:recipe_ingredient;index" json:"ingredient_id"`
	Amount       int       `gorm:"type:smallint;not null;check:chk_amount_ingredients_amount,amount BETWEEN 1 AND 32000" json:"amount"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"ingredient,omitempty"`
}

type Tag struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `gorm:"size:200;not null;uniqueIndex" json:"name"`
	Slug  string    `gorm:"size:200;not null;uniqueIndex" json:"slug"`
	Color string    `gorm:"size:7;not null;uniqueIndex;default:'#17A400'" json:"color"`
}

var tagSlugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// ValidTagSlug reports whether s is a slug a tag can be stored and filtered by.
func ValidTagSlug(s string) bool {
	return tagSlugPattern.MatchString(s)
}

// BeforeSave derives a missing slug from the name and refuses slugs that the
// recipe filter would reject.
func (t *Tag) BeforeSave(_ *gorm.DB) error {
	if t.Slug == "" {
		t.Slug = slug.Make(t.Name)
	}
	if !ValidTagSlug(t.Slug) {
		return fmt.Errorf("tag slug %q may contain only letters, digits, - and _", t.Slug)
	}
	return nil
}

type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string    `gorm:"size:200;not null;uniqueIndex:,composite:name_unit;index" json:"name"`
	MeasurementUnit string    `gorm:"size:200;not null;uniqueIndex:,composite:name_unit" json:"measurement_unit"`
}
