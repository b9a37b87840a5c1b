package entities

import (
	"time"

	"github.com/google/uuid"
)

// UserRecipeRelation is the shared shape of every user -> recipe toggle row.
type UserRecipeRelation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:,composite:user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:,composite:user_recipe;index" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp;autoCreateTime" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (r *UserRecipeRelation) Link(userID, recipeID uuid.UUID) {
	r.ID = uuid.New()
	r.UserID = userID
	r.RecipeID = recipeID
}

// RecipeLink is implemented by pointers to Favorite and ShoppingCart.
type RecipeLink interface {
	Link(userID, recipeID uuid.UUID)
}

type Favorite struct {
	UserRecipeRelation
}

type ShoppingCart struct {
	UserRecipeRelation
}
