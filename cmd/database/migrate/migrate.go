package migration

import (
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/logging"

	"gorm.io/gorm"
)

// Models lists every table in dependency order.
var Models = []any{
	&entities.User{},
	&entities.Subscription{},
	&entities.Tag{},
	&entities.Ingredient{},
	&entities.Recipe{},
	&entities.AmountIngredient{},
	&entities.Favorite{},
	&entities.ShoppingCart{},
}

func Migrate(db *gorm.DB) error {
	for _, model := range Models {
		if err := db.AutoMigrate(model); err != nil {
			logging.Error().Err(err).Str("model", modelName(db, model)).Msg("error migrating database")
			return err
		}
	}

	logging.Info().Int("tables", len(Models)).Msg("database migration complete")
	return nil
}

func modelName(db *gorm.DB, model any) string {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return "unknown"
	}
	return stmt.Schema.Table
}
