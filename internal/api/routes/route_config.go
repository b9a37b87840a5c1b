package routes

import (
	"Foodgram-Backend/internal/api/handlers"
	"Foodgram-Backend/internal/middleware"
	"Foodgram-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App               *fiber.App
	UserHandler       handlers.UserHandler
	RecipeHandler     handlers.RecipeHandler
	TagHandler        handlers.TagHandler
	IngredientHandler handlers.IngredientHandler
	Middleware        middleware.Middleware
	JWTService        jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.User()
	c.Catalog()
	c.Recipes()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) User() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	optional := c.Middleware.OptionalAuth(c.JWTService)

	user := c.App.Group("/api/users")
	// static paths before /:id
	{
		user.Post("/", c.UserHandler.Register)
		user.Get("/", optional, c.UserHandler.GetUsers)
		user.Get("/me", auth, c.UserHandler.Me)
		user.Get("/subscriptions", auth, c.UserHandler.GetSubscriptions)
		user.Get("/:id", optional, c.UserHandler.GetUser)
		user.Post("/:id/subscribe", auth, c.UserHandler.Subscribe)
		user.Delete("/:id/subscribe", auth, c.UserHandler.Unsubscribe)
	}
}

func (c *Config) Catalog() {
	tags := c.App.Group("/api/tags")
	tags.Get("/", c.TagHandler.GetTags)
	tags.Get("/:id", c.TagHandler.GetTag)

	ingredients := c.App.Group("/api/ingredients")
	ingredients.Get("/", c.IngredientHandler.GetIngredients)
	ingredients.Get("/:id", c.IngredientHandler.GetIngredient)
}

func (c *Config) Recipes() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	optional := c.Middleware.OptionalAuth(c.JWTService)

	recipes := c.App.Group("/api/recipes")
	recipes.Get("/", optional, c.RecipeHandler.GetRecipes)
	recipes.Post("/", auth, c.RecipeHandler.CreateRecipe)
	recipes.Get("/download_shopping_cart", auth, c.RecipeHandler.DownloadShoppingCart)

	recipes.Get("/:id", optional, c.RecipeHandler.GetRecipe)
	recipes.Patch("/:id", auth, c.RecipeHandler.UpdateRecipe)
	recipes.Delete("/:id", auth, c.RecipeHandler.DeleteRecipe)

	recipes.Post("/:id/favorite", auth, c.RecipeHandler.AddFavorite)
	recipes.Delete("/:id/favorite", auth, c.RecipeHandler.RemoveFavorite)
	recipes.Post("/:id/shopping_cart", auth, c.RecipeHandler.AddToShoppingCart)
	recipes.Delete("/:id/shopping_cart", auth, c.RecipeHandler.RemoveFromShoppingCart)
}
