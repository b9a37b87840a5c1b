package handlers

import "github.com/gofiber/fiber/v2"

const defaultPageSize = 6

// requesterID is the authenticated user id, or "" for anonymous requests.
func requesterID(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}

func pagination(c *fiber.Ctx) (int, int) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	limit := c.QueryInt("limit", defaultPageSize)
	if limit < 1 {
		limit = defaultPageSize
	}
	return page, limit
}
