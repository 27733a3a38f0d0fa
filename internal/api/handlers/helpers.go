package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/autoposter/internal/repository"
)

func GetOperator(c *fiber.Ctx) string {
	operator, _ := c.Locals("operator").(string)
	return operator
}

// parseFilters collects every selectable post field present in the query,
// skipping the status key itself.
func parseFilters(c *fiber.Ctx, skip string) map[string]any {
	filters := map[string]any{}
	for key, value := range c.Queries() {
		if key == skip || !repository.IsSelectableField(key) {
			continue
		}
		filters[key] = repository.ParseFieldValue(key, value)
	}
	return filters
}
