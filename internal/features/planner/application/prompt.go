package application

import (
	"fmt"
	"strings"

	catalogdomain "event-planner/backend/internal/features/catalog/domain"
	"event-planner/backend/internal/features/planner/domain"
)

// SystemPersona is the system message sent with every completion.
const SystemPersona = "You are an expert event planner specializing in cosmetics."

// maxPromptProducts caps how many products are embedded in the prompt.
const maxPromptProducts = 10

const promptTemplate = `
I need a cosmetics-related event plan that achieves the following:

- **Goal**: %s
- **Strategy**: %s
- **Target Audience**: %s
- **Budget**: %s

Use the provided product data as a reference:
%s
`

// RenderProducts formats up to ten products as "brand - product" lines,
// optionally followed by their ingredients in parentheses.
func RenderProducts(products []catalogdomain.Product, withIngredients bool) string {
	if len(products) > maxPromptProducts {
		products = products[:maxPromptProducts]
	}
	lines := make([]string, 0, len(products))
	for _, p := range products {
		brand := p.Brand()
		if brand == "" {
			brand = "Unknown Brand"
		}
		name := p.Name()
		if name == "" {
			name = "Unknown Product"
		}
		line := brand + " - " + name
		if withIngredients {
			if ing := p.Ingredients(); ing != "" {
				line += " (" + ing + ")"
			}
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// BuildPrompt substitutes the request fields and product block into the
// fixed instruction. User text is inserted as-is.
func BuildPrompt(req domain.PlanRequest, data string) string {
	return fmt.Sprintf(promptTemplate, req.Goal, req.Strategy, req.Audience, req.Budget, data)
}
