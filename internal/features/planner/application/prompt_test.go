package application

import (
	"fmt"
	"strings"
	"testing"

	catalogdomain "event-planner/backend/internal/features/catalog/domain"
	"event-planner/backend/internal/features/planner/domain"
)

func TestRenderProductsCapsAtTen(t *testing.T) {
	var products []catalogdomain.Product
	for i := 0; i < 15; i++ {
		products = append(products, catalogdomain.Product{"브랜드명": "A", "제품명": fmt.Sprintf("P%d", i)})
	}
	out := RenderProducts(products, false)
	lines := strings.Split(out, "\n")
	if len(lines) != 10 {
		t.Fatalf("lines: want=10 got=%d", len(lines))
	}
	if lines[0] != "A - P0" || lines[9] != "A - P9" {
		t.Fatalf("unexpected lines: %q", lines)
	}
}

func TestRenderProductsFallbacksAndIngredients(t *testing.T) {
	products := []catalogdomain.Product{
		{"제품명": "Cushion"},
		{"브랜드명": "B"},
		{"브랜드명": "C", "제품명": "Toner", "성분": "water, niacinamide"},
	}

	plain := RenderProducts(products, false)
	want := "Unknown Brand - Cushion\nB - Unknown Product\nC - Toner"
	if plain != want {
		t.Fatalf("plain:\nwant=%q\ngot=%q", want, plain)
	}

	withIng := RenderProducts(products, true)
	if !strings.HasSuffix(withIng, "C - Toner (water, niacinamide)") {
		t.Fatalf("ingredients missing: %q", withIng)
	}
}

func TestBuildPromptEmbedsFieldsVerbatim(t *testing.T) {
	req := domain.PlanRequest{
		Goal:     "A launch {{not a template}}",
		Strategy: "influencers",
		Audience: "students",
		Budget:   "$5,000 %d",
	}
	prompt := BuildPrompt(req, "A - P1")

	for _, s := range []string{
		"- **Goal**: A launch {{not a template}}",
		"- **Strategy**: influencers",
		"- **Target Audience**: students",
		"- **Budget**: $5,000 %d",
		"Use the provided product data as a reference:\nA - P1",
	} {
		if !strings.Contains(prompt, s) {
			t.Fatalf("prompt missing %q:\n%s", s, prompt)
		}
	}
}
