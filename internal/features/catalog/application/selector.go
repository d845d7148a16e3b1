package application

import (
	"fmt"
	"strings"

	"event-planner/backend/internal/features/catalog/domain"
	configdomain "event-planner/backend/internal/features/config/domain"
)

// Selector narrows the catalog to the products passed to the prompt.
type Selector interface {
	Select(goal string, products []domain.Product) ([]domain.Product, error)
}

// BrandMatchSelector keeps products whose brand contains the first word of the goal.
type BrandMatchSelector struct{}

// BrandToken returns the first whitespace-delimited token of goal.
func BrandToken(goal string) string {
	fields := strings.Fields(goal)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func (BrandMatchSelector) Select(goal string, products []domain.Product) ([]domain.Product, error) {
	brand := BrandToken(goal)
	if brand == "" {
		return nil, &domain.ValidationError{
			Code:    domain.CodeEmptyBrand,
			Message: "Please include a brand name in the goal.",
		}
	}

	needle := strings.ToLower(brand)
	var matched []domain.Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Brand()), needle) {
			matched = append(matched, p)
		}
	}
	if len(matched) == 0 {
		return nil, &domain.ValidationError{
			Code:    domain.CodeBrandNotFound,
			Message: fmt.Sprintf("No products found for the brand '%s'.", brand),
		}
	}
	return matched, nil
}

// FixedSampleSelector keeps the first N products regardless of the goal.
type FixedSampleSelector struct {
	N int
}

func (s FixedSampleSelector) Select(_ string, products []domain.Product) ([]domain.Product, error) {
	if s.N >= 0 && len(products) > s.N {
		return products[:s.N], nil
	}
	return products, nil
}

// NewSelector returns the selector configured for the catalog.
func NewSelector(cfg configdomain.CatalogConfig) (Selector, error) {
	switch cfg.Strategy {
	case configdomain.StrategyBrandMatch, "":
		return BrandMatchSelector{}, nil
	case configdomain.StrategyFixedSample:
		n := cfg.SampleSize
		if n <= 0 {
			n = configdomain.DefaultAppConfig().Catalog.SampleSize
		}
		return FixedSampleSelector{N: n}, nil
	default:
		return nil, fmt.Errorf("unknown catalog strategy %q", cfg.Strategy)
	}
}
