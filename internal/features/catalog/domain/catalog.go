package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Field names used by the product JSON files.
const (
	FieldBrand       = "브랜드명"
	FieldProduct     = "제품명"
	FieldIngredients = "성분"
)

// Product is one record of the catalog as parsed from JSON.
type Product map[string]any

// Brand returns the brand name, or "" when absent.
func (p Product) Brand() string {
	return p.text(FieldBrand)
}

// Name returns the product name, or "" when absent.
func (p Product) Name() string {
	return p.text(FieldProduct)
}

// Ingredients returns the ingredient list joined by ", ". Both a plain string
// and a list of strings are accepted.
func (p Product) Ingredients() string {
	switch v := p[FieldIngredients].(type) {
	case string:
		return strings.TrimSpace(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

func (p Product) text(key string) string {
	switch v := p[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Warning reports a catalog file that was skipped, or one whose list held
// Skipped non-object elements that were dropped.
type Warning struct {
	File    string `json:"file"`
	Message string `json:"message"`
	Skipped int    `json:"skipped,omitempty"`
}

func (w Warning) String() string {
	if w.Skipped > 0 {
		return fmt.Sprintf("'%s'에서 객체가 아닌 항목 %d개를 건너뛰었습니다.", w.File, w.Skipped)
	}
	return fmt.Sprintf("'%s'은(는) 유효한 JSON 파일이 아닙니다: %s", w.File, w.Message)
}

// Catalog is the in-memory collection of products assembled from one source.
type Catalog struct {
	Source   string    `json:"source"`
	Products []Product `json:"-"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Products)
}

// ErrEmptyCatalog is returned when a source yields no products at all.
var ErrEmptyCatalog = errors.New("no valid JSON files found in the catalog source")

// CatalogError reports a source that could not be read as a whole.
type CatalogError struct {
	Source string
	Err    error
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("catalog %s: %v", e.Source, e.Err)
}

func (e *CatalogError) Unwrap() error { return e.Err }

// Validation error codes.
const (
	CodeMissingField  = "missing_field"
	CodeEmptyBrand    = "empty_brand"
	CodeBrandNotFound = "brand_not_found"
	CodeOutOfRange    = "out_of_range"
)

// ValidationError is a recoverable input problem shown to the user as a warning.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
