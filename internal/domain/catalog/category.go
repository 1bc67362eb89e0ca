package catalog

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/celuvia/backend/internal/domain/shared"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Category represents a product category with a unique name and slug.
// Deleting a category nulls out the category reference on its products
// instead of cascading.
type Category struct {
	shared.BaseAggregateRoot
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Slug string `gorm:"type:varchar(120);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a category, deriving the slug from the name
func NewCategory(name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name is required")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}

	slug := Slugify(name)
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name produces an empty slug")
	}

	return &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
	}, nil
}

// Rename changes the category name and re-derives the slug
func (c *Category) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name is required")
	}

	slug := Slugify(name)
	if slug == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name produces an empty slug")
	}

	c.Name = name
	c.Slug = slug
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the name, folds diacritics to ASCII, and joins the
// remaining alphanumeric runs with hyphens
func Slugify(name string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, name)
	if err != nil {
		folded = name
	}

	slug := slugInvalid.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(slug, "-")
}
