package catalog

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gestock/backend/internal/domain/shared"
)

// MaxCategoryCodeLength is the maximum length of a category code
const MaxCategoryCodeLength = 50

var categoryCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Category groups articles in the catalog
type Category struct {
	shared.BaseAggregateRoot
	Code        string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(code, name string) (*Category, error) {
	if err := validateCategoryCode(code); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}

	category := &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(strings.TrimSpace(code)),
		Name:              strings.TrimSpace(name),
	}

	category.AddDomainEvent(NewCategoryCreatedEvent(category))

	return category, nil
}

// Update updates the category's name and description
func (c *Category) Update(name, description string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}

	c.Name = strings.TrimSpace(name)
	c.Description = description
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCategoryUpdatedEvent(c))

	return nil
}

func validateCategoryCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Category code cannot be empty")
	}
	if len(code) > MaxCategoryCodeLength {
		return shared.NewDomainError("INVALID_CODE", fmt.Sprintf("Category code cannot exceed %d characters", MaxCategoryCodeLength))
	}
	if !categoryCodePattern.MatchString(code) {
		return shared.NewDomainError("INVALID_CODE", "Category code can only contain letters, digits, underscore and hyphen")
	}
	return nil
}
