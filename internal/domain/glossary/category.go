package glossary

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Category classifies a glossary entry by subject area.
// The set is closed: only the constants below are valid entry categories.
type Category string

const (
	CategoryProtocol Category = "protocol"
	CategoryNetwork  Category = "network"
	CategorySecurity Category = "security"
	CategoryWeb      Category = "web"
	CategoryEmail    Category = "email"
	CategoryGeneral  Category = "general"

	// CategoryAll is the filter sentinel for "every category".
	// It never appears on an entry.
	CategoryAll Category = "all"
)

// ErrUnknownCategory is returned when a string is not one of the closed set.
var ErrUnknownCategory = errors.New("unknown category")

// categoryOrder is the canonical enumeration order used for listings.
var categoryOrder = []Category{
	CategoryProtocol,
	CategoryNetwork,
	CategorySecurity,
	CategoryWeb,
	CategoryEmail,
	CategoryGeneral,
}

// AllCategories returns the closed enumeration in canonical order.
func AllCategories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// Valid reports whether c is an entry category (the sentinel is not).
func (c Category) Valid() bool {
	for _, k := range categoryOrder {
		if c == k {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory converts s to an entry category. Surrounding whitespace and
// case are ignored. The "all" sentinel is rejected; use ParseFilter for
// filter inputs.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// ParseFilter converts a filter input to a category. An empty string and
// "all" both yield CategoryAll.
func ParseFilter(s string) (Category, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	if t == "" || t == string(CategoryAll) {
		return CategoryAll, nil
	}
	return ParseCategory(t)
}

// UnmarshalJSON rejects categories outside the closed set so a bad catalog
// file fails at load time.
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
