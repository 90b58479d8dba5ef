package nzbgeek

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultCategory is PC/0day.
const DefaultCategory = "4010"

// ErrInvalidCategory reports a category code that is not a positive number.
var ErrInvalidCategory = errors.New("invalid category code")

// Category is one of the indexer's top level categories.
type Category struct {
	Key  string // menu key, "1".."8"
	Name string
	Code string // main category code, e.g. "2000"
}

var mainCategories = []Category{
	{Key: "1", Name: "Console", Code: "1000"},
	{Key: "2", Name: "Movies", Code: "2000"},
	{Key: "3", Name: "Audio", Code: "3000"},
	{Key: "4", Name: "PC (Applications)", Code: "4000"},
	{Key: "5", Name: "TV (Series)", Code: "5000"},
	{Key: "6", Name: "XXX (Adult)", Code: "6000"},
	{Key: "7", Name: "Books", Code: "7000"},
	{Key: "8", Name: "Other", Code: "8000"},
}

// Categories returns the top level categories in menu order.
func Categories() []Category {
	out := make([]Category, len(mainCategories))
	copy(out, mainCategories)
	return out
}

// LookupCategory finds a top level category by menu key.
func LookupCategory(key string) (Category, bool) {
	key = strings.TrimSpace(key)
	for _, c := range mainCategories {
		if c.Key == key {
			return c, true
		}
	}
	return Category{}, false
}

// WithSubcategory returns sub when given, otherwise the main category code.
func (c Category) WithSubcategory(sub string) (string, error) {
	if strings.TrimSpace(sub) == "" {
		return c.Code, nil
	}
	return ParseCode(sub)
}

// ParseCode validates a numeric category code.
func ParseCode(code string) (string, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" || len(trimmed) > 6 {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, code)
	}
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: %q", ErrInvalidCategory, code)
		}
	}
	if strings.TrimLeft(trimmed, "0") == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, code)
	}
	return trimmed, nil
}
