// Package awards defines the fixed set of award categories. Exactly one
// winner may exist per category at a time; the winners registry enforces it.
package awards

import dErrors "dundies/pkg/domain-errors"

// Category is an award classification.
type Category string

const (
	HottestInTheOffice  Category = "Hottest in the Office"
	WhitestSneakers     Category = "Whitest Sneakers"
	BusiestBeaver       Category = "Busiest Beaver"
	SpiciestInTheOffice Category = "Spiciest in the Office"
	ShowMeTheMoney      Category = "Show Me The Money"
	FineWork            Category = "Fine Work"
	BestDressed         Category = "Best Dressed"
	LongestEngagement   Category = "Longest Engagement"
)

// All returns every category in declaration order.
func All() []Category {
	return []Category{
		HottestInTheOffice,
		WhitestSneakers,
		BusiestBeaver,
		SpiciestInTheOffice,
		ShowMeTheMoney,
		FineWork,
		BestDressed,
		LongestEngagement,
	}
}

var valid = func() map[Category]struct{} {
	m := make(map[Category]struct{})
	for _, c := range All() {
		m[c] = struct{}{}
	}
	return m
}()

// Parse validates a category string.
func Parse(s string) (Category, error) {
	c := Category(s)
	if _, ok := valid[c]; !ok {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown award category: %q", s)
	}
	return c, nil
}

// IsValid reports whether c names a known category.
func (c Category) IsValid() bool {
	_, ok := valid[c]
	return ok
}

func (c Category) String() string { return string(c) }
