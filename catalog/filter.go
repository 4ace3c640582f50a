package catalog

import "strings"

// Filter narrows a recipe list. Zero fields match everything.
type Filter struct {
	Query       string
	Cuisine     string
	Diet        string
	MaxCalories int
	MaxPrepTime int
}

// Match reports whether r passes every set criterion. String comparisons ignore case.
func (f Filter) Match(r Recipe) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(r.Title), q) &&
			!strings.Contains(strings.ToLower(r.Description), q) &&
			!containsFold(r.Tags, q, true) {
			return false
		}
	}
	if f.Cuisine != "" && !strings.EqualFold(r.Cuisine, f.Cuisine) {
		return false
	}
	if f.Diet != "" && !containsFold(r.SuitableFor, f.Diet, false) && !containsFold(r.Tags, f.Diet, false) {
		return false
	}
	if f.MaxCalories > 0 && r.Nutrition.Calories > f.MaxCalories {
		return false
	}
	if f.MaxPrepTime > 0 && r.PrepTime > f.MaxPrepTime {
		return false
	}
	return true
}

// Apply returns the matching recipes, skipping offset and keeping at most limit.
// limit <= 0 means no cap.
func (f Filter) Apply(recipes []Recipe, offset, limit int) []Recipe {
	out := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return Page(out, offset, limit)
}

// Page slices items by offset and limit without panicking on out-of-range values.
func Page[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// Alternatives picks recipes other than the one with id whose calories are within
// window of it. Unknown ids yield nil.
func Alternatives(recipes []Recipe, id string, window, limit int) []Recipe {
	var base *Recipe
	for i := range recipes {
		if recipes[i].ID == id {
			base = &recipes[i]
			break
		}
	}
	if base == nil {
		return nil
	}

	lo := max(base.Nutrition.Calories-window, 0)
	hi := base.Nutrition.Calories + window
	out := make([]Recipe, 0, limit)
	for _, r := range recipes {
		if r.ID == id {
			continue
		}
		if r.Nutrition.Calories < lo || r.Nutrition.Calories > hi {
			continue
		}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out
}

func containsFold(list []string, s string, substring bool) bool {
	s = strings.ToLower(s)
	for _, v := range list {
		v = strings.ToLower(v)
		if v == s || (substring && strings.Contains(v, s)) {
			return true
		}
	}
	return false
}
