// Package types holds query shapes shared by several route groups.
package types

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// OffsetQuery is limit/offset paging. Zero limit means the route default.
type OffsetQuery struct {
	Limit  int `form:"limit" json:"limit"`
	Offset int `form:"offset" json:"offset"`
}

// Rules returns validation rules for a route whose limit is capped at maxLimit.
func (q *OffsetQuery) Rules(maxLimit int) []*validation.FieldRules {
	return []*validation.FieldRules{
		validation.Field(&q.Limit, validation.Min(0), validation.Max(maxLimit)),
		validation.Field(&q.Offset, validation.Min(0)),
	}
}

// LimitOr returns the limit, or def when unset.
func (q OffsetQuery) LimitOr(def int) int {
	if q.Limit <= 0 {
		return def
	}
	return q.Limit
}

// PageMeta describes a slice of a larger result.
type PageMeta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
