// Package validate checks form payloads against declarative per-resource rule
// tables before any handler mutates the store. A violated rule never reaches
// the database: the request stops with a 400 page listing every message.
package validate

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

type Kind int

const (
	String Kind = iota
	Number
	Integer
)

// Rule describes the shape of a single form field.
type Rule struct {
	Field    string
	Kind     Kind
	Required bool
	Min      *float64
	Max      *float64
}

// RuleSet is ordered so the violation list is deterministic.
type RuleSet []Rule

func bound(v float64) *float64 { return &v }

var Campground = RuleSet{
	{Field: "title", Kind: String, Required: true},
	{Field: "location", Kind: String, Required: true},
	{Field: "description", Kind: String, Required: true},
	{Field: "price", Kind: Number, Required: true, Min: bound(0)},
}

var Review = RuleSet{
	{Field: "body", Kind: String, Required: true},
	{Field: "rating", Kind: Integer, Required: true, Min: bound(1), Max: bound(5)},
}

// Check evaluates a parsed form against the rule set and returns every
// violation, in rule order.
func (rs RuleSet) Check(values url.Values) []string {
	var violations []string

	for _, rule := range rs {
		if !values.Has(rule.Field) {
			if rule.Required {
				violations = append(violations, fmt.Sprintf("%q is required", rule.Field))
			}
			continue
		}

		raw := strings.TrimSpace(values.Get(rule.Field))
		if raw == "" {
			if rule.Required {
				violations = append(violations, fmt.Sprintf("%q is not allowed to be empty", rule.Field))
			}
			continue
		}

		if rule.Kind == String {
			continue
		}

		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			violations = append(violations, fmt.Sprintf("%q must be a number", rule.Field))
			continue
		}
		if rule.Kind == Integer && n != math.Trunc(n) {
			violations = append(violations, fmt.Sprintf("%q must be an integer", rule.Field))
			continue
		}
		if rule.Min != nil && n < *rule.Min {
			violations = append(violations, fmt.Sprintf("%q must be greater than or equal to %g", rule.Field, *rule.Min))
		}
		if rule.Max != nil && n > *rule.Max {
			violations = append(violations, fmt.Sprintf("%q must be less than or equal to %g", rule.Field, *rule.Max))
		}
	}

	return violations
}
