// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package segment

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/tomtom215/basketlens/internal/models"
)

// TierRule names a spend tier and the CEL expression selecting it.
//
// Expressions see a single map variable, customer, with the keys
// total_spent (double), avg_spent (double), purchases (int) and
// categories (int, distinct categories bought):
//
//	customer.total_spent > 1000.0 && customer.categories >= 3
type TierRule struct {
	Name       string `koanf:"name" json:"name" validate:"required"`
	Expression string `koanf:"expression" json:"expression" validate:"required"`
}

// DefaultTierRules returns the premium / regular / occasional tiers.
func DefaultTierRules() []TierRule {
	return []TierRule{
		{Name: "premium", Expression: "customer.total_spent > 1000.0 && customer.categories >= 3"},
		{Name: "regular", Expression: "customer.total_spent > 500.0 || customer.purchases > 5"},
		{Name: "occasional", Expression: "true"},
	}
}

type compiledTier struct {
	name    string
	program cel.Program
}

// TierClassifier assigns profiles to the first tier whose rule matches.
// Programs are compiled once and are safe for concurrent use.
type TierClassifier struct {
	tiers []compiledTier
}

// NewTierClassifier compiles rules in order. A rule that fails to compile or
// cannot produce a boolean is a configuration error.
func NewTierClassifier(rules []TierRule) (*TierClassifier, error) {
	env, err := cel.NewEnv(
		cel.Variable("customer", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("create cel environment: %w", err)
	}

	c := &TierClassifier{tiers: make([]compiledTier, 0, len(rules))}
	for _, rule := range rules {
		ast, issues := env.Compile(rule.Expression)
		if issues != nil && issues.Err() != nil {
			return nil, models.WrapError(models.KindConfiguration, "segment.NewTierClassifier",
				issues.Err(), fmt.Sprintf("tier %q does not compile", rule.Name))
		}
		out := ast.OutputType()
		if !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
			return nil, models.NewError(models.KindConfiguration, "segment.NewTierClassifier",
				"tier %q must evaluate to bool, got %s", rule.Name, out.String())
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, models.WrapError(models.KindConfiguration, "segment.NewTierClassifier",
				err, fmt.Sprintf("tier %q program", rule.Name))
		}
		c.tiers = append(c.tiers, compiledTier{name: rule.Name, program: prg})
	}
	return c, nil
}

// Names returns the tier names in rule order.
func (c *TierClassifier) Names() []string {
	names := make([]string, len(c.tiers))
	for i, t := range c.tiers {
		names[i] = t.name
	}
	return names
}

// Classify returns the first matching tier, or "" when no rule matches.
func (c *TierClassifier) Classify(p *CustomerProfile) (string, error) {
	vars := map[string]interface{}{
		"customer": map[string]interface{}{
			"total_spent": p.TotalSpent.InexactFloat64(),
			"avg_spent":   p.AvgSpent.InexactFloat64(),
			"purchases":   int64(p.Frequency),
			"categories":  int64(p.Categories.Len()),
		},
	}

	for _, t := range c.tiers {
		out, _, err := t.program.Eval(vars)
		if err != nil {
			return "", fmt.Errorf("evaluate tier %q: %w", t.name, err)
		}
		matched, ok := out.Value().(bool)
		if !ok {
			return "", fmt.Errorf("tier %q returned %T, want bool", t.name, out.Value())
		}
		if matched {
			return t.name, nil
		}
	}
	return "", nil
}
