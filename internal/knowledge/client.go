package knowledge

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kBRAINX/medicalclinisSma/pkg/circuitbreaker"
)

// Client is the engine-facing facade over a knowledge base. Queries run
// through a circuit breaker so a misbehaving reference service cannot
// stall the intake flow; treatment and guideline lookups degrade to the
// generic fallbacks instead of failing.
type Client struct {
	base    Base
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewClient wraps base with the given breaker. A nil breaker disables
// protection and queries pass straight through.
func NewClient(base Base, breaker *circuitbreaker.CircuitBreaker, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{base: base, breaker: breaker, logger: logger}
}

// Conditions returns the full catalogue, ID ascending.
func (c *Client) Conditions(ctx context.Context) ([]Condition, error) {
	if c.breaker == nil {
		return c.base.Conditions(), nil
	}
	result, err := c.breaker.Execute(ctx, func() (interface{}, error) {
		return c.base.Conditions(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("knowledge base unavailable: %w", err)
	}
	return result.([]Condition), nil
}

// Condition returns a single condition by ID.
func (c *Client) Condition(ctx context.Context, id string) (Condition, bool) {
	if c.breaker == nil {
		return c.base.Condition(id)
	}
	type pair struct {
		cond Condition
		ok   bool
	}
	result, err := c.breaker.Execute(ctx, func() (interface{}, error) {
		cond, ok := c.base.Condition(id)
		return pair{cond, ok}, nil
	})
	if err != nil {
		c.logger.Warn("condition lookup failed", zap.String("condition", id), zap.Error(err))
		return Condition{}, false
	}
	p := result.(pair)
	return p.cond, p.ok
}

// StandardTreatment returns the treatment templates for a condition. When
// the circuit is open the generic symptomatic treatment is returned so a
// consultation can always conclude.
func (c *Client) StandardTreatment(ctx context.Context, conditionID string) []Medication {
	if c.breaker == nil {
		return c.base.StandardTreatment(conditionID)
	}
	result, _ := c.breaker.ExecuteWithFallback(ctx,
		func() (interface{}, error) { return c.base.StandardTreatment(conditionID), nil },
		func(err error) (interface{}, error) {
			c.logger.Warn("treatment lookup degraded to generic fallback",
				zap.String("condition", conditionID), zap.Error(err))
			return (&Store{}).StandardTreatment(conditionID), nil
		})
	if meds, ok := result.([]Medication); ok {
		return meds
	}
	return (&Store{}).StandardTreatment(conditionID)
}

// Guidelines returns care guidance for a condition, degrading to generic
// guidance when the circuit is open.
func (c *Client) Guidelines(ctx context.Context, conditionID string) string {
	if c.breaker == nil {
		return c.base.Guidelines(conditionID)
	}
	result, _ := c.breaker.ExecuteWithFallback(ctx,
		func() (interface{}, error) { return c.base.Guidelines(conditionID), nil },
		func(err error) (interface{}, error) {
			return (&Store{}).Guidelines(conditionID), nil
		})
	if g, ok := result.(string); ok {
		return g
	}
	return (&Store{}).Guidelines(conditionID)
}

// PersonalizedTreatment builds a patient-adjusted prescription for a
// condition. Personalization itself is local math; only the template
// lookup goes through the breaker.
func (c *Client) PersonalizedTreatment(ctx context.Context, cond Condition, p DosageProfile) []Medication {
	meds := Personalize(c.StandardTreatment(ctx, cond.ID), p)
	return append(meds, ageSpecificAdditions(cond, p, meds)...)
}
