package services

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

const (
	DefaultMaxDispatchRadiusKm = 10.0
	DefaultMinRating           = 3.0
)

// MatchPolicy holds the tunable limits of candidate selection.
type MatchPolicy struct {
	MaxDispatchRadiusKm float64
	MinRating           float64
}

func DefaultMatchPolicy() MatchPolicy {
	return MatchPolicy{MaxDispatchRadiusKm: DefaultMaxDispatchRadiusKm, MinRating: DefaultMinRating}
}

func (p MatchPolicy) Validate() error {
	var problems []error
	if !(p.MaxDispatchRadiusKm > 0) || math.IsInf(p.MaxDispatchRadiusKm, 0) {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("maxDispatchRadiusKm",
			fmt.Errorf("%v is not a positive distance", p.MaxDispatchRadiusKm)))
	}
	if p.MinRating < driver.MinRating || p.MinRating > driver.MaxRating {
		problems = append(problems, errs.NewValueIsOutOfRangeError("minRating", fmt.Sprint(p.MinRating), driver.MinRating, driver.MaxRating))
	}
	return errors.Join(problems...)
}

// Presence is what the live registry knows about drivers at the start of a pass.
type Presence struct {
	Available map[kernel.UUID]struct{}
	Positions map[kernel.UUID]driver.Position
}

// Proposal is a candidate driver for an order, best first when ranked.
type Proposal struct {
	Driver     *driver.Driver
	DistanceKm float64
	Score      float64
	Position   driver.Position
}

func (p Proposal) DriverID() kernel.UUID {
	return p.Driver.ID()
}

// DriverMatcher selects drivers for a pending order.
//
// Selection rules, applied in order:
//   - the order must carry restaurant coordinates, otherwise a DataIntegrityError is returned
//   - the driver must be checked in, idle and without a current order
//   - the driver must be marked available in the registry and have a known position
//   - haversine distance to the restaurant must not exceed the dispatch radius
//   - rating must not be below the minimum
//   - active orders must be below the driver's limit
//
// Candidates are scored 1 − distance/radius (floored at 0). Ties go to the lower workload,
// then the higher rating, then the fresher position.
//
// Example usage:
//
//	matcher, _ := services.NewDriverMatcher(services.DefaultMatchPolicy())
//	best, err := matcher.Match(o, drivers, presence)
//	if errors.Is(err, errs.ErrNoEligibleDriver) {
//	    // leave the order pending for the next pass
//	}
type DriverMatcher struct {
	policy MatchPolicy
}

func NewDriverMatcher(policy MatchPolicy) (DriverMatcher, error) {
	if err := policy.Validate(); err != nil {
		return DriverMatcher{}, err
	}
	return DriverMatcher{policy: policy}, nil
}

func (m DriverMatcher) Policy() MatchPolicy {
	return m.policy
}

// Rank returns every acceptable driver ordered best first. Drivers that fail validation
// are skipped.
//
// Returns:
//   - []Proposal: at least one proposal on success
//   - error: errs.ErrNoEligibleDriver when nobody qualifies, a DataIntegrityError when the
//     order cannot be dispatched, or a validation error for malformed input
func (m DriverMatcher) Rank(o *order.Order, drivers []*driver.Driver, presence Presence) ([]Proposal, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if o.Status() != order.Pending || o.DriverID() != nil {
		return nil, errs.NewInvalidTransition("order", o.Status().String(), "match")
	}

	origin, err := o.DispatchOrigin()
	if err != nil {
		return nil, err
	}

	proposals := make([]Proposal, 0, len(drivers))
	for _, d := range drivers {
		// A malformed driver costs only its own candidacy.
		if d.Validate() != nil {
			continue
		}

		proposal, ok, err := m.evaluate(origin, d, presence)
		if err != nil {
			return nil, err
		}
		if ok {
			proposals = append(proposals, proposal)
		}
	}

	if len(proposals) == 0 {
		return nil, fmt.Errorf("%w for order %s", errs.ErrNoEligibleDriver, o.ID())
	}

	slices.SortStableFunc(proposals, compareProposals)
	return proposals, nil
}

// Match returns the single best proposal.
func (m DriverMatcher) Match(o *order.Order, drivers []*driver.Driver, presence Presence) (Proposal, error) {
	ranked, err := m.Rank(o, drivers, presence)
	if err != nil {
		return Proposal{}, err
	}
	return ranked[0], nil
}

func (m DriverMatcher) evaluate(origin kernel.GeoPoint, d *driver.Driver, presence Presence) (Proposal, bool, error) {
	if !d.IsEligible() {
		return Proposal{}, false, nil
	}
	if _, ok := presence.Available[d.ID()]; !ok {
		return Proposal{}, false, nil
	}
	position, ok := presence.Positions[d.ID()]
	if !ok {
		return Proposal{}, false, nil
	}

	distance, err := origin.DistanceKm(position.Point)
	if err != nil {
		return Proposal{}, false, err
	}

	if distance > m.policy.MaxDispatchRadiusKm {
		return Proposal{}, false, nil
	}
	if d.Rating() < m.policy.MinRating {
		return Proposal{}, false, nil
	}
	if !d.HasCapacity() {
		return Proposal{}, false, nil
	}

	return Proposal{
		Driver:     d,
		DistanceKm: distance,
		Score:      math.Max(0, 1-distance/m.policy.MaxDispatchRadiusKm),
		Position:   position,
	}, true, nil
}

func compareProposals(a, b Proposal) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Driver.ActiveOrdersCount(), b.Driver.ActiveOrdersCount()); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Driver.Rating(), a.Driver.Rating()); c != 0 {
		return c
	}
	return b.Position.At.Compare(a.Position.At)
}
