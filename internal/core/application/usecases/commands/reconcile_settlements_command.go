package commands

import (
	"errors"
	"fmt"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	DefaultSweepConcurrency = 4
	DefaultSweepBatchSize   = 500
)

var ErrReconcileSettlementsCommandIsNotConstructed = errors.New(
	"ReconcileSettlementsCommand must be created via NewReconcileSettlementsCommand constructor",
)

// ReconcileSettlementsCommand settles delivered orders whose settlement was missed.
type ReconcileSettlementsCommand struct {
	batchSize   int
	concurrency int

	guard guard.ConstructorGuard
}

// NewReconcileSettlementsCommand bounds one sweep to batchSize orders processed by at most
// concurrency workers. Zero values select the defaults.
func NewReconcileSettlementsCommand(batchSize, concurrency int) (ReconcileSettlementsCommand, error) {
	if batchSize == 0 {
		batchSize = DefaultSweepBatchSize
	}
	if concurrency == 0 {
		concurrency = DefaultSweepConcurrency
	}

	var problems []error
	if batchSize < 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("batchSize", fmt.Errorf("%d is negative", batchSize)))
	}
	if concurrency < 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("concurrency", fmt.Errorf("%d is negative", concurrency)))
	}
	if err := errors.Join(problems...); err != nil {
		return ReconcileSettlementsCommand{}, err
	}

	return ReconcileSettlementsCommand{
		batchSize:   batchSize,
		concurrency: concurrency,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c ReconcileSettlementsCommand) Validate() error {
	return c.guard.Validate(ErrReconcileSettlementsCommandIsNotConstructed)
}

func (c ReconcileSettlementsCommand) BatchSize() int {
	return c.batchSize
}

func (c ReconcileSettlementsCommand) Concurrency() int {
	return c.concurrency
}
