package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrMatchOrdersCommandIsNotConstructed = errors.New(
	"MatchOrdersCommand must be created via NewMatchOrdersCommand constructor",
)

// MatchOrdersCommand runs one matching pass over the pending queue.
type MatchOrdersCommand struct {
	guard guard.ConstructorGuard
}

func NewMatchOrdersCommand() MatchOrdersCommand {
	return MatchOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}
}

func (c MatchOrdersCommand) Validate() error {
	return c.guard.Validate(ErrMatchOrdersCommandIsNotConstructed)
}
