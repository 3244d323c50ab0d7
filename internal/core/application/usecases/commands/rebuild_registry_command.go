package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrRebuildRegistryCommandIsNotConstructed = errors.New(
	"RebuildRegistryCommand must be created via NewRebuildRegistryCommand constructor",
)

// RebuildRegistryCommand repopulates the live registry from durable state.
type RebuildRegistryCommand struct {
	guard guard.ConstructorGuard
}

func NewRebuildRegistryCommand() RebuildRegistryCommand {
	return RebuildRegistryCommand{guard: guard.NewConstructorGuard()}
}

func (c RebuildRegistryCommand) Validate() error {
	return c.guard.Validate(ErrRebuildRegistryCommandIsNotConstructed)
}
