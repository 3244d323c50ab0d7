package commands

import (
	"context"
)

type PickUpOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewPickUpOrderCommandHandler(uowFactory OrderUoWFactory) PickUpOrderCommandHandler {
	return PickUpOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h PickUpOrderCommandHandler) Handle(ctx context.Context, cmd PickUpOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()

	o, err := orders.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	from := o.Status()
	if err = o.PickUp(); err != nil {
		return err
	}
	if err = orders.CompareAndTransition(ctx, o, from); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
