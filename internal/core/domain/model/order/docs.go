// Package order provides the Order aggregate of the dispatch domain.
//
// The package includes:
//   - Order: the aggregate root tracking identity, coordinates, charges, fee rates and the
//     delivery lifecycle
//   - Status: the lifecycle state machine
//   - Charges: the captured amounts the customer paid
//
// Key business rules:
//   - An order is created pending with its full charge already captured into escrow
//   - A driver is attached at most once; once attached the order is no longer pending
//   - Fee rates accepted at intake lie within [0, 100] percent
//   - Delivered and cancelled are final states
//   - An order whose data cannot be dispatched carries a permanent integrity error
package order
