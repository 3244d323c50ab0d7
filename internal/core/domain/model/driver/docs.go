// Package driver provides the Driver aggregate: a courier's durable dispatch state.
//
// The package includes:
//   - Driver: the aggregate root holding availability, workload and the current order
//   - Status: the shift state (checked in or offline)
//   - DeliveryStatus: whether the driver is currently carrying an order
//
// Key business rules:
//   - activeOrdersCount never exceeds maxConcurrentOrders (3 unless configured)
//   - currentOrderID is set if and only if the delivery status is "delivering"
//   - A driver cannot go offline while delivering
//   - Location is not part of the aggregate; it lives in the live registry
package driver
