// Package services provides the domain services of dispatch that span several aggregates.
//
// The package includes:
//   - DriverMatcher: ranks eligible drivers for a pending order by distance and workload
//   - SettlementCalculator: splits a delivered order's escrowed funds between restaurant,
//     driver and platform
//
// Both services are pure. They never mutate aggregates or touch storage; the application
// layer turns their results into conditional writes.
package services
