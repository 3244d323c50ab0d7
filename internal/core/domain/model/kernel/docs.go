// Package kernel holds the value objects shared by every aggregate of the dispatch domain:
//   - UUID: identifiers of orders, drivers, restaurants, customers and wallets
//   - GeoPoint: a validated latitude/longitude pair with great-circle distance
//   - Money: integer amounts in minor currency units
//   - Percent: an exact decimal percentage used for fee and commission rates
//
// Value objects are immutable. The zero values of UUID and GeoPoint are invalid and
// fail Validate; use the constructors.
package kernel
