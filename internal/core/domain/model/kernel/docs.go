// Package kernel provides the value objects shared by every aggregate of the
// dispatch engine.
//
// The package includes:
//   - UUID: identifier for orders, partners, earnings and withdrawals
//   - GeoPoint: a validated latitude/longitude with haversine distance
//   - Money: an amount in minor currency units with exact rate arithmetic
//
// Values are immutable. UUID and GeoPoint reject their zero values in Validate,
// so an aggregate can never be restored with a half-initialised identifier or position.
package kernel
