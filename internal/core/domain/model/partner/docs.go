// Package partner provides the delivery partner profile and the KYC gate.
//
// The package includes:
//   - Profile: identity, KYC status, availability, last location and delivery count
//   - KYCStatus: not_submitted, pending, approved or rejected
//
// Key business rules:
//   - only KYC-approved partners can go online
//   - a partner must be approved and online to claim an order
//   - any KYC status other than approved forces the partner offline
package partner
