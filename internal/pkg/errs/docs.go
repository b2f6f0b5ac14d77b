// Package errs holds the error types shared by the domain, the use cases and
// the adapters.
//
// Every type pairs a struct carrying the offending parameter with a sentinel it
// unwraps to, so callers classify with errors.Is and the HTTP adapter maps:
//   - ErrObjectNotFound (ObjectNotFoundError): an order, partner or withdrawal id matched nothing
//   - ErrValueIsRequired (ValueIsRequiredError): a mandatory value is missing
//   - ErrValueIsInvalid (ValueIsInvalidError): a value failed a business rule
//   - ErrValueIsOutOfRange (ValueIsOutOfRangeError): a number outside [Min, Max]
//   - ErrConflict (ConflictError): an insert hit an existing unique key
//
// Each constructor has a WithCause variant that keeps the underlying error in the message.
package errs
