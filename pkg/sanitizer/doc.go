// Package sanitizer normalizes the identity fields collected by the booking form.
//
// All normalization functions are idempotent: applying them multiple times produces
// the same result. Invalid input is handled gracefully, typically by returning an
// empty string rather than an error; validation happens later, on the sanitized value.
//
// Normalization includes:
//   - Names: collapse whitespace, trim leading/trailing spaces
//   - CPF: keep digits only
//   - Phones: Brazilian national significant number (area code + subscriber), digits only
//
// The Format helpers render stored digit strings for display and spreadsheet export.
package sanitizer
