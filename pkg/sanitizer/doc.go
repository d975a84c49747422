// Package sanitizer normalizes form input before validation.
//
// All normalization functions are idempotent. Invalid input is returned as an
// empty string rather than an error so the validator can report it.
package sanitizer
