// Package domain contains the error taxonomy shared by every layer:
// sentinel errors, the [Error] capability for deliberate business failures,
// and ordered field-level validation errors.
package domain
