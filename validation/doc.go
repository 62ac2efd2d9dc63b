// Package validation validates request structs with go-playground/validator
// tags and reports failures as *errors.AppError values listing every failed
// field.
package validation
