// Package validation checks configuration and request bodies against
// `validate` struct tags with go-playground/validator, reporting failures
// as one INVALID_INPUT error that lists every field:
//
//	type fetchBody struct {
//	    URL    string `json:"url" validate:"required"`
//	    Method string `json:"method" validate:"omitempty,httpmethod"`
//	}
//	err := validation.Validate(body)
package validation
