package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/validation"
)

// MaxRequestBodyBytes bounds JSON request bodies. Media uploads carry their
// content base64 encoded, so the limit is generous.
const MaxRequestBodyBytes = 64 << 20

// ErrInvalidJSON is returned when a request body is not a single JSON value
// matching the target structure.
var ErrInvalidJSON = errors.New("invalid request body")

// DecodeJSON decodes the request body into v. Unknown fields are rejected.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON value", ErrInvalidJSON)
	}
	return nil
}

// ValidateRequest checks the `validate` tags of v, then its Validate method
// when it has one.
func ValidateRequest(v any) error {
	if err := validation.Struct(v); err != nil {
		return err
	}
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}
	return nil
}
