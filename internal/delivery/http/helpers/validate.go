package helpers

import (
	"encoding/json"
	"io"
	"net/http"
)

// FieldErrors maps a request field to its validation message.
type FieldErrors map[string]string

// Add records msg for field unless the field already has a message.
func (f FieldErrors) Add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

// Validator is implemented by request DTOs that support validation.
// An empty result means valid.
type Validator interface {
	Validate() FieldErrors
}

// DecodeAndValidate decodes the request body into dest (with DisallowUnknownFields)
// and, if dest implements Validator, runs Validate(). On decode or validation failure
// it writes a 400 JSON error and returns false; otherwise returns true.
// Callers should return immediately when DecodeAndValidate returns false.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	return DecodeReaderAndValidate(w, r.Body, dest)
}

// DecodeReaderAndValidate is DecodeAndValidate for a body that is not the request body,
// such as a JSON part of a multipart form.
func DecodeReaderAndValidate(w http.ResponseWriter, body io.Reader, dest any) bool {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "malformed JSON: "+err.Error())
		return false
	}
	if v, ok := dest.(Validator); ok {
		if errs := v.Validate(); len(errs) > 0 {
			WriteValidationError(w, errs)
			return false
		}
	}
	return true
}
