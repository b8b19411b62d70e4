package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/BradenHooton/folio/internal/validation"
	pkghttp "github.com/BradenHooton/folio/pkg/http"
)

// maxBodyBytes caps request bodies; every folio request is a small form
const maxBodyBytes = 1 << 16

// ValidateRequest validates a request struct using go-playground/validator
// and returns the failed fields, or nil
func ValidateRequest(req interface{}) validation.Errors {
	return validation.Struct(req)
}

// decodeJSON reads a JSON body into dst. On failure it writes a 400 and
// returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return false
	}
	return true
}

// decodeAndValidate decodes then validates dst, writing the first field
// failure as a 400 when there is one
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if !decodeJSON(w, r, dst) {
		return false
	}
	if errs := ValidateRequest(dst); len(errs) > 0 {
		pkghttp.WriteErrorWithDetails(w, http.StatusBadRequest, "validation_failed", errs[0].Message, errs[0].Field)
		return false
	}
	return true
}
