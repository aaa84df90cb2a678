/*
Package resp provides helper functions for sending HTTP JSON responses.

Success payloads are written as-is so each endpoint keeps its documented body
shape. Errors share one JSON envelope carrying the business code and a
user-facing message.
*/
package resp

import (
	"encoding/json"
	"net/http"

	"taskhub/internal/pkg/errs"
	"taskhub/internal/pkg/logx"
)

// ErrorResponse is the JSON body sent for every failed request.
type ErrorResponse struct {
	// Code is the business error code (see the errs package).
	Code int `json:"code"`

	// Message is the user-facing error description.
	Message string `json:"message"`
}

// RespondJSON sets the JSON content type and writes the payload with the given status.
func RespondJSON(w http.ResponseWriter, r *http.Request, httpStatus int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	response, err := json.Marshal(payload)
	if err != nil {
		logx.Error(err, "Error encoding JSON response", "http_status", httpStatus)

		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(httpStatus)
	w.Write(response)
}

// RespondNoContent writes an empty 204 response.
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// RespondError sends the error envelope with the status carried by the CustomError.
func RespondError(w http.ResponseWriter, r *http.Request, customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	RespondJSON(w, r, customErr.Status, ErrorResponse{
		Code:    customErr.Code,
		Message: customErr.Message,
	})
}
