package errs

import (
	"net/http"
	"testing"
)

func TestNewErrorMapsKnownCodes(t *testing.T) {
	tests := []struct {
		code       int
		wantStatus int
	}{
		{ErrInvalidParams, http.StatusBadRequest},
		{ErrUnsupportedMediaType, http.StatusUnsupportedMediaType},
		{ErrRateLimitExceeded, http.StatusTooManyRequests},
		{ErrTaskNotFound, http.StatusNotFound},
		{ErrFileStorageFailed, http.StatusInternalServerError},
		{ErrUserAlreadyExists, http.StatusBadRequest},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		customErr := NewError(tt.code)
		if customErr.Code != tt.code {
			t.Errorf("NewError(%d).Code = %d", tt.code, customErr.Code)
		}
		if customErr.Status != tt.wantStatus {
			t.Errorf("NewError(%d).Status = %d, want %d", tt.code, customErr.Status, tt.wantStatus)
		}
		if customErr.Message == "" {
			t.Errorf("NewError(%d) has empty message", tt.code)
		}
	}
}

func TestNewErrorUnknownCodeFallsBack(t *testing.T) {
	customErr := NewError(99999)
	if customErr.Code != ErrUnknown {
		t.Errorf("Code = %d, want %d", customErr.Code, ErrUnknown)
	}
	if customErr.Status != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", customErr.Status, http.StatusInternalServerError)
	}
}

func TestNewValidation(t *testing.T) {
	customErr := NewValidation("Title must not be empty.")
	if customErr.Code != ErrInvalidParams {
		t.Errorf("Code = %d, want %d", customErr.Code, ErrInvalidParams)
	}
	if customErr.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want %d", customErr.Status, http.StatusBadRequest)
	}
	if customErr.Message != "Title must not be empty." {
		t.Errorf("Message = %q", customErr.Message)
	}
}

func TestNewErrorDoesNotMutateTemplate(t *testing.T) {
	first := NewError(ErrInvalidParams)
	first.Message = "mutated"

	second := NewError(ErrInvalidParams)
	if second.Message == "mutated" {
		t.Error("NewError returned a shared template instance")
	}
}
