package goerror

import (
	"errors"
	"net/http"
	"testing"
)

func TestError(t *testing.T) {
	cause := errors.New("redis down")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
		wantType   Type
	}{
		{name: "server", err: NewServer(cause), wantStatus: http.StatusInternalServerError, wantMsg: "Internal server error", wantType: TypeServer},
		{name: "business", err: NewBusiness("busy", CodeTooManyRequest), wantStatus: http.StatusTooManyRequests, wantMsg: "busy", wantType: TypeBusiness},
		{name: "invalid input", err: NewInvalidInput(cause), wantStatus: http.StatusUnprocessableEntity, wantMsg: "Validation error", wantType: TypeValidation},
		{name: "invalid fields", err: NewInvalidInput(nil, "code", "is invalid"), wantStatus: http.StatusUnprocessableEntity, wantMsg: "Validation error", wantType: TypeValidation},
		{name: "odd fields", err: NewInvalidInput(nil, "code"), wantStatus: http.StatusBadRequest, wantMsg: "Invalid request body", wantType: TypeValidation},
		{name: "invalid format", err: NewInvalidFormat("bad json"), wantStatus: http.StatusBadRequest, wantMsg: "bad json", wantType: TypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gerr *Error
			if !errors.As(tt.err, &gerr) {
				t.Fatalf("errors.As() = false for %v", tt.err)
			}
			if gerr.StatusCode() != tt.wantStatus {
				t.Fatalf("StatusCode() = %d, want %d", gerr.StatusCode(), tt.wantStatus)
			}
			if gerr.Msg() != tt.wantMsg {
				t.Fatalf("Msg() = %q, want %q", gerr.Msg(), tt.wantMsg)
			}
			if gerr.Type() != tt.wantType {
				t.Fatalf("Type() = %v, want %v", gerr.Type(), tt.wantType)
			}
		})
	}

	if !errors.Is(NewServer(cause), cause) {
		t.Fatal("NewServer() must unwrap to its cause")
	}

	var gerr *Error
	_ = errors.As(NewInvalidInput(nil, "code", "is invalid"), &gerr)
	if gerr.Fields()["code"] != "is invalid" {
		t.Fatalf("Fields() = %v", gerr.Fields())
	}
}

func TestError_Rendering(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := NewServer(cause)

	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatal("errors.As() = false")
	}

	if got := err.Error(); got != "Internal server error: dial tcp: refused" {
		t.Fatalf("Error() = %q", got)
	}
	if got := NewBusiness("busy", CodeTooManyRequest).Error(); got != "busy" {
		t.Fatalf("Error() = %q", got)
	}

	group := gerr.LogValue().Group()
	got := map[string]string{}
	for _, a := range group {
		got[a.Key] = a.Value.String()
	}
	if got["type"] != "server" || got["cause"] != "dial tcp: refused" || got["code"] != "Internal Server Error" {
		t.Fatalf("LogValue() = %v", got)
	}
}
