package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestAppErrorError(t *testing.T) {
	err := NotFound("Restaurant")
	if err.Error() != "NOT_FOUND: Restaurant not found" {
		t.Errorf("unexpected error string: %s", err.Error())
	}

	wrapped := Internal("Failed to store reservation", errors.New("connection reset"))
	want := "INTERNAL_ERROR: Failed to store reservation (caused by: connection reset)"
	if wrapped.Error() != want {
		t.Errorf("got %q, want %q", wrapped.Error(), want)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Internal("something broke", cause)
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NotFound("Table"), http.StatusNotFound},
		{InvalidInput("bad"), http.StatusBadRequest},
		{Validation("invalid", nil), http.StatusUnprocessableEntity},
		{SlotConflict("taken"), http.StatusConflict},
		{CapacityExceeded(6, 4), http.StatusUnprocessableEntity},
		{OutsideOperatingHours(22.5, 24.5, 8, 23), http.StatusUnprocessableEntity},
		{DailyLimitReached(3), http.StatusTooManyRequests},
		{Unavailable("MongoDB"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		if got := tt.err.StatusCode(); got != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.err.Code, got, tt.want)
		}
	}
}

func TestCapacityExceededDetails(t *testing.T) {
	err := CapacityExceeded(6, 4)
	if err.Details["party_size"] != 6 || err.Details["capacity"] != 4 {
		t.Errorf("unexpected details: %v", err.Details)
	}
}

func TestToJSON(t *testing.T) {
	err := NotFoundWithID("Reservation", "abc123")
	var resp ErrorResponse
	if jsonErr := json.Unmarshal(err.ToJSON(), &resp); jsonErr != nil {
		t.Fatalf("failed to unmarshal: %v", jsonErr)
	}
	if resp.Code != CodeNotFound {
		t.Errorf("code = %s, want %s", resp.Code, CodeNotFound)
	}
	if resp.Details["id"] != "abc123" {
		t.Errorf("details id = %v, want abc123", resp.Details["id"])
	}
}

func TestAsAppError(t *testing.T) {
	plain := errors.New("plain")
	appErr := AsAppError(plain)
	if appErr.Code != CodeInternal {
		t.Errorf("code = %s, want %s", appErr.Code, CodeInternal)
	}

	conflict := SlotConflict("taken")
	if AsAppError(conflict) != conflict {
		t.Error("expected the same AppError back")
	}

	if !IsAppError(conflict) {
		t.Error("IsAppError should report true for AppError")
	}
	if IsAppError(plain) {
		t.Error("IsAppError should report false for plain error")
	}
}
