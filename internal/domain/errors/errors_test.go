package errors

import "testing"

func TestSentinelErrors(t *testing.T) {
	if ErrInvalidRole == nil {
		t.Error("ErrInvalidRole should not be nil")
	}
	if ErrNotAMember == nil {
		t.Error("ErrNotAMember should not be nil")
	}
	if ErrForbidden == nil {
		t.Error("ErrForbidden should not be nil")
	}
}
