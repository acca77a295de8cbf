package domain

import (
	"strings"
	"testing"
	"time"
)

func TestAppointmentTransitions(t *testing.T) {
	cases := []struct {
		from, to AppointmentStatus
		ok       bool
	}{
		{StatusScheduled, StatusConfirmed, true},
		{StatusScheduled, StatusCancelled, true},
		{StatusScheduled, StatusNoShow, true},
		{StatusScheduled, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusScheduled, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusScheduled, false},
		{StatusNoShow, StatusConfirmed, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.ok {
			t.Fatalf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}

func TestStatusLabel(t *testing.T) {
	if got := StatusConfirmed.Label("en"); got != "Confirmed" {
		t.Fatalf("en label: %q", got)
	}
	if got := StatusCancelled.Label("el"); got != "Ακυρωμένο" {
		t.Fatalf("el label: %q", got)
	}
	// Unknown locale falls back to English.
	if got := StatusNoShow.Label("fr"); got != "No show" {
		t.Fatalf("fallback label: %q", got)
	}
}

func TestSessionClaims_ParseAndExpiry(t *testing.T) {
	now := time.Now().UTC()
	claims := &SessionClaims{
		UserID:  "u1",
		Role:    RoleClinic,
		Token:   "tok",
		Expires: now.Add(time.Hour),
	}

	encoded := claims.Encode()
	if strings.ContainsAny(encoded, `"=,; `) {
		t.Fatalf("encoded claims %q are not cookie-safe", encoded)
	}
	parsed, ok := ParseSessionClaims(encoded)
	if !ok {
		t.Fatalf("round-trip parse failed")
	}
	if parsed.UserID != "u1" || parsed.Role != RoleClinic || parsed.Token != "tok" {
		t.Fatalf("unexpected claims: %+v", parsed)
	}
	if parsed.Expired(now) {
		t.Fatalf("claims should not be expired")
	}
	if !parsed.Expired(now.Add(2 * time.Hour)) {
		t.Fatalf("claims should be expired after their deadline")
	}
}

func TestParseSessionClaims_Malformed(t *testing.T) {
	for _, raw := range []string{"", "not-json", "{}", `{"role":"admin"}`} {
		if _, ok := ParseSessionClaims(raw); ok {
			t.Fatalf("ParseSessionClaims(%q) should fail", raw)
		}
	}
}
