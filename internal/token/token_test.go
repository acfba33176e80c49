package token

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "test-secret"

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := NewService([]byte(testSecret), time.Hour, 0)

	signed, expiresIn, err := svc.Issue(42)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if expiresIn != 3600 {
		t.Errorf("expiresIn = %d, want 3600", expiresIn)
	}

	userID, err := svc.Verify(signed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if userID != 42 {
		t.Errorf("userID = %d, want 42", userID)
	}
}

func TestVerifyExpired(t *testing.T) {
	svc := NewService([]byte(testSecret), time.Hour, 0)
	signed, _, err := svc.Issue(7)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	if _, err := svc.Verify(signed); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Verify after expiry = %v, want ErrExpiredToken", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewService([]byte(testSecret), time.Hour, 0)
	verifier := NewService([]byte("other-secret"), time.Hour, 0)

	signed, _, err := issuer.Issue(7)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := verifier.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify with wrong secret = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	svc := NewService([]byte(testSecret), time.Hour, 0)

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.Verify(raw); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q) = %v, want ErrInvalidToken", raw, err)
		}
	}
}

func TestRefreshIssuesNewTokenForSameSubject(t *testing.T) {
	svc := NewService([]byte(testSecret), time.Hour, 0)

	signed, _, err := svc.Issue(9)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	refreshed, expiresIn, err := svc.Refresh(signed)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if refreshed == signed {
		t.Error("Refresh returned the same token string")
	}
	if expiresIn != 3600 {
		t.Errorf("expiresIn = %d, want 3600", expiresIn)
	}

	userID, err := svc.Verify(refreshed)
	if err != nil {
		t.Fatalf("Verify refreshed: %v", err)
	}
	if userID != 9 {
		t.Errorf("userID = %d, want 9", userID)
	}
}

func TestRefreshExpiredWithoutGrace(t *testing.T) {
	svc := NewService([]byte(testSecret), time.Hour, 0)
	signed, _, err := svc.Issue(9)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(90 * time.Minute) }

	if _, _, err := svc.Refresh(signed); !errors.Is(err, ErrNotRefreshable) {
		t.Errorf("Refresh expired token = %v, want ErrNotRefreshable", err)
	}
}

func TestRefreshExpiredWithinGrace(t *testing.T) {
	svc := NewService([]byte(testSecret), time.Hour, time.Hour)
	signed, _, err := svc.Issue(9)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// 90 minutes in: the token expired 30 minutes ago, inside the 1h grace.
	svc.now = func() time.Time { return time.Now().Add(90 * time.Minute) }

	refreshed, _, err := svc.Refresh(signed)
	if err != nil {
		t.Fatalf("Refresh within grace: %v", err)
	}
	userID, err := svc.Verify(refreshed)
	if err != nil {
		t.Fatalf("Verify refreshed: %v", err)
	}
	if userID != 9 {
		t.Errorf("userID = %d, want 9", userID)
	}
}

func TestRefreshExpiredBeyondGrace(t *testing.T) {
	svc := NewService([]byte(testSecret), time.Hour, time.Hour)
	signed, _, err := svc.Issue(9)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(3 * time.Hour) }

	if _, _, err := svc.Refresh(signed); !errors.Is(err, ErrNotRefreshable) {
		t.Errorf("Refresh beyond grace = %v, want ErrNotRefreshable", err)
	}
}

func TestRefreshRejectsForgedToken(t *testing.T) {
	issuer := NewService([]byte("other-secret"), time.Hour, time.Hour)
	svc := NewService([]byte(testSecret), time.Hour, time.Hour)

	forged, _, err := issuer.Issue(9)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, _, err := svc.Refresh(forged); !errors.Is(err, ErrNotRefreshable) {
		t.Errorf("Refresh forged token = %v, want ErrNotRefreshable", err)
	}
}

func TestInvalidate(t *testing.T) {
	svc := NewService([]byte(testSecret), time.Hour, 0)

	signed, _, err := svc.Issue(3)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if err := svc.Invalidate(signed); err != nil {
		t.Errorf("Invalidate valid token: %v", err)
	}
	if err := svc.Invalidate("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Invalidate garbage = %v, want ErrInvalidToken", err)
	}
}
