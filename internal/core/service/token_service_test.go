package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cinefavs/catalog-api/internal/core/domain"
)

func TestTokenService_IssueVerify(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	token, expiresAt, err := svc.Issue(domain.Claims{UserID: 7, Username: "alice"})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if time.Until(expiresAt) <= 59*time.Minute {
		t.Fatalf("unexpected expiry: %v", expiresAt)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenService_DefaultTTL(t *testing.T) {
	svc := NewTokenService("secret", 0)
	if svc.ttl != 24*time.Hour {
		t.Fatalf("expected 24h default ttl, got %v", svc.ttl)
	}
}

func TestTokenService_ExpiredIsDistinctFromTampered(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	issuedAt := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issuedAt }

	expired, _, err := svc.Issue(domain.Claims{UserID: 1, Username: "alice"})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	svc.now = time.Now

	_, err = svc.Verify(expired)
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}

	fresh, _, _ := svc.Issue(domain.Claims{UserID: 1, Username: "alice"})
	parts := strings.Split(fresh, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = svc.Verify(tampered)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("tampered token must not be reported as expired")
	}
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("token errors should wrap ErrUnauthorized")
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	token, _, _ := NewTokenService("one", time.Hour).Issue(domain.Claims{UserID: 1, Username: "alice"})

	if _, err := NewTokenService("two", time.Hour).Verify(token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.MapClaims{
		"user_id":  1,
		"username": "alice",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign hs512: %v", err)
	}

	svc := NewTokenService("secret", time.Hour)
	for _, tok := range []string{none, hs512} {
		if _, err := svc.Verify(tok); !errors.Is(err, domain.ErrTokenInvalid) {
			t.Fatalf("expected ErrTokenInvalid, got %v", err)
		}
	}
}

func TestTokenService_RequiresIdentityClaims(t *testing.T) {
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))

	if _, err := NewTokenService("secret", time.Hour).Verify(tok); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
