package utils

import (
	"math"
	"strconv"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

// Account IDs are 64-bit; the subject claim must survive the JSON
// round-trip without float64 truncation.
func TestAccessTokenSubjectKeepsFullPrecision(t *testing.T) {
	const secret = "test-secret"
	const accountID = uint64(math.MaxUint64 - 1) // well above 2^53

	at, err := NewAccessToken(secret, accountID, "CUSTOMER", 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	tok, err := jwt.Parse(at.Token, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !tok.Valid {
		t.Fatal("parsed token is not valid")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("claims type = %T", tok.Claims)
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		t.Fatalf("sub claim type = %T, want string", claims["sub"])
	}
	got, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		t.Fatalf("ParseUint(%q): %v", sub, err)
	}
	if got != accountID {
		t.Fatalf("subject round-trip = %d, want %d", got, accountID)
	}
	if role, _ := claims["role"].(string); role != "CUSTOMER" {
		t.Fatalf("role claim = %v, want CUSTOMER", claims["role"])
	}
}
