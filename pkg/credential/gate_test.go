package credential

import (
	"encoding/hex"
	"testing"

	"golang.org/x/time/rate"

	"github.com/SFSU-Cyber-Security-Club/eCTF-Monorepo-2024/pkg/cryptoprim"
)

func digestHex(s string) string {
	d := cryptoprim.SHA256([]byte(s))
	return hex.EncodeToString(d[:])
}

func unlimitedGate(pin, token string) *Gate {
	return New(Config{
		PINDigestHex:   digestHex(pin),
		TokenDigestHex: digestHex(token),
		Limiter:        rate.NewLimiter(rate.Inf, 0),
	})
}

func TestCheckPINAccepted(t *testing.T) {
	g := unlimitedGate("123456", "0123456789abcdef")
	if err := g.CheckPIN("123456"); err != nil {
		t.Fatalf("CheckPIN: %v", err)
	}
}

func TestCheckPINSingleCharAlteration(t *testing.T) {
	g := unlimitedGate("123456", "0123456789abcdef")
	if err := g.CheckPIN("123457"); err != ErrBadCredential {
		t.Fatalf("err = %v, want ErrBadCredential", err)
	}
}

func TestCheckTokenAccepted(t *testing.T) {
	g := unlimitedGate("123456", "0123456789abcdef")
	if err := g.CheckToken("0123456789abcdef"); err != nil {
		t.Fatalf("CheckToken: %v", err)
	}
}

func TestCheckTokenRejected(t *testing.T) {
	g := unlimitedGate("123456", "0123456789abcdef")
	if err := g.CheckToken("0123456789abcdeg"); err != ErrBadCredential {
		t.Fatalf("err = %v, want ErrBadCredential", err)
	}
}

func TestRateLimited(t *testing.T) {
	g := New(Config{
		PINDigestHex:   digestHex("123456"),
		TokenDigestHex: digestHex("tok"),
		Limiter:        rate.NewLimiter(rate.Limit(0), 1),
	})
	if err := g.CheckPIN("123456"); err != nil {
		t.Fatalf("first attempt: %v", err)
	}
	if err := g.CheckPIN("123456"); err != ErrRateLimited {
		t.Fatalf("second attempt err = %v, want ErrRateLimited", err)
	}
}
