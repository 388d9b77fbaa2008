package midtrans

import (
	"strings"
	"testing"
)

func TestSignatureIsDeterministicLowercaseHex(t *testing.T) {
	first := Signature("ORDER-1", "200", "100000.00", "server-key")
	second := Signature("ORDER-1", "200", "100000.00", "server-key")
	if first != second {
		t.Fatal("signature must be deterministic")
	}
	if len(first) != 128 {
		t.Fatalf("expected 128 hex chars for sha512, got %d", len(first))
	}
	if first != strings.ToLower(first) {
		t.Fatal("signature must be lowercase hex")
	}
}

func TestSignatureChangesWithAnyInput(t *testing.T) {
	base := Signature("ORDER-1", "200", "100000.00", "server-key")
	variants := []string{
		Signature("ORDER-2", "200", "100000.00", "server-key"),
		Signature("ORDER-1", "201", "100000.00", "server-key"),
		Signature("ORDER-1", "200", "100001.00", "server-key"),
		Signature("ORDER-1", "200", "100000.00", "other-key"),
	}
	for i, v := range variants {
		if v == base {
			t.Fatalf("variant %d should differ from base signature", i)
		}
	}
}

func TestVerifySignature(t *testing.T) {
	sig := Signature("ORDER-1", "200", "100000.00", "server-key")

	if !VerifySignature("ORDER-1", "200", "100000.00", "server-key", sig) {
		t.Fatal("expected matching signature to verify")
	}
	if VerifySignature("ORDER-1", "200", "100000.00", "server-key", strings.ToUpper(sig)) {
		t.Fatal("comparison must be case sensitive")
	}
	if VerifySignature("ORDER-1", "200", "100000.00", "wrong-key", sig) {
		t.Fatal("wrong server key must not verify")
	}
	if VerifySignature("ORDER-1", "200", "100000.00", "server-key", "") {
		t.Fatal("empty signature must not verify")
	}
	if VerifySignature("ORDER-1", "200", "100000.00", "", sig) {
		t.Fatal("empty server key must not verify")
	}
}
