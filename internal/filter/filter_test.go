package filter

import (
	"testing"

	"github.com/yottaes/ssp/internal/header"
	"github.com/yottaes/ssp/internal/keys"
)

func mustKey(t *testing.T, b byte) keys.Key {
	t.Helper()
	var k keys.Key
	for i := range k {
		k[i] = b
	}
	return k
}

func TestResolveEmptySpecMatchesAnyLiveAccount(t *testing.T) {
	r, err := Resolve(Spec{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	live := header.AccountHeader{Lamports: 1}
	if !r.Matches(live) {
		t.Fatal("expected empty filter to match a live account")
	}

	dead := header.AccountHeader{Lamports: 0}
	if r.Matches(dead) {
		t.Fatal("expected default (includeDead=false) filter to reject a dead account")
	}
}

func TestIncludeDead(t *testing.T) {
	r, err := Resolve(Spec{IncludeDead: true})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	dead := header.AccountHeader{Lamports: 0}
	if !r.Matches(dead) {
		t.Fatal("expected includeDead filter to match a dead account")
	}
}

func TestFieldPredicates(t *testing.T) {
	owner := mustKey(t, 0xAA)
	pubkey := mustKey(t, 0xBB)

	r, err := Resolve(Spec{Owner: owner.String(), Pubkey: pubkey.String(), IncludeDead: true})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	match := header.AccountHeader{Owner: owner, Pubkey: pubkey}
	if !r.Matches(match) {
		t.Fatal("expected header matching both owner and pubkey to match")
	}

	wrongOwner := header.AccountHeader{Owner: mustKey(t, 0xCC), Pubkey: pubkey}
	if r.Matches(wrongOwner) {
		t.Fatal("expected header with wrong owner to not match")
	}
}

func TestResolveInvalidFilterString(t *testing.T) {
	if _, err := Resolve(Spec{Owner: "000"}); err == nil {
		t.Fatal("expected error resolving an invalid base58 owner filter")
	}
}

func TestAllMatchesDeadAccounts(t *testing.T) {
	if !All.Matches(header.AccountHeader{Lamports: 0}) {
		t.Fatal("expected All predicate to match dead accounts")
	}
}
