// Package filter resolves the optional owner/hash/pubkey/include-dead
// configuration into an immutable predicate shared read-only across
// parser workers (spec §3, §4.2).
package filter

import (
	"github.com/yottaes/ssp/internal/header"
	"github.com/yottaes/ssp/internal/keys"
	"github.com/yottaes/ssp/internal/perr"
)

// Spec mirrors the user-supplied, pre-resolution filter values. Owner,
// Hash, and Pubkey are base58 strings; resolving them to Key is an
// external (CLI-facing) concern per spec §1, but Resolve itself lives
// here since it's the boundary where InvalidFilter errors originate
// (spec §7 item 5).
type Spec struct {
	Owner       string
	Hash        string
	Pubkey      string
	IncludeDead bool
}

// Resolved is an immutable predicate with three optional fields (owner,
// hash, pubkey) plus IncludeDead. The zero value matches every non-dead header.
type Resolved struct {
	owner       *keys.Key
	hash        *[32]byte
	pubkey      *keys.Key
	includeDead bool
}

// Resolve decodes s's base58 fields into a Resolved predicate. An empty
// string for a field leaves that field absent (always matches).
func Resolve(s Spec) (Resolved, error) {
	var r Resolved
	r.includeDead = s.IncludeDead

	if s.Owner != "" {
		k, err := keys.Parse(s.Owner)
		if err != nil {
			return Resolved{}, perr.New(perr.KindInvalidFilter, "filter.Resolve", err)
		}
		r.owner = &k
	}
	if s.Pubkey != "" {
		k, err := keys.Parse(s.Pubkey)
		if err != nil {
			return Resolved{}, perr.New(perr.KindInvalidFilter, "filter.Resolve", err)
		}
		r.pubkey = &k
	}
	if s.Hash != "" {
		k, err := keys.Parse(s.Hash)
		if err != nil {
			return Resolved{}, perr.New(perr.KindInvalidFilter, "filter.Resolve", err)
		}
		var h [32]byte
		copy(h[:], k[:])
		r.hash = &h
	}
	return r, nil
}

// All is the predicate that matches every header (IncludeDead=true, no
// field constraints). Useful as a default / in tests.
var All = Resolved{includeDead: true}

// Matches reports whether h satisfies r: (includeDead or lamports != 0)
// AND every present field equals the corresponding header field.
func (r Resolved) Matches(h header.AccountHeader) bool {
	if !r.includeDead && h.Lamports == 0 {
		return false
	}
	if r.owner != nil && *r.owner != h.Owner {
		return false
	}
	if r.pubkey != nil && *r.pubkey != h.Pubkey {
		return false
	}
	if r.hash != nil && *r.hash != h.Hash {
		return false
	}
	return true
}
