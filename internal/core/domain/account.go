package domain

import "time"

// Address is an opaque account identifier: a Stellar-style ed25519 public
// key string. The ledger never interprets it beyond format checks.
type Address string

const addressLen = 56

// Valid reports whether the address has the expected public-key shape.
func (a Address) Valid() bool {
	if len(a) != addressLen || a[0] != 'G' {
		return false
	}
	for _, c := range a {
		if (c < 'A' || c > 'Z') && (c < '2' || c > '7') {
			return false
		}
	}
	return true
}

// Role is the access level recorded for an account.
// Admin membership is tracked separately (ordered admin set) and is additive:
// promoting a user to admin does not change the stored role.
type Role string

const (
	RoleOwner Role = "OWNER"
	RoleUser  Role = "USER"
)

// Account is a registered ledger participant. The API secret used for
// request signing is stored AES-GCM encrypted and never exposed after
// registration.
type Account struct {
	Address      Address   `json:"address"`
	Role         Role      `json:"role"`
	SecretEnc    string    `json:"-"`
	RegisteredAt time.Time `json:"registered_at"`
}

// IsOwner reports whether the account is the ledger owner.
func (a *Account) IsOwner() bool {
	return a.Role == RoleOwner
}

// AdminEntry is one member of the ordered admin set. Position preserves
// insertion order; the owner is seeded at position zero.
type AdminEntry struct {
	Address Address   `json:"address"`
	AddedAt time.Time `json:"added_at"`
}
