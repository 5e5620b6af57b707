package domain

import (
	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// ValidMintAddress reports whether s is a base58-encoded ed25519 public key.
// Mints are keypair addresses, so they must decode to 32 bytes on the curve.
func ValidMintAddress(s string) bool {
	if s == "" {
		return false
	}
	decoded, err := base58.Decode(s)
	if err != nil || len(decoded) != 32 {
		return false
	}
	_, err = new(edwards25519.Point).SetBytes(decoded)
	return err == nil
}
