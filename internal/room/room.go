// Package room derives the broadcast room name for a pair of users.
package room

import (
	"crypto/sha256"
	"encoding/hex"
)

// Derive maps an unordered pair of user ids to a stable room id:
// sha-256 of the sorted ids joined with "_", hex-encoded. The sort
// makes it commutative, so both sides of a conversation land in the
// same room no matter who joins first.
func Derive(userID, targetUserID string) string {
	a, b := userID, targetUserID
	if b < a {
		a, b = b, a
	}
	sum := sha256.Sum256([]byte(a + "_" + b))
	return hex.EncodeToString(sum[:])
}
