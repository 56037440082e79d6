package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SHA256 returns the SHA256 hash of the data.
func SHA256(data []byte) []byte {
	hasher := sha256.New()
	hasher.Write(data)
	hash := hasher.Sum(nil)
	return hash
}

// SHA256Hex returns the lowercase hex SHA256 digest of the concatenation of
// parts. There is no separator between parts.
func SHA256Hex(parts ...string) string {
	hasher := sha256.New()
	for _, p := range parts {
		hasher.Write([]byte(p))
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

// SimpleHashFromTwoHashes returns the hex digest of the concatenation of two
// hex digests, left first.
func SimpleHashFromTwoHashes(left, right string) string {
	return SHA256Hex(left, right)
}

// IsDigest reports whether s looks like a SHA256Hex output.
func IsDigest(s string) bool {
	if len(s) != 2*sha256.Size || strings.ToLower(s) != s {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
