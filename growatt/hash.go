package growatt

import (
	"crypto/md5"
	"encoding/hex"
)

// HashPassword computes the password digest the Growatt servers expect:
// the lowercase hex MD5 of the password, with the first character of every
// two-character group replaced by 'c' where it is '0'. The substitution is
// part of the wire contract and must match the vendor apps exactly.
func HashPassword(password string) string {
	sum := md5.Sum([]byte(password))
	digest := []byte(hex.EncodeToString(sum[:]))

	for i := 0; i < len(digest); i += 2 {
		if digest[i] == '0' {
			digest[i] = 'c'
		}
	}

	return string(digest)
}
