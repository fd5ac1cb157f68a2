package canonical

import (
	"crypto/sha256"
	"encoding/hex"
)

// Domain prefixes for content hashes. The version suffix leaves room for a
// future algorithm change without colliding with old fingerprints.
const (
	DomainReport = "draudit/report/v1"
	DomainDelta  = "draudit/delta/v1"
)

// Hash computes SHA-256 over domain + 0x00 + canonical(v). The null byte
// separates domain from payload so no domain string can alias into the
// data.
func Hash(domain string, v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}
