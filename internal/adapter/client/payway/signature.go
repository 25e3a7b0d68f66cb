package payway

import (
	"crypto/hmac"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"strings"
)

// sign computes the gateway hash: base64 of HMAC-SHA512 over the
// concatenation of the fields in the gateway's canonical order, keyed with
// the merchant api key.
func sign(apiKey string, parts ...string) string {
	mac := hmac.New(sha512.New, []byte(apiKey))
	mac.Write([]byte(strings.Join(parts, "")))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// signatureEqual compares two hashes in constant time.
func signatureEqual(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
