// Package utils provides small formatting helpers shared by the cms and
// httpapi packages.
package utils

import (
	"encoding/hex"
	"strings"
	"time"
)

// asn1TimeLayout mirrors OpenSSL's ASN1_TIME_print output, e.g.
// "Jul 30 14:05:09 2026 GMT". OpenSSL pads single-digit days with a space
// rather than a zero, which is what Go's "_2" day verb produces.
const asn1TimeLayout = "Jan _2 15:04:05 2006 GMT"

// FormatASN1Time renders t the way OpenSSL's command-line tools print
// ASN.1 UTCTime/GeneralizedTime values.
func FormatASN1Time(t time.Time) string {
	return t.UTC().Format(asn1TimeLayout)
}

// UpperHex returns the uppercase hexadecimal encoding of b, with no
// separators, matching the convention the verifier uses for digests.
func UpperHex(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}
