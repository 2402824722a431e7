// Package gsm knows the GSM 03.38 default alphabet and the SMS length limits
// that follow from it.
package gsm

import "unicode/utf16"

// Encoding is the data coding an SMS is sent with
type Encoding = string

const (
	GSM7 Encoding = "GSM-7"
	UCS2 Encoding = "UCS-2"
)

const (
	// GSM7SingleLimit is the number of septets in a single GSM-7 message
	GSM7SingleLimit = 160
	// GSM7PartLimit is the number of septets left per part once the
	// concatenation header is added
	GSM7PartLimit = 153
	// UCS2SingleLimit is the number of UTF-16 code units in a single UCS-2 message
	UCS2SingleLimit = 70
	// UCS2PartLimit is the number of UTF-16 code units per concatenated UCS-2 part
	UCS2PartLimit = 67
)

const basicTable = "@£$¥èéùìòÇ\nØø\rÅåΔ_ΦΓΛΩΠΨΣΘΞÆæßÉ !\"#¤%&'()*+,-./0123456789:;<=>?" +
	"¡ABCDEFGHIJKLMNOPQRSTUVWXYZÄÖÑÜ§¿abcdefghijklmnopqrstuvwxyzäöñüà"

// extensionTable characters are sent as ESC + code and cost two septets
const extensionTable = "\f^{}\\[~]|€"

var (
	basic     = runeSet(basicTable)
	extension = runeSet(extensionTable)
)

func runeSet(s string) map[rune]struct{} {
	ret := make(map[rune]struct{}, len(s))
	for _, r := range s {
		ret[r] = struct{}{}
	}
	return ret
}

// IsBasic reports whether r is in the default alphabet
func IsBasic(r rune) bool {
	_, ok := basic[r]
	return ok
}

// IsExtension reports whether r is only reachable through the extension table
func IsExtension(r rune) bool {
	_, ok := extension[r]
	return ok
}

// IsGSM7 reports whether every rune of text can be sent with GSM-7 coding
func IsGSM7(text string) bool {
	for _, r := range text {
		if !IsBasic(r) && !IsExtension(r) {
			return false
		}
	}
	return true
}

// Detect returns the coding text has to be sent with
func Detect(text string) Encoding {
	if IsGSM7(text) {
		return GSM7
	}
	return UCS2
}

// Septets returns the GSM-7 length of text. Extension characters count two,
// runes outside the alphabet count one; call IsGSM7 first when that matters.
func Septets(text string) int {
	var n int
	for _, r := range text {
		if IsExtension(r) {
			n += 2
			continue
		}
		n++
	}
	return n
}

// CodeUnits returns the UCS-2/UTF-16 length of text
func CodeUnits(text string) int {
	var n int
	for _, r := range text {
		n += utf16.RuneLen(r)
	}
	return n
}

// Length measures text in the units of enc
func Length(text string, enc Encoding) int {
	if enc == UCS2 {
		return CodeUnits(text)
	}
	return Septets(text)
}

// SingleLimit returns the capacity of a single, unconcatenated message
func SingleLimit(enc Encoding) int {
	if enc == UCS2 {
		return UCS2SingleLimit
	}
	return GSM7SingleLimit
}

// PartLimit returns the capacity of one part of a concatenated message
func PartLimit(enc Encoding) int {
	if enc == UCS2 {
		return UCS2PartLimit
	}
	return GSM7PartLimit
}

// LimitFor returns the per-part limit text should be segmented with: the
// single message limit when it fits, the concatenated part limit otherwise.
func LimitFor(text string) int {
	enc := Detect(text)
	if Length(text, enc) <= SingleLimit(enc) {
		return SingleLimit(enc)
	}
	return PartLimit(enc)
}
