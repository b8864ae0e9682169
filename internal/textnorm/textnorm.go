// Package textnorm provides the string transforms used when turning
// Wildlife Insights metadata into Camtrap-DP identifiers and labels:
// slugification, accent stripping, and mojibake repair.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SlugFallback is returned by Slugify when nothing usable survives cleaning.
const SlugFallback = "wi-project"

var (
	controlChars = regexp.MustCompile(`[\x{0000}-\x{0008}\x{000B}-\x{000C}\x{000E}-\x{001F}\x{007F}]`)
	slugInvalid  = regexp.MustCompile(`[^-a-z0-9._/]+`)
	slugLeading  = regexp.MustCompile(`^[-./]+`)
	slugTrailing = regexp.MustCompile(`[-./]+$`)

	stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// normalizeUnicode recomposes the string to NFC and drops invisible
// control characters.
func normalizeUnicode(s string) string {
	return controlChars.ReplaceAllString(norm.NFC.String(s), "")
}

// StripAccents removes diacritical marks, yielding ASCII-safe output
// for accented Latin input ("Ñandú" -> "Nandu").
func StripAccents(s string) string {
	out, _, err := transform.String(stripMarks, normalizeUnicode(s))
	if err != nil {
		return normalizeUnicode(s)
	}
	return out
}

// FixMojibake repairs text whose UTF-8 bytes were misread as Latin-1
// ("AngÃ©lica" -> "Angélica"). Input that does not round-trip is returned
// normalized but otherwise unchanged. Never fails.
func FixMojibake(s string) string {
	t := normalizeUnicode(s)
	b := make([]byte, 0, len(t))
	for _, r := range t {
		if r > 0xFF {
			// Not representable in Latin-1, so this was never mojibake.
			return t
		}
		b = append(b, byte(r))
	}
	repaired := string(b)
	if !utf8.Valid(b) || repaired == t {
		return t
	}
	return normalizeUnicode(repaired)
}

// CleanText runs the full metadata cleanup used for contributor and
// organization fields: mojibake repair, whitespace compaction, accent
// stripping.
func CleanText(s string) string {
	t := FixMojibake(s)
	t = strings.Join(strings.Fields(t), " ")
	return StripAccents(t)
}

// Slugify converts a free-form name into a Camtrap-DP package slug:
// lowercase ASCII restricted to [a-z0-9-./], whitespace and underscores
// collapsed to hyphens, leading/trailing separators trimmed. Idempotent.
// An empty result yields SlugFallback.
func Slugify(s string) string {
	t := StripAccents(s)
	// Drop anything that survived NFKD but is still non-ASCII.
	var b strings.Builder
	for _, r := range t {
		if r < 0x80 {
			b.WriteRune(r)
		}
	}
	t = b.String()
	t = strings.ReplaceAll(t, " ", "-")
	t = strings.ReplaceAll(t, "_", "-")
	t = strings.ToLower(t)
	t = slugInvalid.ReplaceAllString(t, "")
	t = slugLeading.ReplaceAllString(t, "")
	t = slugTrailing.ReplaceAllString(t, "")
	if t == "" {
		return SlugFallback
	}
	return t
}
