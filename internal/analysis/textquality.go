package analysis

import (
	"strings"
	"unicode"
)

const (
	// minNativeTextLen is the minimum usable length for embedded PDF text.
	minNativeTextLen = 20
	// maxMojibakeRatio rejects native text dominated by garbage glyphs,
	// the signature of a scanned PDF with a broken text layer.
	maxMojibakeRatio = 0.30
)

// nativeTextUsable decides whether embedded PDF text can replace OCR.
func nativeTextUsable(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minNativeTextLen {
		return false
	}
	return mojibakeRatio(trimmed) < maxMojibakeRatio
}

// mojibakeRatio is the proportion of runes that no readable document
// should contain: replacement characters, control codes and symbols
// outside common Latin text.
func mojibakeRatio(text string) float64 {
	total := 0
	garbage := 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if isMojibakeRune(r) {
			garbage++
		}
	}
	if total == 0 {
		return 1.0
	}
	return float64(garbage) / float64(total)
}

func isMojibakeRune(r rune) bool {
	if r == unicode.ReplacementChar {
		return true
	}
	if unicode.IsControl(r) {
		return true
	}
	if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
		// Letters far outside Latin ranges in a Spanish-language document
		// are almost always decoding artifacts.
		if unicode.IsLetter(r) && r > 0x024F {
			return true
		}
		return false
	}
	return true
}
