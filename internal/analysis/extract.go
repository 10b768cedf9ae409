package analysis

import (
	"regexp"
	"strings"

	"brokerdocs/internal/domain"
)

// Pattern sets for structured extraction over OCR text. Identifier
// formats follow the official Mexican registries (CURP, RFC, CLABE).
var (
	numericDateRe = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`)
	isoDateRe     = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	longDateRe    = regexp.MustCompile(`(?i)\b\d{1,2}\s+de\s+(?:enero|febrero|marzo|abril|mayo|junio|julio|agosto|septiembre|octubre|noviembre|diciembre)\s+(?:de\s+)?\d{4}\b`)

	curpRe = regexp.MustCompile(`\b[A-Z]{4}\d{6}[HM][A-Z]{5}[A-Z0-9]\d\b`)
	rfcRe  = regexp.MustCompile(`\b[A-ZÑ&]{3,4}\d{6}[A-Z0-9]{3}\b`)

	nameRe = regexp.MustCompile(`\b[A-ZÁÉÍÓÚÑ][a-záéíóúñ]+(?:\s+[A-ZÁÉÍÓÚÑ][a-záéíóúñ]+){1,3}\b`)

	clabeRe   = regexp.MustCompile(`\b\d{18}\b`)
	accountRe = regexp.MustCompile(`\b\d{10,16}\b`)
	amountRe  = regexp.MustCompile(`\$\s?\d[\d,]*(?:\.\d{2})?`)

	deedRe  = regexp.MustCompile(`(?i)escritura\s+(?:p[uú]blica\s+)?(?:n[uú]mero|no\.?|#)?\s*([\d,]+)`)
	folioRe = regexp.MustCompile(`(?i)folio\s+(?:real\s+)?(?:n[uú]mero|no\.?)?\s*([\dA-Z-]{3,})`)
)

// maxMatchesPerField caps noisy OCR output.
const maxMatchesPerField = 10

// extractMetadata runs the pattern matchers over the text. Date, name
// and national-identifier extraction always runs; account, amount and
// deed extraction is targeted by document category.
func extractMetadata(text string, category domain.DocumentCategory) Extracted {
	ex := Extracted{}
	if strings.TrimSpace(text) == "" {
		return ex
	}

	ex.Dates = appendUnique(ex.Dates, numericDateRe.FindAllString(text, maxMatchesPerField))
	ex.Dates = appendUnique(ex.Dates, isoDateRe.FindAllString(text, maxMatchesPerField))
	ex.Dates = appendUnique(ex.Dates, longDateRe.FindAllString(text, maxMatchesPerField))

	ex.Names = appendUnique(nil, nameRe.FindAllString(text, maxMatchesPerField))
	ex.CURPs = appendUnique(nil, curpRe.FindAllString(text, maxMatchesPerField))
	ex.RFCs = appendUnique(nil, rfcRe.FindAllString(text, maxMatchesPerField))

	switch category {
	case domain.CategoryFinancial:
		ex.Accounts = appendUnique(nil, clabeRe.FindAllString(text, maxMatchesPerField))
		ex.Accounts = appendUnique(ex.Accounts, accountRe.FindAllString(text, maxMatchesPerField))
		ex.Amounts = appendUnique(nil, amountRe.FindAllString(text, maxMatchesPerField))
	case domain.CategoryProperty, domain.CategoryLegal:
		for _, m := range deedRe.FindAllStringSubmatch(text, maxMatchesPerField) {
			ex.DeedNumbers = appendUnique(ex.DeedNumbers, []string{m[1]})
		}
		for _, m := range folioRe.FindAllStringSubmatch(text, maxMatchesPerField) {
			ex.DeedNumbers = appendUnique(ex.DeedNumbers, []string{m[1]})
		}
	}

	return ex
}

func appendUnique(dst []string, matches []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, v := range dst {
		seen[v] = true
	}
	for _, m := range matches {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		dst = append(dst, m)
		if len(dst) >= maxMatchesPerField {
			break
		}
	}
	return dst
}
