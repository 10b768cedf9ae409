package analysis

import (
	"strings"

	"brokerdocs/internal/domain"
)

// categoryKeywords is the expected vocabulary per document family, in
// the Spanish the source documents are written in.
var categoryKeywords = map[domain.DocumentCategory][]string{
	domain.CategoryIdentity: {
		"credencial", "elector", "instituto nacional electoral", "curp", "pasaporte",
	},
	domain.CategoryFinancial: {
		"estado de cuenta", "banco", "saldo", "clabe", "cuenta",
	},
	domain.CategoryProperty: {
		"escritura", "registro público", "folio real", "propiedad", "notario",
	},
	domain.CategoryLegal: {
		"poder", "notario", "acta", "juzgado",
	},
}

const (
	lowConfidenceThreshold = 30.0

	// Auto-validation gate.
	autoValidateConfidence = 70.0
	autoValidateLegibility = 60.0
)

// scoreConfidence measures how well the text matches the declared
// document family: keywords found over keywords expected, times 100.
// Categories without a vocabulary score neutral.
func scoreConfidence(text string, category domain.DocumentCategory) (confidence float64, found, expected int) {
	keywords := categoryKeywords[category]
	if len(keywords) == 0 {
		return neutralScore, 0, 0
	}

	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			found++
		}
	}
	expected = len(keywords)
	return float64(found) / float64(expected) * 100.0, found, expected
}

// collectIssues populates the issues list consumed by the
// auto-validation gate.
func collectIssues(confidence float64, extracted Extracted, expected int) []string {
	var issues []string
	if expected > 0 && confidence < lowConfidenceThreshold {
		issues = append(issues, "document text does not match the expected document family")
	}
	if len(extracted.Dates) == 0 {
		issues = append(issues, "no dates extracted")
	}
	return issues
}

// shouldAutoValidate is the stage-six decision: confident match, no
// issues, legible document.
func shouldAutoValidate(confidence float64, issues []string, legibility float64) bool {
	return confidence > autoValidateConfidence && len(issues) == 0 && legibility > autoValidateLegibility
}
