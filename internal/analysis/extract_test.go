package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"brokerdocs/internal/domain"
)

func TestExtractMetadata_IdentityDocument(t *testing.T) {
	text := `INSTITUTO NACIONAL ELECTORAL
Nombre: Ana María Torres López
CURP: TOLA850312MDFRRN09
Clave de elector: TRLPAN85031209M100
Vigencia: 31/12/2030`

	ex := extractMetadata(text, domain.CategoryIdentity)

	assert.Contains(t, ex.CURPs, "TOLA850312MDFRRN09")
	assert.Contains(t, ex.Dates, "31/12/2030")
	assert.NotEmpty(t, ex.Names)
	assert.Empty(t, ex.Accounts)
	assert.Empty(t, ex.DeedNumbers)
}

func TestExtractMetadata_FinancialDocument(t *testing.T) {
	text := `BANCO NACIONAL Estado de cuenta
RFC: TOLA850312AB1
CLABE: 012180001234567897
Saldo al 2024-03-31: $45,230.18`

	ex := extractMetadata(text, domain.CategoryFinancial)

	assert.Contains(t, ex.RFCs, "TOLA850312AB1")
	assert.Contains(t, ex.Accounts, "012180001234567897")
	assert.Contains(t, ex.Amounts, "$45,230.18")
	assert.Contains(t, ex.Dates, "2024-03-31")
}

func TestExtractMetadata_PropertyDeed(t *testing.T) {
	text := `Escritura Pública Número 48,215 otorgada el 15 de marzo de 2019
ante el Notario 12. Folio Real 987654-B`

	ex := extractMetadata(text, domain.CategoryProperty)

	assert.Contains(t, ex.DeedNumbers, "48,215")
	assert.Contains(t, ex.DeedNumbers, "987654-B")
	assert.Contains(t, ex.Dates, "15 de marzo de 2019")
}

func TestExtractMetadata_SpanishLongDateVariants(t *testing.T) {
	ex := extractMetadata("Firmado el 1 de enero 2020 y ratificado el 28 de febrero de 2021", domain.CategoryLegal)

	assert.Contains(t, ex.Dates, "1 de enero 2020")
	assert.Contains(t, ex.Dates, "28 de febrero de 2021")
}

func TestExtractMetadata_EmptyText(t *testing.T) {
	ex := extractMetadata("   ", domain.CategoryIdentity)

	assert.Empty(t, ex.Dates)
	assert.Empty(t, ex.Names)
	assert.Empty(t, ex.CURPs)
}

func TestExtractMetadata_DeduplicatesMatches(t *testing.T) {
	ex := extractMetadata("01/02/2024 y otra vez 01/02/2024", domain.CategoryOther)

	assert.Equal(t, []string{"01/02/2024"}, ex.Dates)
}
