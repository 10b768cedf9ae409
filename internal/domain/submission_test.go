package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDocumentSubmission_Expired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.False(t, (&DocumentSubmission{}).Expired(now), "no expiry date never expires")
	assert.True(t, (&DocumentSubmission{ExpiryDate: &past}).Expired(now))
	assert.False(t, (&DocumentSubmission{ExpiryDate: &future}).Expired(now))
}

func TestDocumentSubmission_ExpiringSoon(t *testing.T) {
	now := time.Now()
	in10Days := now.Add(10 * 24 * time.Hour)
	in45Days := now.Add(45 * 24 * time.Hour)
	past := now.Add(-time.Hour)

	assert.True(t, (&DocumentSubmission{ExpiryDate: &in10Days}).ExpiringSoon(now))
	assert.False(t, (&DocumentSubmission{ExpiryDate: &in45Days}).ExpiringSoon(now))
	assert.False(t, (&DocumentSubmission{ExpiryDate: &past}).ExpiringSoon(now), "already expired is not expiring soon")
	assert.False(t, (&DocumentSubmission{}).ExpiringSoon(now))
}

func TestPartyType_Valid(t *testing.T) {
	for _, p := range []PartyType{PartyOfferer, PartyAcquirer, PartyCoOwner, PartyPrincipalCoOwner, PartyBoth} {
		assert.True(t, p.Valid(), string(p))
	}
	assert.False(t, PartyType("notary").Valid())
	assert.False(t, PartyType("").Valid())
}

func TestPartyType_CoOwnerBound(t *testing.T) {
	assert.True(t, PartyCoOwner.CoOwnerBound())
	assert.True(t, PartyPrincipalCoOwner.CoOwnerBound())
	assert.True(t, PartyBoth.CoOwnerBound())
	assert.False(t, PartyOfferer.CoOwnerBound())
	assert.False(t, PartyAcquirer.CoOwnerBound())
}
