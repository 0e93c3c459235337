package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christensenep/openbadger/models"
)

func TestBuildAssertion(t *testing.T) {
	badge := &models.Badge{
		Shortname:   "link-basic",
		Name:        "Link Badge, basic",
		Description: "For doing links.",
		Image:       "https://example.org/badge/image/link-basic.png",
	}
	issuedOn := time.Date(2013, 4, 1, 12, 0, 0, 0, time.UTC)

	serialized, err := BuildAssertion(testIssuer, badge, "brian@example.org", issuedOn)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(serialized), &decoded))
	assert.Equal(t, "brian@example.org", decoded["recipient"])
	assert.Equal(t, float64(issuedOn.Unix()), decoded["issuedOn"])

	badgeField := decoded["badge"].(map[string]interface{})
	assert.Equal(t, "link-basic", badgeField["shortname"])
	issuerField := badgeField["issuer"].(map[string]interface{})
	assert.Equal(t, "Badge Authority", issuerField["name"])
	assert.Equal(t, "https://example.org", issuerField["origin"])

	// Identical inputs serialize identically.
	again, err := BuildAssertion(testIssuer, badge, "brian@example.org", issuedOn)
	require.NoError(t, err)
	assert.Equal(t, serialized, again)
}

func TestHashAssertion(t *testing.T) {
	serialized := `{ "assertion" : "yep" }`
	sum := sha256.Sum256([]byte(serialized))
	assert.Equal(t, hex.EncodeToString(sum[:]), HashAssertion(serialized))

	assert.Equal(t, HashAssertion(serialized), HashAssertion(serialized))
	assert.NotEqual(t, HashAssertion(serialized), HashAssertion(serialized+" "))
}
