package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/christensenep/openbadger/models"
)

// assertionBadge is the badge identity embedded in an assertion.
type assertionBadge struct {
	Shortname   string        `json:"shortname"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Image       string        `json:"image"`
	Issuer      models.Issuer `json:"issuer"`
}

// assertion is the serialized proof that an issuer granted a badge to a
// recipient. It is stored verbatim on the badge instance together with its
// content hash.
type assertion struct {
	Recipient string         `json:"recipient"`
	Badge     assertionBadge `json:"badge"`
	IssuedOn  int64          `json:"issuedOn"`
}

// BuildAssertion serializes the claim that issuer granted badge to email at
// issuedOn. Field order is fixed by the struct, so the output is
// deterministic for identical inputs.
func BuildAssertion(issuer models.Issuer, badge *models.Badge, email string, issuedOn time.Time) (string, error) {
	data, err := json.Marshal(assertion{
		Recipient: email,
		Badge: assertionBadge{
			Shortname:   badge.Shortname,
			Name:        badge.Name,
			Description: badge.Description,
			Image:       badge.Image,
			Issuer:      issuer,
		},
		IssuedOn: issuedOn.Unix(),
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// HashAssertion returns the hex sha256 of a serialized assertion.
func HashAssertion(serialized string) string {
	sum := sha256.Sum256([]byte(serialized))
	return hex.EncodeToString(sum[:])
}
