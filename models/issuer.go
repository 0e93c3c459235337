package models

// Issuer identifies the organization issuing badges. It is embedded in every
// assertion so a badge instance stays verifiable on its own.
type Issuer struct {
	Name    string `bson:"name" json:"name" yaml:"name"`
	Org     string `bson:"org,omitempty" json:"org,omitempty" yaml:"org"`
	Contact string `bson:"contact" json:"contact" yaml:"contact"`
	Origin  string `bson:"origin" json:"origin" yaml:"origin"`
}
