package consensus

// Validator is a participant whose signature counts towards quorum.
type Validator struct {
	ID        string `json:"id"`
	PublicKey string `json:"publicKey"`
}

// NewValidator ...
func NewValidator(id, publicKey string) *Validator {
	return &Validator{
		ID:        id,
		PublicKey: publicKey,
	}
}

// DefaultValidators returns the mock validator set used when no
// validators.json is provided.
func DefaultValidators() []*Validator {
	return []*Validator{
		NewValidator("val1", "pub1"),
		NewValidator("val2", "pub2"),
		NewValidator("val3", "pub3"),
	}
}
