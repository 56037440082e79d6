package consensus

// Signature is a validator's endorsement of a block header.
type Signature struct {
	Validator string `json:"validator"`
	Signature string `json:"signature"`
}
