package consensus

// ValidatorSet is the static set of validators of a ledger. It must not be
// modified after construction.
type ValidatorSet struct {
	Validators []*Validator          `json:"validators"`
	ByID       map[string]*Validator `json:"-"`

	threshold int
}

// NewValidatorSet creates a ValidatorSet from a list of Validators. When an
// ID appears more than once, the first occurrence is kept.
func NewValidatorSet(validators []*Validator) *ValidatorSet {
	validatorSet := &ValidatorSet{
		Validators: []*Validator{},
		ByID:       make(map[string]*Validator),
	}

	for _, v := range validators {
		if _, ok := validatorSet.ByID[v.ID]; ok {
			continue
		}
		validatorSet.ByID[v.ID] = v
		validatorSet.Validators = append(validatorSet.Validators, v)
	}

	validatorSet.threshold = 2 * len(validatorSet.Validators) / 3

	return validatorSet
}

// Len returns the number of Validators in the ValidatorSet
func (vs *ValidatorSet) Len() int {
	return len(vs.Validators)
}

// Threshold returns floor(2n/3), the number of signatures needed to finalize
// a block.
func (vs *ValidatorSet) Threshold() int {
	return vs.threshold
}

// IDs returns the validator IDs in set order
func (vs *ValidatorSet) IDs() []string {
	res := make([]string, 0, len(vs.Validators))
	for _, v := range vs.Validators {
		res = append(res, v.ID)
	}
	return res
}

// Get returns the validator with the given ID.
func (vs *ValidatorSet) Get(id string) (*Validator, bool) {
	v, ok := vs.ByID[id]
	return v, ok
}
