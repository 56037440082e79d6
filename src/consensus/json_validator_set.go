package consensus

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	jsonValidatorSetPath = "validators.json"
)

// JSONValidatorSet reads and writes a validator list as a JSON file.
type JSONValidatorSet struct {
	l    sync.Mutex
	path string
}

// NewJSONValidatorSet creates a JSONValidatorSet for the validators.json file
// of the base directory.
func NewJSONValidatorSet(base string) *JSONValidatorSet {
	return NewJSONValidatorSetFile(filepath.Join(base, jsonValidatorSetPath))
}

// NewJSONValidatorSetFile creates a JSONValidatorSet for an explicit file.
func NewJSONValidatorSetFile(path string) *JSONValidatorSet {
	return &JSONValidatorSet{
		path: path,
	}
}

// Path returns the underlying file path.
func (j *JSONValidatorSet) Path() string {
	return j.path
}

// ValidatorSet parses the underlying JSON file and returns the corresponding
// ValidatorSet.
func (j *JSONValidatorSet) ValidatorSet() (*ValidatorSet, error) {
	j.l.Lock()
	defer j.l.Unlock()

	buf, err := os.ReadFile(j.path)
	if err != nil {
		return nil, err
	}

	var validators []*Validator
	if len(bytes.TrimSpace(buf)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(buf))
		if err := dec.Decode(&validators); err != nil {
			return nil, err
		}
	}

	cleanseValidators(validators)

	return NewValidatorSet(validators), nil
}

// cleanseValidators standardises public key strings to the form
// keys.PublicKeyHex produces.
func cleanseValidators(validators []*Validator) {
	for _, v := range validators {
		v.PublicKey = normalizePublicKey(v.PublicKey)
	}
}

func normalizePublicKey(pub string) string {
	return strings.TrimPrefix(strings.ToLower(pub), "0x")
}

// Write persists a list of validators to the JSON file.
func (j *JSONValidatorSet) Write(validators []*Validator) error {
	j.l.Lock()
	defer j.l.Unlock()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "\t")
	if err := enc.Encode(validators); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(j.path), 0700); err != nil {
		return err
	}

	return os.WriteFile(j.path, buf.Bytes(), 0644)
}
