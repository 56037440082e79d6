package consensus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONValidatorSet(t *testing.T) {
	dir := t.TempDir()
	jvs := NewJSONValidatorSet(dir)
	assert.Equal(t, filepath.Join(dir, "validators.json"), jvs.Path())

	_, err := jvs.ValidatorSet()
	assert.True(t, os.IsNotExist(err))

	validators := []*Validator{
		NewValidator("alice", "0XABCDEF"),
		NewValidator("bob", "012345"),
	}
	require.NoError(t, jvs.Write(validators))

	vs, err := jvs.ValidatorSet()
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "bob"}, vs.IDs())
	assert.Equal(t, 1, vs.Threshold())

	alice, ok := vs.Get("alice")
	require.True(t, ok)
	assert.Equal(t, "abcdef", alice.PublicKey)
}

func TestJSONValidatorSetEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0644))

	vs, err := NewJSONValidatorSetFile(path).ValidatorSet()
	require.NoError(t, err)
	assert.Equal(t, 0, vs.Len())
	assert.Equal(t, 0, vs.Threshold())
}

func TestDefaultValidators(t *testing.T) {
	vs := NewValidatorSet(DefaultValidators())
	assert.Equal(t, []string{"val1", "val2", "val3"}, vs.IDs())
	assert.Equal(t, 2, vs.Threshold())
}
