package consensus

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mosaicnetworks/gcl/src/crypto"
	"github.com/mosaicnetworks/gcl/src/crypto/keys"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Signer produces and checks validator signatures over a header digest.
type Signer interface {
	Sign(v *Validator, digest string) (string, error)
	Verify(v *Validator, digest string, signature string) bool
}

// NoKeyErr is returned by a Signer that holds no key for a validator.
type NoKeyErr struct {
	Validator string
}

func (e NoKeyErr) Error() string {
	return fmt.Sprintf("no signing key for validator %s", e.Validator)
}

//==============================================================================

// HashSigner signs with H(validatorID || digest). It can sign for any
// validator.
type HashSigner struct{}

// NewHashSigner ...
func NewHashSigner() *HashSigner {
	return &HashSigner{}
}

// Sign implements the Signer interface.
func (s *HashSigner) Sign(v *Validator, digest string) (string, error) {
	return crypto.SHA256Hex(v.ID, digest), nil
}

// Verify implements the Signer interface.
func (s *HashSigner) Verify(v *Validator, digest string, signature string) bool {
	return signature == crypto.SHA256Hex(v.ID, digest)
}

//==============================================================================

// KeySigner signs header digests with secp256k1 ECDSA keys. It can only sign
// for validators whose private key it holds, but it verifies against the
// public key of any validator.
type KeySigner struct {
	l    sync.RWMutex
	keys map[string]*ecdsa.PrivateKey
}

// NewKeySigner returns a KeySigner with an empty keyring.
func NewKeySigner() *KeySigner {
	return &KeySigner{
		keys: make(map[string]*ecdsa.PrivateKey),
	}
}

// LoadKeySigner creates a KeySigner from the keyfiles found in dir, one per
// validator, named after the validator ID. Validators without a keyfile are
// skipped.
func LoadKeySigner(dir string, validators *ValidatorSet, logger *logrus.Entry) (*KeySigner, error) {
	signer := NewKeySigner()

	for _, v := range validators.Validators {
		keyfile := keys.NewSimpleKeyfile(filepath.Join(dir, v.ID))

		key, err := keyfile.ReadKey()
		if err != nil {
			if os.IsNotExist(errors.Cause(err)) {
				logger.WithField("validator", v.ID).Debug("No keyfile")
				continue
			}
			return nil, errors.Wrapf(err, "reading key of %s", v.ID)
		}

		if err := signer.AddKey(v, key); err != nil {
			return nil, err
		}

		logger.WithField("validator", v.ID).Debug("Loaded key")
	}

	return signer, nil
}

// AddKey adds a validator's private key to the keyring. The key must match
// the validator's public key.
func (s *KeySigner) AddKey(v *Validator, key *ecdsa.PrivateKey) error {
	if pub := keys.PublicKeyHex(&key.PublicKey); pub != normalizePublicKey(v.PublicKey) {
		return fmt.Errorf("key of %s does not match public key %s", v.ID, v.PublicKey)
	}

	s.l.Lock()
	defer s.l.Unlock()

	s.keys[v.ID] = key

	return nil
}

// Len returns the number of keys in the keyring.
func (s *KeySigner) Len() int {
	s.l.RLock()
	defer s.l.RUnlock()

	return len(s.keys)
}

// Sign implements the Signer interface.
func (s *KeySigner) Sign(v *Validator, digest string) (string, error) {
	s.l.RLock()
	key, ok := s.keys[v.ID]
	s.l.RUnlock()

	if !ok {
		return "", NoKeyErr{v.ID}
	}

	data, err := hex.DecodeString(digest)
	if err != nil {
		return "", errors.Wrap(err, "decoding digest")
	}

	r, sig, err := keys.Sign(key, data)
	if err != nil {
		return "", err
	}

	return keys.EncodeSignature(r, sig), nil
}

// Verify implements the Signer interface.
func (s *KeySigner) Verify(v *Validator, digest string, signature string) bool {
	pub, err := keys.ParsePublicKeyHex(v.PublicKey)
	if err != nil {
		return false
	}

	data, err := hex.DecodeString(digest)
	if err != nil {
		return false
	}

	r, sig, err := keys.DecodeSignature(signature)
	if err != nil {
		return false
	}

	return keys.Verify(pub, data, r, sig)
}
