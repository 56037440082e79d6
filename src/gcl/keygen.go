package gcl

import (
	"fmt"
	"os"

	"github.com/mosaicnetworks/gcl/src/config"
	"github.com/mosaicnetworks/gcl/src/consensus"
	"github.com/mosaicnetworks/gcl/src/crypto/keys"
)

// Keygen creates a new key for validatorID under the keys directory of conf
// and returns the validator entry to add to validators.json. It refuses to
// overwrite an existing key.
func Keygen(conf *config.Config, validatorID string) (*consensus.Validator, error) {
	path := conf.Keyfile(validatorID)

	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("a key already lives under %s", path)
	}

	key, err := keys.GenerateECDSAKey()
	if err != nil {
		return nil, err
	}

	if err := keys.NewSimpleKeyfile(path).WriteKey(key); err != nil {
		return nil, err
	}

	return consensus.NewValidator(validatorID, keys.PublicKeyHex(&key.PublicKey)), nil
}
