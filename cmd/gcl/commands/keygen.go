package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mosaicnetworks/gcl/src/config"
	"github.com/mosaicnetworks/gcl/src/consensus"
	"github.com/mosaicnetworks/gcl/src/gcl"
	"github.com/spf13/cobra"
)

var (
	keygenDataDir = config.DefaultDataDir()
	validatorID   string
	addValidator  bool
)

// NewKeygenCmd produces a KeygenCmd which creates the key of a validator
func NewKeygenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Create the key pair of a validator",
		RunE:  keygen,
	}

	AddKeygenFlags(cmd)

	return cmd
}

//AddKeygenFlags adds flags to the keygen command
func AddKeygenFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&keygenDataDir, "datadir", keygenDataDir, "Top-level directory for configuration and data")
	cmd.Flags().StringVar(&validatorID, "id", "", "Validator ID")
	cmd.Flags().BoolVar(&addValidator, "add", false, "Add the validator to [datadir]/validators.json")
	cmd.MarkFlagRequired("id")
}

func keygen(cmd *cobra.Command, args []string) error {
	conf := config.NewDefaultConfig()
	conf.SetDataDir(keygenDataDir)

	validator, err := gcl.Keygen(conf, validatorID)
	if err != nil {
		return err
	}

	fmt.Printf("Your private key has been saved to: %s\n", conf.Keyfile(validatorID))

	if addValidator {
		if err := appendValidator(conf.Validators(), validator); err != nil {
			return fmt.Errorf("Writing validators: %s", err)
		}
		fmt.Printf("Added %s to: %s\n", validatorID, conf.Validators())
	}

	out, err := json.MarshalIndent(validator, "", "\t")
	if err != nil {
		return err
	}

	fmt.Println(string(out))

	return nil
}

func appendValidator(path string, validator *consensus.Validator) error {
	file := consensus.NewJSONValidatorSetFile(path)

	validators := []*consensus.Validator{}

	vs, err := file.ValidatorSet()
	switch {
	case err == nil:
		if _, ok := vs.Get(validator.ID); ok {
			return fmt.Errorf("validator %s already listed", validator.ID)
		}
		validators = vs.Validators
	case !os.IsNotExist(err):
		return err
	}

	return file.Write(append(validators, validator))
}
