package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/mosaicnetworks/gcl/src/client"
	"github.com/mosaicnetworks/gcl/src/config"
	"github.com/mosaicnetworks/gcl/src/crypto"
	"github.com/mosaicnetworks/gcl/src/ledger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	nodeAddr  = config.DefaultServiceAddr
	clientLog = "warn"

	submitOrigin   = "cli"
	submitKind     = "message"
	submitProposer string
	submitBatch    bool
)

// NewClientCmds returns the commands that talk to a running node.
func NewClientCmds() []*cobra.Command {
	submitCmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit one transaction per line of stdin",
		RunE:  submit,
	}
	submitCmd.Flags().StringVar(&submitOrigin, "origin", submitOrigin, "Origin of the transactions")
	submitCmd.Flags().StringVar(&submitKind, "kind", submitKind, "Kind of the transactions")
	submitCmd.Flags().StringVar(&submitProposer, "proposer", "", "Block proposer (default: the node's)")
	submitCmd.Flags().BoolVar(&submitBatch, "batch", false, "Submit all lines as a single block")

	blockCmd := &cobra.Command{
		Use:   "block [height]",
		Short: "Print a finalized block",
		Args:  cobra.ExactArgs(1),
		RunE:  getBlock,
	}

	proofCmd := &cobra.Command{
		Use:   "proof [txid]",
		Short: "Fetch and check the inclusion proof of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE:  getProof,
	}

	cmds := []*cobra.Command{submitCmd, blockCmd, proofCmd}
	for _, cmd := range cmds {
		cmd.Flags().StringVar(&nodeAddr, "node", nodeAddr, "IP:Port of the node HTTP service")
		cmd.Flags().StringVar(&clientLog, "log", clientLog, "debug, info, warn, error, fatal, panic")
	}

	return cmds
}

func newClient() *client.Client {
	logger := logrus.New()
	logger.Level = config.LogLevel(clientLog)
	return client.NewClient(nodeAddr, logger.WithField("prefix", "client"))
}

func submit(cmd *cobra.Command, args []string) error {
	txs, err := readTransactions(os.Stdin)
	if err != nil {
		return err
	}

	c := newClient()

	if submitBatch {
		if len(txs) == 0 {
			return nil
		}
		receipt, err := c.Submit(txs, submitProposer)
		if err != nil {
			return err
		}
		return printJSON(receipt)
	}

	for _, tx := range txs {
		receipt, err := c.Submit([]ledger.Transaction{tx}, submitProposer)
		if err != nil {
			fmt.Printf("Error submitting %s: %v\n", tx.ID, err)
			continue
		}
		fmt.Printf("%s finalized at height %d\n", tx.ID, receipt.Height)
	}

	return nil
}

// readTransactions turns every non-empty line of r into a transaction whose
// id is derived from its content and the time it was read.
func readTransactions(r io.Reader) ([]ledger.Transaction, error) {
	txs := []ledger.Transaction{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		text := scanner.Text()
		if text == "" {
			continue
		}

		nonce := strconv.FormatInt(time.Now().UnixNano(), 10)

		txs = append(txs, ledger.Transaction{
			ID:      crypto.SHA256Hex(submitOrigin, text, nonce, strconv.Itoa(len(txs)))[:16],
			Kind:    submitKind,
			Origin:  submitOrigin,
			Payload: text,
		})
	}

	return txs, scanner.Err()
}

func getBlock(cmd *cobra.Command, args []string) error {
	height, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid height %q", args[0])
	}

	block, err := newClient().GetBlock(height)
	if err != nil {
		return err
	}

	return printJSON(block)
}

// getProof checks the proof against the block the node claims holds the
// transaction, not just against the root the node returns with it.
func getProof(cmd *cobra.Command, args []string) error {
	c := newClient()

	res, err := c.GetProof(args[0])
	if err != nil {
		return err
	}

	block, err := c.GetBlock(res.Height)
	if err != nil {
		return err
	}

	index := block.TransactionIndex(args[0])
	if index < 0 {
		return fmt.Errorf("block %d does not hold %s", res.Height, args[0])
	}

	if block.Header.MerkleRoot != res.MerkleRoot ||
		!ledger.VerifyTransaction(block.Transactions[index], res.Proof, block.Header.MerkleRoot) {
		return fmt.Errorf("proof of %s does not verify against block %d", args[0], res.Height)
	}

	if err := printJSON(res); err != nil {
		return err
	}

	fmt.Printf("Proof verified against block %d\n", res.Height)

	return nil
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
