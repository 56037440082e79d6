package consensus

import (
	"fmt"

	"github.com/pkg/errors"
)

// QuorumErr is returned when a block gathers fewer signatures than the
// threshold. It is a normal outcome; the ledger is left unchanged.
type QuorumErr struct {
	Have int
	Need int
}

func (e QuorumErr) Error() string {
	return fmt.Sprintf("quorum not reached: %d signatures, need %d", e.Have, e.Need)
}

// IsQuorumNotReached reports whether the cause of err is a QuorumErr.
func IsQuorumNotReached(err error) bool {
	_, ok := errors.Cause(err).(QuorumErr)
	return ok
}
