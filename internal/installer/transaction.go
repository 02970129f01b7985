package installer

import "os"

// State is the lifecycle of one install transaction.
type State int

const (
	StatePending State = iota
	StateFilesCopied
	StateIconInstalled
	StateEntryWritten
	StateCommitted
	StateRolledBack
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateFilesCopied:
		return "files-copied"
	case StateIconInstalled:
		return "icon-installed"
	case StateEntryWritten:
		return "entry-written"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled-back"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// transaction tracks every path an install created so a failure at any
// step can walk them back. Committed and RolledBack are terminal.
type transaction struct {
	state   State
	created []string
}

func (tx *transaction) record(path string) {
	tx.created = append(tx.created, path)
}

// fail moves the transaction through Failed into RolledBack, deleting
// created paths in reverse order. Deletions are best-effort: a path
// that is already gone cannot be un-created twice.
func (tx *transaction) fail(err error) error {
	tx.state = StateFailed
	for i := len(tx.created) - 1; i >= 0; i-- {
		os.Remove(tx.created[i])
	}
	tx.created = nil
	tx.state = StateRolledBack
	return err
}
