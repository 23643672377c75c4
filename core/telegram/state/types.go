package state

// State identifies a finite-state-machine step used in conversations.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
)

// Getter reports the dialogue state of a user. Unknown users are StateIdle.
type Getter interface {
	GetState(userID int64) State
}
