package state

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/m3rciful/skeddybot/core/logger"
	tghelpers "github.com/m3rciful/skeddybot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Machine maps dialogue states to text handlers.
type Machine struct {
	states Getter

	mu       sync.RWMutex
	handlers map[State]tele.HandlerFunc
}

// NewMachine returns a Machine reading states from g.
func NewMachine(g Getter) *Machine {
	return &Machine{states: g, handlers: make(map[State]tele.HandlerFunc)}
}

// Register binds h to st. Registering StateIdle or a nil handler is rejected.
func (m *Machine) Register(st State, h tele.HandlerFunc) error {
	if st == StateIdle || st == "" || h == nil {
		return fmt.Errorf("state: invalid handler registration for %q", st)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.handlers[st]; dup {
		return fmt.Errorf("state: handler for %q already registered", st)
	}
	m.handlers[st] = h
	return nil
}

// InProgress reports whether the user is inside a dialogue with a registered step handler.
func (m *Machine) InProgress(userID int64) bool {
	_, ok := m.handlerFor(userID)
	return ok
}

// Handle runs the step handler for the sender's current state.
func (m *Machine) Handle(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	h, ok := m.handlerFor(user.ID)
	logger.Debug(tghelpers.BuildContext(c), "tg", "fsm.dispatch",
		slog.String("state", string(m.states.GetState(user.ID))),
		slog.Bool("matched", ok),
	)
	if !ok {
		return nil
	}
	return h(c)
}

func (m *Machine) handlerFor(userID int64) (tele.HandlerFunc, bool) {
	st := m.states.GetState(userID)
	if st == StateIdle {
		return nil, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.handlers[st]
	return h, ok
}
