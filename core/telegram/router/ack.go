package router

import (
	"sync"

	tele "gopkg.in/telebot.v4"
)

// ackContext lets a callback be answered at most once. Telegram rejects a
// second answerCallbackQuery, so later calls become no-ops.
type ackContext struct {
	tele.Context
	once *sync.Once
	err  *error
}

func newAckContext(c tele.Context) ackContext {
	var err error
	return ackContext{Context: c, once: new(sync.Once), err: &err}
}

func (a ackContext) Respond(resp ...*tele.CallbackResponse) error {
	a.once.Do(func() { *a.err = a.Context.Respond(resp...) })
	return *a.err
}

func (a ackContext) RespondText(text string) error {
	return a.Respond(&tele.CallbackResponse{Text: text})
}

func (a ackContext) RespondAlert(text string) error {
	return a.Respond(&tele.CallbackResponse{Text: text, ShowAlert: true})
}

