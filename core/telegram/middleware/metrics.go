package middleware

import (
	tele "gopkg.in/telebot.v4"
)

const (
	keyMessages = "messages"
	keyKeyboard = "kb"
)

// metricsContext counts outgoing messages and notes whether any carried a keyboard.
type metricsContext struct{ tele.Context }

func (m metricsContext) count(err error, opts []interface{}) error {
	if err != nil {
		return err
	}
	n, _ := m.Get(keyMessages).(int)
	m.Set(keyMessages, n+1)
	if hasKeyboard(opts) {
		m.Set(keyKeyboard, true)
	}
	return nil
}

func hasKeyboard(opts []interface{}) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

func (m metricsContext) Send(what interface{}, opts ...interface{}) error {
	return m.count(m.Context.Send(what, opts...), opts)
}

func (m metricsContext) Reply(what interface{}, opts ...interface{}) error {
	return m.count(m.Context.Reply(what, opts...), opts)
}

func (m metricsContext) Edit(what interface{}, opts ...interface{}) error {
	return m.count(m.Context.Edit(what, opts...), opts)
}

func (m metricsContext) EditOrSend(what interface{}, opts ...interface{}) error {
	return m.count(m.Context.EditOrSend(what, opts...), opts)
}

// MessageMetricsMiddleware instruments the context so the per-update summary
// can report how many messages a handler sent.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		c.Set(keyMessages, 0)
		c.Set(keyKeyboard, false)
		return next(metricsContext{Context: c})
	}
}

// GetCounters reads message count and keyboard presence flags from context.
func GetCounters(c tele.Context) (int, bool) {
	n, _ := c.Get(keyMessages).(int)
	kb, _ := c.Get(keyKeyboard).(bool)
	return n, kb
}
