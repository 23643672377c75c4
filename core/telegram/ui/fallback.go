package ui

import tele "gopkg.in/telebot.v4"

// FallbackProvider exposes handlers used when incoming updates
// cannot be mapped to commands, dialogue steps, or callbacks.
type FallbackProvider interface {
	// UnknownCommand handles a slash command nobody registered.
	UnknownCommand() tele.HandlerFunc
	// UnknownText handles plain text outside of any dialogue.
	UnknownText() tele.HandlerFunc
	// UnknownCallback handles button presses with an unrecognised payload.
	UnknownCallback() tele.HandlerFunc
}
