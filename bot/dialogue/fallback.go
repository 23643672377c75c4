package dialogue

import (
	tghelpers "github.com/m3rciful/skeddybot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// UnknownCommand answers slash commands that are not registered.
func (c *Controller) UnknownCommand() tele.HandlerFunc {
	return func(ctx tele.Context) error {
		return tghelpers.SendText(ctx, textUnknownCommand)
	}
}

// UnknownText answers free text sent outside of a dialogue.
func (c *Controller) UnknownText() tele.HandlerFunc {
	return func(ctx tele.Context) error {
		return tghelpers.SendText(ctx, textUnknownText)
	}
}

// UnknownCallback answers buttons with an unrecognised payload. State is left alone.
func (c *Controller) UnknownCallback() tele.HandlerFunc {
	return func(ctx tele.Context) error {
		return ctx.RespondText(textUnknownAction)
	}
}

// UnsupportedMedia answers photos, files and other non-text messages.
func (c *Controller) UnsupportedMedia() tele.HandlerFunc {
	return func(ctx tele.Context) error {
		return tghelpers.SendText(ctx, textOnlyText)
	}
}

// AdminReject hides admin commands from everyone else.
func (c *Controller) AdminReject() tele.HandlerFunc {
	return c.UnknownCommand()
}

// RateLimited tells the user to slow down. Dropped callbacks still get their answer.
func (c *Controller) RateLimited() tele.HandlerFunc {
	return func(ctx tele.Context) error {
		if ctx.Callback() != nil {
			return ctx.RespondText(textSlowDown)
		}
		return nil
	}
}
