package dialogue

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m3rciful/skeddybot/bot/reminders"
	"github.com/m3rciful/skeddybot/core/telegram/callbacks"
	"github.com/m3rciful/skeddybot/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// maxButtonText keeps delete button labels readable on phones.
const maxButtonText = 48

func reviewKeyboard(editToken, continueToken string) *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: btnEdit, Data: editToken},
		{Text: btnContinue, Data: continueToken},
	})
}

func deleteKeyboard(events []reminders.Event, loc *time.Location) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(events))
	for _, ev := range events {
		buttons = append(buttons, keyboard.InlineBtn{
			Text: fmt.Sprintf("%s (%s)", truncate(ev.Text, maxButtonText), ev.ScheduledAt.In(loc).Format(displayLayout)),
			Data: callbacks.Encode(cbDelete, ev.ID.String()),
		})
	}
	return keyboard.InlineButtons(buttons)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
