package keyboard

import tele "gopkg.in/telebot.v4"

// InlineBtn describes an inline button. With Unique set the button carries
// telebot's "\f<unique>|<data>" encoding; otherwise Data is sent as is.
type InlineBtn struct {
	Text   string
	Unique string
	Data   string
}

// Inline converts the description into a telebot inline button.
func (b InlineBtn) Inline() tele.InlineButton {
	if b.Unique == "" {
		return tele.InlineButton{Text: b.Text, Data: b.Data}
	}
	// encode eagerly; telebot only prefixes buttons that keep Unique set
	data := "\f" + b.Unique
	if b.Data != "" {
		data += "|" + b.Data
	}
	return tele.InlineButton{Text: b.Text, Data: data}
}

// InlineButtons builds an inline keyboard with one button per row.
func InlineButtons(buttons []InlineBtn) *tele.ReplyMarkup {
	return InlineButtonsNPerRow(buttons, 1)
}

// InlineButtonsRows builds an inline keyboard from rows of InlineBtn.
// Empty rows are skipped.
func InlineButtonsRows(rows ...[]InlineBtn) *tele.ReplyMarkup {
	inline := make([][]tele.InlineButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		r := make([]tele.InlineButton, len(row))
		for i, btn := range row {
			r[i] = btn.Inline()
		}
		inline = append(inline, r)
	}
	return &tele.ReplyMarkup{InlineKeyboard: inline}
}

// InlineButtonsNPerRow splits buttons into rows of up to n buttons.
func InlineButtonsNPerRow(buttons []InlineBtn, n int) *tele.ReplyMarkup {
	return InlineButtonsRows(Chunk(buttons, n)...)
}

// Chunk splits a flat list into rows of up to n elements; n <= 1 yields one per row.
func Chunk[T any](items []T, n int) [][]T {
	if n < 1 {
		n = 1
	}
	rows := make([][]T, 0, (len(items)+n-1)/n)
	for i := 0; i < len(items); i += n {
		rows = append(rows, items[i:min(i+n, len(items))])
	}
	return rows
}
