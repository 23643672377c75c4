package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Callback data comes in two shapes:
//
//	\f<unique>|<payload>   telebot's encoding for buttons built with a unique
//	<token>[ <payload>]    plain tokens such as "edit_event" or "delete 3"
//
// Parse accepts both so handlers never need to care which one a button used.

const uniquePrefix = '\f'

// Parse splits callback data into a routing key and an optional payload.
func Parse(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		// telebot already split "\f<unique>|<payload>" for a "\f<unique>" endpoint
		return cb.Unique, cb.Data
	}
	return ParseData(cb.Data)
}

// ParseData splits raw callback data. See Parse.
func ParseData(data string) (string, string) {
	if data == "" {
		return "", ""
	}
	if data[0] == uniquePrefix {
		key, payload, _ := strings.Cut(data[1:], "|")
		return strings.TrimSpace(key), payload
	}
	data = strings.TrimSpace(data)
	key, payload, _ := strings.Cut(data, " ")
	return key, strings.TrimSpace(payload)
}

// Encode builds plain callback data in the "<token> <payload>" form.
func Encode(key, payload string) string {
	if payload == "" {
		return key
	}
	return key + " " + payload
}

// Payload returns the payload of the current callback, if any.
func Payload(c tele.Context) string {
	_, p := Parse(c.Callback())
	return p
}
