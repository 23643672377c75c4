package callbacks

import (
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// PayloadInt parses the callback payload as a non-negative base-10 int.
// Signs and separators are rejected.
func PayloadInt(c tele.Context) (int, error) {
	p := Payload(c)
	if p == "" || strings.ContainsAny(p[:1], "+-") {
		return 0, &strconv.NumError{Func: "PayloadInt", Num: p, Err: strconv.ErrSyntax}
	}
	return strconv.Atoi(p)
}
