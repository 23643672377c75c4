package telegram

import (
	"errors"
	"testing"

	"github.com/m3rciful/skeddybot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func noop(tele.Context) error { return nil }

func TestRegistryCommands(t *testing.T) {
	reg := NewRegistry()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(reg.RegisterCommand("/help", commands.Command{Handler: noop, Description: "help", Order: 2}))
	must(reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "start", Order: 1}))
	must(reg.RegisterCommand("/add", commands.Command{Handler: noop, Description: "add", Order: 3, Aliases: []string{"new"}}))
	must(reg.RegisterCommand("/stats", commands.Command{Handler: noop, Description: "stats", AdminOnly: true}))

	if reg.RegisterCommand("/help", commands.Command{Handler: noop, Description: "dup"}) == nil {
		t.Fatal("duplicate must fail")
	}
	if reg.RegisterCommand("help", commands.Command{Handler: noop, Description: "x"}) == nil {
		t.Fatal("missing slash must fail")
	}

	menu := reg.ListCommands(true)
	want := []string{"start", "help", "add"}
	if len(menu) != len(want) {
		t.Fatalf("menu = %+v", menu)
	}
	for i, cmd := range menu {
		if cmd.Text != want[i] {
			t.Fatalf("menu[%d] = %q, want %q", i, cmd.Text, want[i])
		}
	}
	if len(reg.ListCommands(false)) != 4 {
		t.Fatal("full list must include admin commands")
	}

	cases := map[string]string{
		"/add":                "/add",
		"/ADD@skeddy_bot now": "/add",
		"/new":                "/add",
		"/nope":               "",
		"hello":               "",
		"/":                   "",
	}
	for text, want := range cases {
		key, _, ok := reg.LookupCommand(text)
		if key != want || ok != (want != "") {
			t.Errorf("LookupCommand(%q) = %q, %v", text, key, ok)
		}
	}
}

func TestRegistryCallbacks(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterCallback("edit_event", noop); err != nil {
		t.Fatal(err)
	}
	if reg.RegisterCallback("edit_event", noop) == nil {
		t.Fatal("duplicate callback must fail")
	}
	if reg.RegisterCallback("", noop) == nil || reg.RegisterCallback("x", nil) == nil {
		t.Fatal("invalid callback must fail")
	}
	if _, ok := reg.GetCallback("edit_event"); !ok {
		t.Fatal("callback not found")
	}
	if got := reg.ListCallbacks(); len(got) != 1 || got[0] != "edit_event" {
		t.Fatalf("callbacks = %v", got)
	}
	if reg.CallbackNotFound() == nil {
		t.Fatal("default fallback missing")
	}
}

type menuRecorder struct {
	got []tele.Command
	err error
}

func (m *menuRecorder) SetCommands(opts ...interface{}) error {
	if len(opts) > 0 {
		m.got, _ = opts[0].([]tele.Command)
	}
	return m.err
}

func TestSetupCommands(t *testing.T) {
	reg := NewRegistry()
	_ = reg.RegisterCommand("/list", commands.Command{Handler: noop, Description: "list"})
	rec := &menuRecorder{}
	if err := SetupCommands(rec, reg); err != nil {
		t.Fatal(err)
	}
	if len(rec.got) != 1 || rec.got[0].Text != "list" {
		t.Fatalf("menu = %+v", rec.got)
	}
	rec.err = errors.New("api down")
	if err := SetupCommands(rec, reg); err == nil {
		t.Fatal("expected error")
	}
}
