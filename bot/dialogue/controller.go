// Package dialogue drives the add-reminder conversation and the reminder
// commands on top of the reminders store.
package dialogue

import (
	"fmt"
	"time"

	"github.com/m3rciful/skeddybot/bot/reminders"
	tg "github.com/m3rciful/skeddybot/core/telegram"
	"github.com/m3rciful/skeddybot/core/telegram/commands"
	"github.com/m3rciful/skeddybot/core/telegram/state"
	"github.com/m3rciful/skeddybot/core/telegram/ui"

	tele "gopkg.in/telebot.v4"
)

// Controller maps commands, dialogue steps and button presses to store
// changes and replies.
type Controller struct {
	store   *reminders.Store
	parser  *reminders.Parser
	machine *state.Machine
	now     func() time.Time
}

var _ ui.FallbackProvider = (*Controller)(nil)

// Options configures a Controller.
type Options struct {
	// Now is the clock used for calendar export stamps. Defaults to time.Now.
	Now func() time.Time
}

// New returns a Controller with its dialogue steps registered.
func New(store *reminders.Store, parser *reminders.Parser, opts Options) (*Controller, error) {
	if store == nil || parser == nil {
		return nil, fmt.Errorf("dialogue: store and parser are required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	c := &Controller{
		store:   store,
		parser:  parser,
		machine: state.NewMachine(store),
		now:     now,
	}
	if err := c.machine.Register(reminders.StateAwaitingEventText, c.onEventText); err != nil {
		return nil, err
	}
	if err := c.machine.Register(reminders.StateAwaitingScheduleTime, c.onScheduleText); err != nil {
		return nil, err
	}
	return c, nil
}

// Machine returns the dialogue state machine consulted for free text.
func (c *Controller) Machine() *state.Machine { return c.machine }

// Register adds the bot commands and button handlers to reg.
func (c *Controller) Register(reg *tg.Registry) error {
	cmds := []struct {
		name string
		cmd  commands.Command
	}{
		{"/start", commands.Command{Handler: c.cmdStart, Description: "Start the bot", Hidden: true}},
		{"/add", commands.Command{Handler: c.cmdAdd, Description: "Create a reminder", Order: 1, Aliases: []string{"new"}}},
		{"/list", commands.Command{Handler: c.cmdList, Description: "Show your reminders", Order: 2, Aliases: []string{"ls"}}},
		{"/delete", commands.Command{Handler: c.cmdDelete, Description: "Delete a reminder", Order: 3, Aliases: []string{"del"}}},
		{"/export", commands.Command{Handler: c.cmdExport, Description: "Download reminders as .ics", Order: 4}},
		{"/formats", commands.Command{Handler: c.cmdFormats, Description: "Accepted date formats", Order: 5}},
		{"/cancel", commands.Command{Handler: c.cmdCancel, Description: "Stop the current dialogue", Order: 6}},
		{"/help", commands.Command{Handler: c.cmdHelp, Description: "How to use the bot", Order: 7}},
		{"/stats", commands.Command{Handler: c.cmdStats, Description: "Store statistics", AdminOnly: true, Hidden: true}},
	}
	for _, it := range cmds {
		if err := reg.RegisterCommand(it.name, it.cmd); err != nil {
			return fmt.Errorf("dialogue: %w", err)
		}
	}

	cbs := map[string]tele.HandlerFunc{
		cbEditEvent:        c.cbEditEvent,
		cbContinueEvent:    c.cbContinueEvent,
		cbEditSchedule:     c.cbEditSchedule,
		cbContinueSchedule: c.cbContinueSchedule,
		cbDelete:           c.cbDelete,
	}
	for key, h := range cbs {
		if err := reg.RegisterCallback(key, h); err != nil {
			return fmt.Errorf("dialogue: %w", err)
		}
	}
	reg.SetCallbackNotFound(c.UnknownCallback())
	return nil
}

func (c *Controller) formatTime(t time.Time) string {
	return t.In(c.parser.Location()).Format(displayLayout)
}
