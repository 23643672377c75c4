package dialogue

// User facing replies. HTML ones are marked; the rest go out as plain text.
const (
	textStart = "Hi! I'm SkeddyBot. I keep a list of your reminders.\n\n" +
		"Send /add to create one or /help to see everything I can do."

	// HTML
	textHelp = "<b>Commands</b>\n" +
		"/add - create a reminder\n" +
		"/list - show your reminders\n" +
		"/delete - remove a reminder\n" +
		"/export - download your reminders as a calendar file\n" +
		"/formats - accepted date and time formats\n" +
		"/cancel - stop the current dialogue\n" +
		"/help - this message"

	textAskEventText    = "What should I remind you about?"
	textAskEventTextNew = "Send the new text of the reminder."
	textEmptyEventText  = "The reminder text can't be empty. Please send some text."

	textAskSchedule     = "When? Send a date and time, for example 2030-01-31 18:30.\nSee /formats for other options."
	textAskScheduleNew  = "Send the new date and time."
	textUnparsableTime  = "I couldn't read that date. Try something like 2030-01-31 18:30, or see /formats."
	textPastTime        = "That time has already passed. Please send a time in the future."
	textNothingToCommit = "There is no reminder text to schedule. Start again with /add."
	textEventLimitFmt   = "You already have %d reminders. Delete some with /delete first."

	textSaved       = "Saved."
	textNothingSave = "Nothing to save. Start with /add."
	textCancelled   = "Cancelled."
	textNoDialogue  = "There is nothing to cancel."

	textNoEvents       = "You have no reminders."
	textNoEventsDelete = "You have no reminders to delete."
	textPickDelete     = "Which reminder should I delete?"
	textDeletedFmt     = "Deleted: %s"
	textDeleteGone     = "That reminder no longer exists."
	textBadDelete      = "Invalid delete request"

	textUnknownCommand = "Unknown command. Send /help for the list of commands."
	textUnknownText    = "Send /add to create a reminder or /help for more."
	textUnknownAction  = "Unknown action"
	textOnlyText       = "I only understand text messages."
	textSlowDown       = "Too many requests, slow down a bit."

	textExportCaption = "Your reminders"

	btnEdit     = "Edit"
	btnContinue = "Continue"
)

// Callback tokens carried by inline buttons.
const (
	cbEditEvent        = "edit_event"
	cbContinueEvent    = "continue_event"
	cbEditSchedule     = "edit_schedule"
	cbContinueSchedule = "continue_schedule"
	cbDelete           = "delete"
)

// displayLayout renders schedule times back to users.
const displayLayout = "2006-01-02 15:04"
