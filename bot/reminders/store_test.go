package reminders

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/m3rciful/skeddybot/core/telegram/state"
)

func commit(t *testing.T, s *Store, user int64, text string, at time.Time) Event {
	t.Helper()
	s.StorePendingText(user, text)
	ev, err := s.CommitEvent(user, at)
	if err != nil {
		t.Fatalf("commit %q: %v", text, err)
	}
	return ev
}

func texts(list []Event) []string {
	out := make([]string, len(list))
	for i, ev := range list {
		out[i] = ev.Text
	}
	return out
}

func TestStateDefaultsAndClear(t *testing.T) {
	s := NewStore()
	if s.GetState(1) != state.StateIdle {
		t.Fatal("unknown user must be idle")
	}
	s.SetState(1, StateAwaitingEventText)
	if s.GetState(1) != StateAwaitingEventText {
		t.Fatal("state not stored")
	}
	s.StorePendingText(1, "x")
	s.ClearState(1)
	if s.GetState(1) != state.StateIdle {
		t.Fatal("clear must reset to idle")
	}
	if _, ok := s.PendingText(1); ok {
		t.Fatal("clear must drop pending text")
	}
	s.SetState(1, StateAwaitingScheduleTime)
	s.SetState(1, state.StateIdle)
	if _, _, sessions := s.Stats(); sessions != 0 {
		t.Fatalf("idle must remove the session, have %d", sessions)
	}
}

func TestPendingTextSingleSlot(t *testing.T) {
	s := NewStore()
	s.StorePendingText(1, "first")
	s.StorePendingText(1, "second")
	got, ok := s.PendingText(1)
	if !ok || got != "second" {
		t.Fatalf("pending = %q ok=%v", got, ok)
	}
}

func TestCommitAppendsInOrder(t *testing.T) {
	s := NewStore(WithClock(clock))
	at := fixedNow.Add(time.Hour)
	commit(t, s, 1, "a", at)
	commit(t, s, 1, "b", at)
	ev := commit(t, s, 1, "c", at)

	list := s.ListEvents(1)
	if got := texts(list); len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("order = %v", got)
	}
	if list[2].ID != ev.ID || ev.ID == uuid.Nil || !ev.CreatedAt.Equal(fixedNow) {
		t.Fatalf("last event = %+v", list[2])
	}
	if _, ok := s.PendingText(1); ok {
		t.Fatal("commit must consume pending text")
	}
}

func TestCommitWithoutPendingText(t *testing.T) {
	s := NewStore()
	if _, err := s.CommitEvent(1, fixedNow); !errors.Is(err, ErrNoPendingText) {
		t.Fatalf("err = %v", err)
	}
	commit(t, s, 1, "a", fixedNow)
	if _, err := s.CommitEvent(1, fixedNow); !errors.Is(err, ErrNoPendingText) {
		t.Fatalf("second commit err = %v", err)
	}
	if n := len(s.ListEvents(1)); n != 1 {
		t.Fatalf("events = %d, want 1", n)
	}
}

func TestCommitRespectsLimit(t *testing.T) {
	s := NewStore(WithMaxPerUser(2))
	commit(t, s, 1, "a", fixedNow)
	commit(t, s, 1, "b", fixedNow)
	s.StorePendingText(1, "c")
	if _, err := s.CommitEvent(1, fixedNow); !errors.Is(err, ErrEventLimit) {
		t.Fatalf("err = %v", err)
	}
	commit(t, s, 2, "other user", fixedNow)
}

func TestDeleteEventAtShiftsIndices(t *testing.T) {
	s := NewStore()
	for _, txt := range []string{"a", "b", "c", "d"} {
		commit(t, s, 1, txt, fixedNow)
	}
	if !s.DeleteEventAt(1, 1) {
		t.Fatal("delete in range failed")
	}
	if got := texts(s.ListEvents(1)); len(got) != 3 || got[0] != "a" || got[1] != "c" || got[2] != "d" {
		t.Fatalf("after delete = %v", got)
	}
	for _, idx := range []int{-1, 3, 100} {
		if s.DeleteEventAt(1, idx) {
			t.Fatalf("index %d must be a no-op", idx)
		}
	}
	if n := len(s.ListEvents(1)); n != 3 {
		t.Fatalf("events = %d", n)
	}
}

func TestDeletingLastEventRemovesEntry(t *testing.T) {
	s := NewStore()
	ev := commit(t, s, 1, "a", fixedNow)
	if _, ok := s.DeleteEvent(1, ev.ID); !ok {
		t.Fatal("delete by id failed")
	}
	list := s.ListEvents(1)
	if list == nil || len(list) != 0 {
		t.Fatalf("list = %#v, want empty non-nil", list)
	}
	if users, _, _ := s.Stats(); users != 0 {
		t.Fatalf("users = %d, want 0", users)
	}
	if _, ok := s.DeleteEvent(1, ev.ID); ok {
		t.Fatal("second delete must report missing")
	}
}

func TestListEventsReturnsCopy(t *testing.T) {
	s := NewStore()
	commit(t, s, 1, "a", fixedNow)
	list := s.ListEvents(1)
	list[0].Text = "mutated"
	if s.ListEvents(1)[0].Text != "a" {
		t.Fatal("store leaked its slice")
	}
}

func TestDraftEditInPlace(t *testing.T) {
	s := NewStore()
	commit(t, s, 1, "first", fixedNow)
	ev := commit(t, s, 1, "draft", fixedNow)

	d, ok := s.Draft(1)
	if !ok || d.ID != ev.ID {
		t.Fatalf("draft = %+v ok=%v", d, ok)
	}
	later := fixedNow.Add(24 * time.Hour)
	text := "draft v2"
	if _, err := s.EditEvent(1, ev.ID, EventPatch{Text: &text, ScheduledAt: &later}); err != nil {
		t.Fatalf("edit: %v", err)
	}
	list := s.ListEvents(1)
	if len(list) != 2 || list[1].Text != "draft v2" || !list[1].ScheduledAt.Equal(later) || list[1].ID != ev.ID {
		t.Fatalf("list = %+v", list)
	}
	if _, err := s.EditEvent(1, uuid.New(), EventPatch{}); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("unknown id err = %v", err)
	}

	s.DeleteEvent(1, ev.ID)
	if _, ok := s.Draft(1); ok {
		t.Fatal("deleted draft must be gone")
	}
}

func TestRestartDropsDraft(t *testing.T) {
	s := NewStore()
	commit(t, s, 1, "a", fixedNow)
	s.Restart(1, StateAwaitingEventText)
	if _, ok := s.Draft(1); ok {
		t.Fatal("restart must drop the draft")
	}
	if s.GetState(1) != StateAwaitingEventText {
		t.Fatal("restart must set the state")
	}
	if len(s.ListEvents(1)) != 1 {
		t.Fatal("restart must keep committed events")
	}
}

func TestPrune(t *testing.T) {
	s := NewStore()
	commit(t, s, 1, "old", fixedNow.Add(-48*time.Hour))
	commit(t, s, 1, "new", fixedNow.Add(time.Hour))
	commit(t, s, 2, "old only", fixedNow.Add(-time.Hour))

	if n := s.Prune(fixedNow); n != 2 {
		t.Fatalf("pruned = %d, want 2", n)
	}
	if got := texts(s.ListEvents(1)); len(got) != 1 || got[0] != "new" {
		t.Fatalf("user 1 = %v", got)
	}
	if users, events, _ := s.Stats(); users != 1 || events != 1 {
		t.Fatalf("stats = %d users %d events", users, events)
	}
}

func TestConcurrentUsers(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for u := int64(1); u <= 8; u++ {
		wg.Add(1)
		go func(user int64) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				s.StorePendingText(user, "x")
				if _, err := s.CommitEvent(user, fixedNow); err != nil {
					t.Errorf("commit: %v", err)
					return
				}
			}
		}(u)
	}
	wg.Wait()
	if _, events, _ := s.Stats(); events != 400 {
		t.Fatalf("events = %d, want 400", events)
	}
}
