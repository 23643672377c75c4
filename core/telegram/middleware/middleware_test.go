package middleware

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"
)

type fakeContext struct {
	tele.Context
	update tele.Update
	sender *tele.User
	mu     sync.Mutex
	store  map[string]interface{}
	sent   []interface{}
}

func newFakeContext(userID int64, cb bool) *fakeContext {
	u := tele.Update{ID: int(userID)}
	if cb {
		u.Callback = &tele.Callback{Data: "edit_event"}
	} else {
		u.Message = &tele.Message{Text: "hi"}
	}
	return &fakeContext{update: u, sender: &tele.User{ID: userID}, store: map[string]interface{}{}}
}

func (f *fakeContext) Update() tele.Update { return f.update }
func (f *fakeContext) Sender() *tele.User  { return f.sender }
func (f *fakeContext) Chat() *tele.Chat    { return &tele.Chat{ID: f.sender.ID, Type: tele.ChatPrivate} }
func (f *fakeContext) Text() string {
	if f.update.Message != nil {
		return f.update.Message.Text
	}
	return ""
}
func (f *fakeContext) Callback() *tele.Callback { return f.update.Callback }

func (f *fakeContext) Get(key string) interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store[key]
}

func (f *fakeContext) Set(key string, v interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.store[key] = v
}

func (f *fakeContext) Send(what interface{}, _ ...interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, what)
	return nil
}

func TestSerializePerUserNeverOverlapsSameUser(t *testing.T) {
	var active, maxActive atomic.Int32
	h := SerializePerUser(NewKeyedMutex())(func(c tele.Context) error {
		n := active.Add(1)
		for {
			m := maxActive.Load()
			if n <= m || maxActive.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		active.Add(-1)
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h(newFakeContext(7, false))
		}()
	}
	wg.Wait()
	if maxActive.Load() != 1 {
		t.Fatalf("max concurrent handlers for one user = %d, want 1", maxActive.Load())
	}
}

func TestSerializePerUserAllowsDifferentUsers(t *testing.T) {
	locks := NewKeyedMutex()
	release := make(chan struct{})
	entered := make(chan int64, 2)
	h := SerializePerUser(locks)(func(c tele.Context) error {
		entered <- c.Sender().ID
		<-release
		return nil
	})

	go func() { _ = h(newFakeContext(1, false)) }()
	go func() { _ = h(newFakeContext(2, false)) }()
	for i := 0; i < 2; i++ {
		select {
		case <-entered:
		case <-time.After(time.Second):
			t.Fatal("different users must not block each other")
		}
	}
	close(release)

	deadline := time.Now().Add(time.Second)
	for locks.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("keyed mutex leaked %d entries", locks.Len())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestRateLimitDropsBurstAndHonoursExclusions(t *testing.T) {
	var limited atomic.Int32
	mw, err := RateLimitMiddleware(RateLimitOptions{
		Interval:  time.Minute,
		Exclude:   map[string]struct{}{"callback": {}},
		OnLimited: func(tele.Context) error { limited.Add(1); return nil },
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	var handled int
	h := mw(func(tele.Context) error { handled++; return nil })

	_ = h(newFakeContext(5, false))
	_ = h(newFakeContext(5, false))
	_ = h(newFakeContext(5, true))
	_ = h(newFakeContext(6, false))

	if handled != 3 {
		t.Fatalf("handled = %d, want 3", handled)
	}
	if limited.Load() != 1 {
		t.Fatalf("limited = %d, want 1", limited.Load())
	}
}

func TestAdminOnly(t *testing.T) {
	var rejected int
	mw := AdminOnlyMiddleware(AdminOptions{AdminID: 42, OnReject: func(tele.Context) error { rejected++; return nil }})
	var ran int
	h := mw(func(tele.Context) error { ran++; return nil })

	_ = h(newFakeContext(42, false))
	_ = h(newFakeContext(1, false))
	if ran != 1 || rejected != 1 {
		t.Fatalf("ran=%d rejected=%d", ran, rejected)
	}

	open := AdminOnlyMiddleware(AdminOptions{})(func(tele.Context) error { ran++; return nil })
	_ = open(newFakeContext(42, false))
	if ran != 1 {
		t.Fatal("without an admin id nobody may pass")
	}
}

func TestRecoverMiddlewareReturnsError(t *testing.T) {
	h := RecoverMiddleware(func(tele.Context) error { panic("boom") })
	if err := h(newFakeContext(1, false)); err == nil {
		t.Fatal("expected panic to surface as error")
	}
	ok := RecoverMiddleware(func(tele.Context) error { return errors.New("plain") })
	if err := ok(newFakeContext(1, false)); err == nil || err.Error() != "plain" {
		t.Fatalf("err = %v", err)
	}
}

func TestMessageMetricsCountsSends(t *testing.T) {
	fc := newFakeContext(1, false)
	h := MessageMetricsMiddleware(func(c tele.Context) error {
		_ = c.Send("a")
		return c.Send("b", &tele.ReplyMarkup{})
	})
	if err := h(fc); err != nil {
		t.Fatal(err)
	}
	n, kb := GetCounters(fc)
	if n != 2 || !kb {
		t.Fatalf("messages=%d kb=%v", n, kb)
	}
}
