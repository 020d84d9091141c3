package admin

import (
	"sync"
	"time"
)

// feedbackState holds the single transient status message shown after admin
// actions. A new message replaces the previous one and restarts the clear
// timer.
type feedbackState struct {
	mu    sync.Mutex
	ttl   time.Duration
	msg   string
	timer *time.Timer
}

func newFeedbackState(ttl time.Duration) *feedbackState {
	return &feedbackState{ttl: ttl}
}

func (f *feedbackState) show(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msg = message
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	if message == "" {
		return
	}
	f.timer = time.AfterFunc(f.ttl, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.msg = ""
	})
}

func (f *feedbackState) current() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.msg
}

func (f *feedbackState) stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}
