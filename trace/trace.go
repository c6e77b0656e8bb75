// Package trace provides the stack-trace source consulted by structured errors.
//
// A Tracker records which errors are currently being handled. While a handle
// scope is open, Current renders the innermost error and its stack as text.
// Outside of any scope it returns an empty string.
package trace

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/pkg/errors"
)

// Source returns the stack trace of the error currently being handled, or "" if none.
type Source interface {
	Current() string
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func() string

func (f SourceFunc) Current() string { return f() }

// None never reports an in-flight error.
var None Source = SourceFunc(func() string { return "" })

// Default is the process-wide tracker. It is shared by every goroutine, so a
// scope opened on one goroutine is visible to errors built on any other.
// Pass a dedicated Tracker through structerr.WithTracer when that matters.
var Default = NewTracker()

type stackTracer interface {
	StackTrace() errors.StackTrace
}

type entry struct {
	id    uint64
	err   error
	stack []byte
}

// Tracker keeps the stack of errors being handled. The zero value is ready to use.
type Tracker struct {
	mu     sync.Mutex
	nextID uint64
	active []entry
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker { return &Tracker{} }

// Handle marks err as in flight until the returned release func is called.
// A nil err opens no scope.
func (t *Tracker) Handle(err error) (release func()) {
	if err == nil {
		return func() {}
	}

	return t.push(err, debug.Stack())
}

// Rescue recovers a panic, converts it to an error and calls handler while
// that error is in flight. It must be deferred directly:
//
//	defer tracker.Rescue(func(err error) { ... })
func (t *Tracker) Rescue(handler func(err error)) {
	r := recover()
	if r == nil {
		return
	}

	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", r)
	}

	release := t.push(err, debug.Stack())
	defer release()

	handler(err)
}

// Current renders the innermost in-flight error.
func (t *Tracker) Current() string {
	t.mu.Lock()
	if len(t.active) == 0 {
		t.mu.Unlock()
		return ""
	}

	top := t.active[len(t.active)-1]
	t.mu.Unlock()

	return render(top.err, top.stack)
}

// Depth reports how many handle scopes are open.
func (t *Tracker) Depth() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.active)
}

func (t *Tracker) push(err error, stack []byte) func() {
	t.mu.Lock()
	t.nextID++
	id := t.nextID
	t.active = append(t.active, entry{id: id, err: err, stack: stack})
	t.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() { t.remove(id) })
	}
}

func (t *Tracker) remove(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := len(t.active) - 1; i >= 0; i-- {
		if t.active[i].id == id {
			t.active = append(t.active[:i], t.active[i+1:]...)
			return
		}
	}
}

// render prefers the stack recorded by pkg/errors, falling back to the one captured at handle time.
func render(err error, stack []byte) string {
	var st stackTracer
	if errors.As(err, &st) {
		if _, direct := err.(stackTracer); direct {
			return fmt.Sprintf("%+v\n", err)
		}

		return fmt.Sprintf("%v\n%+v\n", err, st)
	}

	return fmt.Sprintf("%T: %v\n%s", err, err, stack)
}
