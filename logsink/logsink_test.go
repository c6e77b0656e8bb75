package logsink_test

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/next-trace/scg-structerr/logsink"
)

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestGet_IsIdempotent(t *testing.T) {
	logsink.Reset()
	t.Cleanup(logsink.Reset)

	a := logsink.Get("orders")
	b := logsink.Get("orders")
	c := logsink.Get("billing")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, "orders", a.Name())
}

func TestReset_DropsLoggers(t *testing.T) {
	logsink.Reset()
	t.Cleanup(logsink.Reset)

	before := logsink.Get("orders")
	logsink.Reset()

	assert.NotSame(t, before, logsink.Get("orders"))
}

func TestGet_ConcurrentFirstUse(t *testing.T) {
	logsink.Reset()
	t.Cleanup(logsink.Reset)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		attached int
		seen     = map[*logsink.Logger]struct{}{}
	)

	for i := 0; i < 64; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			l := logsink.Get("shared")
			ok := l.EnsureHandler()

			mu.Lock()
			seen[l] = struct{}{}
			if ok {
				attached++
			}
			mu.Unlock()
		}()
	}

	wg.Wait()

	assert.Len(t, seen, 1)
	assert.Equal(t, 1, attached)
	assert.Len(t, logsink.Get("shared").Handlers(), 1)
}

func TestEnsureHandler_KeepsExisting(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := logsink.New("svc", &buf)

	assert.False(t, l.EnsureHandler())
	require.Len(t, l.Handlers(), 1)
	assert.Same(t, &buf, l.Handlers()[0])
}

func TestEnsureHandler_AttachesStderr(t *testing.T) {
	t.Parallel()

	l := logsink.New("svc")
	require.Empty(t, l.Handlers())

	assert.True(t, l.EnsureHandler())
	assert.False(t, l.EnsureHandler())
	require.Len(t, l.Handlers(), 1)
	assert.Equal(t, os.Stderr, l.Handlers()[0])
}

func TestHandlers_ReturnsCopy(t *testing.T) {
	t.Parallel()

	l := logsink.New("svc", &bytes.Buffer{})
	hs := l.Handlers()
	hs[0] = nil

	assert.NotNil(t, l.Handlers()[0])
}

func TestError_WritesZerologLine(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	l := logsink.New("svc", &a)
	l.AddHandler(&b)
	l.AddHandler(nil)

	require.NoError(t, l.Error(`{"message":"Log test"}`))
	assert.Equal(t, a.String(), b.String())

	var line map[string]any
	require.NoError(t, jsoniter.Unmarshal(a.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "svc", line["logger"])
	assert.Equal(t, `{"message":"Log test"}`, line["message"])
	assert.Contains(t, line, "time")
	assert.True(t, strings.HasSuffix(a.String(), "\n"))
}

func TestError_JoinsHandlerFailures(t *testing.T) {
	t.Parallel()

	var ok bytes.Buffer
	first := errors.New("disk full")
	second := errors.New("pipe closed")

	l := logsink.New("svc", failingWriter{first}, &ok, failingWriter{second})

	err := l.Error("boom")
	require.Error(t, err)
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
	assert.Contains(t, ok.String(), "boom", "healthy handlers still receive the line")
}

func TestError_NoHandlersOrSilenced(t *testing.T) {
	t.Parallel()

	assert.NoError(t, logsink.New("svc").Error("dropped"))

	var buf bytes.Buffer
	l := logsink.New("svc", &buf)
	l.SetLevel(zerolog.FatalLevel)

	require.NoError(t, l.Error("quiet"))
	assert.Zero(t, buf.Len())
}

func TestNewStreamHandler(t *testing.T) {
	var buf bytes.Buffer
	assert.Same(t, &buf, logsink.NewStreamHandler(&buf))
	assert.Equal(t, os.Stderr, logsink.NewStreamHandler(nil))

	logsink.Pretty = true
	t.Cleanup(func() { logsink.Pretty = false })

	h := logsink.NewStreamHandler(&buf)
	_, isConsole := h.(zerolog.ConsoleWriter)
	require.True(t, isConsole)

	l := logsink.New("svc", h)
	require.NoError(t, l.Error("pretty line"))
	assert.Contains(t, buf.String(), "pretty line")
}
