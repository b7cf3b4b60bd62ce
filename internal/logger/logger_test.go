package logger

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withFixedClock(t *testing.T) {
	t.Helper()
	old := now
	now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	t.Cleanup(func() {
		now = old
		Init(nil)
	})
}

func TestWriterSink(t *testing.T) {
	withFixedClock(t)
	var buf bytes.Buffer
	Init(NewWriterSink(&buf))

	Info("fetched page")
	Error("broken")

	out := buf.String()
	assert.Contains(t, out, "[2024-01-02 03:04:05] ℹ️ INFO\nfetched page\n")
	assert.Contains(t, out, "❌ ERROR\nbroken")
}

func TestNoSinkIsSilent(t *testing.T) {
	withFixedClock(t)
	Init(nil)
	assert.NotPanics(t, func() { Debug("nothing to see") })
}

func TestLogWithErr(t *testing.T) {
	withFixedClock(t)
	var buf bytes.Buffer
	Init(NewWriterSink(&buf))

	require.NoError(t, LogWithErr("saved sheet", nil))
	assert.Contains(t, buf.String(), "INFO\nsaved sheet")

	base := errors.New("disk full")
	err := LogWithErr("saving pdf", base)
	assert.ErrorIs(t, err, base)
	assert.Contains(t, buf.String(), "ERROR\nsaving pdf\nError: disk full")
}

type fakeBot struct {
	sent chan string
}

func (f *fakeBot) SendMessage(chatID int64, text string) error {
	f.sent <- text
	return nil
}

func TestInitChannel(t *testing.T) {
	withFixedClock(t)
	t.Setenv("LOG_CHANNEL_ID", "-100123")

	bot := &fakeBot{sent: make(chan string, 1)}
	require.NoError(t, InitChannel(bot))
	assert.Equal(t, int64(-100123), ChannelID)

	Success("bot started")
	select {
	case msg := <-bot.sent:
		assert.Contains(t, msg, "SUCCESS\nbot started")
	case <-time.After(time.Second):
		t.Fatal("log never reached the channel")
	}
}

func TestInitChannel_BadID(t *testing.T) {
	t.Setenv("LOG_CHANNEL_ID", "not-a-number")
	assert.Error(t, InitChannel(&fakeBot{}))
}
