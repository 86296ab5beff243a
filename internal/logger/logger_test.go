package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewWithWritersInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriters(false, &buf)

	l.Info("session created", zap.String("session_id", "abc"))
	l.Debug("hidden")
	_ = l.Sync()

	out := buf.String()
	assert.Contains(t, out, "session created")
	assert.Contains(t, out, "abc")
	assert.NotContains(t, out, "hidden")
}

func TestNewWithWritersDebug(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriters(true, &buf)

	l.Debug("pipeline state")
	_ = l.Sync()

	assert.Contains(t, buf.String(), "pipeline state")
}

func TestNewWithWritersFansOut(t *testing.T) {
	var a, b bytes.Buffer
	l := NewWithWriters(false, &a, &b)

	l.Warn("rate limited")
	_ = l.Sync()

	assert.Contains(t, a.String(), "rate limited")
	assert.Contains(t, b.String(), "rate limited")
}
