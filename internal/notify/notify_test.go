package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	subject  string
	data     []byte
	pubErr   error
	flushErr error
	closed   bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	f.subject, f.data = subject, data
	return f.pubErr
}

func (f *fakeConn) FlushWithContext(context.Context) error { return f.flushErr }
func (f *fakeConn) Close()                                 { f.closed = true }

var report = DueReport{
	Count:       12,
	Recommended: 15,
	GeneratedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNATSPublisher_PublishesJSON(t *testing.T) {
	fc := &fakeConn{}
	p := newNATSPublisher(fc, "", discard())

	require.NoError(t, p.PublishDue(context.Background(), report))
	assert.Equal(t, DefaultSubject, fc.subject)

	var got DueReport
	require.NoError(t, json.Unmarshal(fc.data, &got))
	assert.Equal(t, report, got)

	require.NoError(t, p.Close())
	assert.True(t, fc.closed)
}

func TestNATSPublisher_Errors(t *testing.T) {
	boom := errors.New("boom")

	p := newNATSPublisher(&fakeConn{pubErr: boom}, "study.due", discard())
	assert.ErrorIs(t, p.PublishDue(context.Background(), report), boom)

	p = newNATSPublisher(&fakeConn{flushErr: boom}, "study.due", discard())
	assert.ErrorIs(t, p.PublishDue(context.Background(), report), boom)
}

func TestNewNATSPublisher_BadURL(t *testing.T) {
	_, err := NewNATSPublisher(Config{
		URL:     "nats://nonexistent-host:99999",
		Timeout: 200 * time.Millisecond,
	}, discard())
	assert.Error(t, err)
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := &LogPublisher{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	require.NoError(t, p.PublishDue(context.Background(), report))
	assert.Contains(t, buf.String(), "count=12")
	assert.Contains(t, buf.String(), "recommended=15")
	assert.NoError(t, p.Close())
}

func TestNew_NoURLLogs(t *testing.T) {
	p, err := New(Config{Subject: DefaultSubject}, discard())
	require.NoError(t, err)
	assert.IsType(t, &LogPublisher{}, p)
	assert.NoError(t, p.PublishDue(context.Background(), report))
}

func TestNew_BadURL(t *testing.T) {
	_, err := New(Config{
		URL:     "nats://nonexistent-host:99999",
		Timeout: 200 * time.Millisecond,
	}, discard())
	assert.Error(t, err)
}
