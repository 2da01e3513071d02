package notify

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/logger"
)

func TestMain(m *testing.M) {
	_ = logger.InitWithConfig(logger.LogConfig{Level: "ERROR", Format: "text", TracingEnabled: false})
	os.Exit(m.Run())
}

type fakeSender struct {
	name string
	err  error
	sent []string
}

func (f *fakeSender) Send(_ context.Context, message string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, message)
	return nil
}

func (f *fakeSender) Name() string { return f.name }

func TestNotifyNoSenders(t *testing.T) {
	n := NewNotifier()
	assert.NoError(t, n.Notify(context.Background(), "hello"))
}

func TestNotifyDeliversToAll(t *testing.T) {
	a := &fakeSender{name: "a"}
	b := &fakeSender{name: "b"}
	n := NewNotifier(a, b)

	require.NoError(t, n.Notify(context.Background(), "status"))
	assert.Equal(t, []string{"status"}, a.sent)
	assert.Equal(t, []string{"status"}, b.sent)
}

func TestNotifyOneFailureDoesNotStopOthers(t *testing.T) {
	bad := &fakeSender{name: "bad", err: errors.New("boom")}
	good := &fakeSender{name: "good"}
	n := NewNotifier(bad, good)

	err := n.Notify(context.Background(), "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
	// The healthy sender still received the message.
	assert.Equal(t, []string{"status"}, good.sent)
}
