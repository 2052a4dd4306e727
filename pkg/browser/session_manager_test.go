package browser

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domsel/pkg/dom"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.Headless)
	assert.Equal(t, 30*time.Second, cfg.NavigationTimeout())
	assert.Equal(t, 5*time.Second, cfg.OperationTimeout())

	var zero Config
	assert.Equal(t, 1920, zero.GetViewportWidth())
	assert.Equal(t, 1080, zero.GetViewportHeight())
	assert.Equal(t, 30*time.Second, zero.NavigationTimeout())
	assert.Equal(t, 5*time.Second, zero.OperationTimeout())

	custom := Config{ViewportWidth: 800, ViewportHeight: 600, NavigationTimeoutMs: 250, OperationTimeoutMs: 100}
	assert.Equal(t, 800, custom.GetViewportWidth())
	assert.Equal(t, 600, custom.GetViewportHeight())
	assert.Equal(t, 250*time.Millisecond, custom.NavigationTimeout())
	assert.Equal(t, 100*time.Millisecond, custom.OperationTimeout())
}

func TestLaunchFlags(t *testing.T) {
	got := launchFlags([]string{"--no-sandbox", "--window-size=800,600", "--", "user-data-dir=/tmp/x"})
	want := []launchFlag{
		{name: flags.Flag("no-sandbox")},
		{name: flags.Flag("window-size"), values: []string{"800,600"}},
		{name: flags.Flag("user-data-dir"), values: []string{"/tmp/x"}},
	}
	assert.Equal(t, want, got)
}

func TestBindingName(t *testing.T) {
	a, b := bindingName(), bindingName()
	assert.NotEqual(t, a, b)
	assert.Regexp(t, regexp.MustCompile(`^domsel_[0-9a-f]{32}$`), a)
}

func TestSessionManager_Idle(t *testing.T) {
	m := NewSessionManager(DefaultConfig(), nil)

	assert.False(t, m.IsConnected())
	assert.Empty(t, m.ControlURL())
	assert.Empty(t, m.List())

	_, ok := m.Document("nope")
	assert.False(t, ok)
	assert.Error(t, m.CloseDocument("nope"))
	require.NoError(t, m.Shutdown(context.Background()))
}

func TestKind_NilReceivers(t *testing.T) {
	var doc *Document
	var el *Element
	assert.Equal(t, dom.KindOther, doc.Kind())
	assert.Equal(t, dom.KindOther, el.Kind())
}
