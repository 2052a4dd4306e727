package browser

import (
	"strings"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
)

// Config holds browser configuration.
type Config struct {
	DebuggerURL         string   `yaml:"debugger_url" json:"debugger_url"`
	Launch              []string `yaml:"launch" json:"launch"` // binary followed by extra flags
	Headless            bool     `yaml:"headless" json:"headless"`
	ViewportWidth       int      `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight      int      `yaml:"viewport_height" json:"viewport_height"`
	NavigationTimeoutMs int      `yaml:"navigation_timeout_ms" json:"navigation_timeout_ms"`
	OperationTimeoutMs  int      `yaml:"operation_timeout_ms" json:"operation_timeout_ms"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Headless:            true,
		ViewportWidth:       1920,
		ViewportHeight:      1080,
		NavigationTimeoutMs: 30000,
		OperationTimeoutMs:  5000,
	}
}

// GetViewportWidth returns viewport width.
func (c Config) GetViewportWidth() int {
	if c.ViewportWidth == 0 {
		return 1920
	}
	return c.ViewportWidth
}

// GetViewportHeight returns viewport height.
func (c Config) GetViewportHeight() int {
	if c.ViewportHeight == 0 {
		return 1080
	}
	return c.ViewportHeight
}

// NavigationTimeout returns the navigation timeout.
func (c Config) NavigationTimeout() time.Duration {
	if c.NavigationTimeoutMs == 0 {
		return 30 * time.Second
	}
	return time.Duration(c.NavigationTimeoutMs) * time.Millisecond
}

// OperationTimeout bounds each remote DOM call.
func (c Config) OperationTimeout() time.Duration {
	if c.OperationTimeoutMs == 0 {
		return 5 * time.Second
	}
	return time.Duration(c.OperationTimeoutMs) * time.Millisecond
}

// launcher builds a Chrome launcher from Launch, or the rod default when
// Launch is empty.
func (c Config) launcher() *launcher.Launcher {
	l := launcher.New().Headless(c.Headless)
	if len(c.Launch) == 0 {
		return l
	}
	l = l.Bin(c.Launch[0])
	for _, f := range launchFlags(c.Launch[1:]) {
		l = l.Set(f.name, f.values...)
	}
	return l
}

type launchFlag struct {
	name   flags.Flag
	values []string
}

// launchFlags parses "--name=value" and "--name" into launcher flags.
func launchFlags(raw []string) []launchFlag {
	out := make([]launchFlag, 0, len(raw))
	for _, rawFlag := range raw {
		flagStr := strings.TrimLeft(rawFlag, "-")
		if flagStr == "" {
			continue
		}
		name, val, hasVal := strings.Cut(flagStr, "=")
		f := launchFlag{name: flags.Flag(name)}
		if hasVal {
			f.values = []string{val}
		}
		out = append(out, f)
	}
	return out
}
