// Package browser is a dom host backed by a live Chrome page driven by rod.
//
// A SessionManager owns the Chrome connection and the open pages. Each page
// is exposed as a Document that satisfies dom.Root, and the elements it
// returns satisfy dom.Element by evaluating small functions on the remote
// node.
package browser

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session describes the public metadata for an open page.
type Session struct {
	ID        string    `json:"id"`
	TargetID  string    `json:"target_id,omitempty"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionManager owns the Chrome instance and tracks open documents.
type SessionManager struct {
	cfg        Config
	logger     *zap.Logger
	mu         sync.RWMutex
	browser    *rod.Browser
	docs       map[string]*Document
	controlURL string // WebSocket URL for DevTools
}

// NewSessionManager creates a new session manager. A nil logger discards
// output.
func NewSessionManager(cfg Config, logger *zap.Logger) *SessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionManager{
		cfg:    cfg,
		logger: logger,
		docs:   make(map[string]*Document),
	}
}

// Start connects to an existing Chrome or launches a new one.
func (m *SessionManager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// If we already have a browser, verify it's still alive
	if m.browser != nil {
		if _, err := m.browser.Version(); err == nil {
			return nil
		}
		m.logger.Warn("Stale browser connection detected, reconnecting")
		_ = m.browser.Close()
		m.browser = nil
		m.controlURL = ""
		m.docs = make(map[string]*Document)
	}

	controlURL := m.cfg.DebuggerURL
	if controlURL == "" {
		url, err := m.cfg.launcher().Context(ctx).Launch()
		if err != nil {
			return fmt.Errorf("no debugger_url and failed to launch: %w", err)
		}
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect to chrome: %w", err)
	}

	m.browser = browser
	m.controlURL = controlURL
	m.logger.Info("Connected to browser", zap.String("control_url", controlURL))
	return nil
}

func (m *SessionManager) ensureStarted(ctx context.Context) error {
	m.mu.RLock()
	if m.browser != nil {
		m.mu.RUnlock()
		return nil
	}
	m.mu.RUnlock()
	return m.Start(ctx)
}

// ControlURL returns the WebSocket debugger URL.
func (m *SessionManager) ControlURL() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.controlURL
}

// IsConnected returns whether the browser is connected.
func (m *SessionManager) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.browser != nil
}

// Open creates a page for url, waits for it to load and tracks it.
func (m *SessionManager) Open(ctx context.Context, url string) (*Document, error) {
	if err := m.ensureStarted(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	browser := m.browser
	m.mu.RUnlock()
	if browser == nil {
		return nil, errors.New("browser not connected")
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             m.cfg.GetViewportWidth(),
		Height:            m.cfg.GetViewportHeight(),
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		m.logger.Warn("Failed to set viewport", zap.Error(err))
	}

	if err := page.Timeout(m.cfg.NavigationTimeout()).WaitLoad(); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("wait for load: %w", err)
	}

	doc := newDocument(page, Session{
		ID:        uuid.NewString(),
		TargetID:  string(page.TargetID),
		URL:       url,
		CreatedAt: time.Now(),
	}, m.cfg.OperationTimeout(), m.logger)

	m.mu.Lock()
	m.docs[doc.meta.ID] = doc
	m.mu.Unlock()

	m.logger.Debug("Opened document", zap.String("session", doc.meta.ID), zap.String("url", url))
	return doc, nil
}

// Document returns a tracked document by session ID.
func (m *SessionManager) Document(id string) (*Document, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[id]
	return doc, ok
}

// List returns metadata for all open documents, oldest first.
func (m *SessionManager) List() []Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]Session, 0, len(m.docs))
	for _, doc := range m.docs {
		results = append(results, doc.meta)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.Before(results[j].CreatedAt)
	})
	return results
}

// CloseDocument closes and forgets one document.
func (m *SessionManager) CloseDocument(id string) error {
	m.mu.Lock()
	doc, ok := m.docs[id]
	delete(m.docs, id)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown session %q", id)
	}
	return doc.Close()
}

// Shutdown closes tracked pages and the browser. ctx bounds the browser
// close; the manager is reset either way.
func (m *SessionManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, doc := range m.docs {
		if err := doc.Close(); err != nil {
			m.logger.Debug("Close document failed", zap.String("session", id), zap.Error(err))
		}
		delete(m.docs, id)
	}

	var err error
	if m.browser != nil {
		err = m.browser.Context(ctx).Close()
		m.browser = nil
	}
	m.controlURL = ""
	return err
}
