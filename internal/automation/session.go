// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package automation

import "fmt"

// Session owns one running automation host and can replace it after a
// fault. It is not safe for concurrent use; doc2md converts one file at a
// time on one session.
type Session struct {
	launch   Launcher
	app      Application
	restarts int
}

// NewSession launches a host. The caller must Close the session.
func NewSession(launch Launcher) (*Session, error) {
	app, err := launch()
	if err != nil {
		return nil, fmt.Errorf("starting automation host: %w", err)
	}
	return &Session{launch: launch, app: app}, nil
}

// App returns the current host. It is nil after Close or a failed Restart.
func (s *Session) App() Application {
	return s.app
}

// Restarts returns how many times the host has been re-launched.
func (s *Session) Restarts() int {
	return s.restarts
}

// Restart quits the current host, ignoring errors from a host that may
// already be gone, and launches a new one.
func (s *Session) Restart() error {
	if s.app != nil {
		_ = s.app.Quit()
		s.app = nil
	}
	s.restarts++

	app, err := s.launch()
	if err != nil {
		return fmt.Errorf("restarting automation host: %w", err)
	}
	s.app = app
	return nil
}

// Close quits the host. It is safe to call more than once.
func (s *Session) Close() error {
	if s.app == nil {
		return nil
	}
	app := s.app
	s.app = nil
	if err := app.Quit(); err != nil {
		return fmt.Errorf("quitting automation host: %w", err)
	}
	return nil
}
