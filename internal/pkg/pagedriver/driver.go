// Package pagedriver is the boundary between the crawler and whatever automates the
// browser. The crawler only ever talks to a Driver through XPath locators.
package pagedriver

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("element not found")
	ErrTimeout  = errors.New("timed out waiting for element")
	ErrClosed   = errors.New("driver closed")
)

// wait tiers used by carrier adapters
const (
	LowestWait  = 500 * time.Millisecond
	LowWait     = 1 * time.Second
	DefaultWait = 5 * time.Second
	MediumWait  = 10 * time.Second
	HighWait    = 30 * time.Second
	HighestWait = 60 * time.Second
)

// State is the element condition a Wait blocks on.
type State int

const (
	Present State = iota
	Visible
	Clickable
	Absent
)

func (s State) String() string {
	switch s {
	case Present:
		return "present"
	case Visible:
		return "visible"
	case Clickable:
		return "clickable"
	case Absent:
		return "absent"
	default:
		return "unknown"
	}
}

// Driver is a live page. Actions other than Wait do not block for the element to
// show up: a missing element is reported as ErrNotFound straight away.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	// Wait blocks until loc reaches state or timeout elapses, in which case the
	// error wraps ErrTimeout.
	Wait(ctx context.Context, loc Locator, state State, timeout time.Duration) error
	Click(ctx context.Context, loc Locator) error
	ScrollIntoView(ctx context.Context, loc Locator) error
	// Type replaces the current value of an input with text.
	Type(ctx context.Context, loc Locator, text string) error
	// Text returns the element's textContent with whitespace collapsed.
	Text(ctx context.Context, loc Locator) (string, error)
	Count(ctx context.Context, loc Locator) (int, error)
	// HTML returns the element's outerHTML.
	HTML(ctx context.Context, loc Locator) (string, error)
	Close() error
}

// ProxyConfig binds the browser's traffic to an upstream proxy.
type ProxyConfig struct {
	Server   string
	Username string
	Password string
}

type LaunchOptions struct {
	Headless  bool
	UserAgent string
	// ConcealAutomation asks the driver to look like an ordinary browser session
	// (no webdriver flag, no automation infobars).
	ConcealAutomation bool
	ExecPath          string
	ProfileDir        string
	WindowWidth       int
	WindowHeight      int
	Proxy             *ProxyConfig
}

// Launcher starts a new Driver.
type Launcher interface {
	Launch(ctx context.Context, opts LaunchOptions) (Driver, error)
}

type LauncherFunc func(ctx context.Context, opts LaunchOptions) (Driver, error)

func (f LauncherFunc) Launch(ctx context.Context, opts LaunchOptions) (Driver, error) {
	return f(ctx, opts)
}

// IsAbsent reports whether err only means the element was not there.
func IsAbsent(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrTimeout)
}

// ClickWhen waits for loc to reach state, scrolls it into view and clicks it.
func ClickWhen(ctx context.Context, d Driver, loc Locator, state State, timeout time.Duration) error {
	if err := d.Wait(ctx, loc, state, timeout); err != nil {
		return err
	}

	if err := d.ScrollIntoView(ctx, loc); err != nil {
		return err
	}

	return d.Click(ctx, loc)
}

// Exists reports whether at least one element matches loc right now.
func Exists(ctx context.Context, d Driver, loc Locator) (bool, error) {
	n, err := d.Count(ctx, loc)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// TextOrEmpty reads loc and maps absence to an empty string.
func TextOrEmpty(ctx context.Context, d Driver, loc Locator) (string, error) {
	text, err := d.Text(ctx, loc)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return text, err
}
