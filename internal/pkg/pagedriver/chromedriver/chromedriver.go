// Package chromedriver implements pagedriver.Driver on top of a Chrome instance
// controlled through the DevTools protocol.
package chromedriver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/pagedriver"
)

const (
	defaultWidth  = 1920
	defaultHeight = 1080

	// immediate actions still need a bound in case the browser hangs
	actionTimeout = pagedriver.HighWait

	hideWebdriverScript = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined})`
)

// evaluated with the XPath as first argument; every script resolves the first match
const (
	clickScript  = `(function(xp){const el=document.evaluate(xp,document,null,XPathResult.FIRST_ORDERED_NODE_TYPE,null).singleNodeValue;if(!el){return false;}el.click();return true;})(%s)`
	scrollScript = `(function(xp){const el=document.evaluate(xp,document,null,XPathResult.FIRST_ORDERED_NODE_TYPE,null).singleNodeValue;if(!el){return false;}el.scrollIntoView(false);return true;})(%s)`
	textScript   = `(function(xp){const el=document.evaluate(xp,document,null,XPathResult.FIRST_ORDERED_NODE_TYPE,null).singleNodeValue;if(!el){return null;}return el.textContent||"";})(%s)`
	htmlScript   = `(function(xp){const el=document.evaluate(xp,document,null,XPathResult.FIRST_ORDERED_NODE_TYPE,null).singleNodeValue;if(!el){return null;}return el.outerHTML;})(%s)`
	countScript  = `(function(xp){return document.evaluate(xp,document,null,XPathResult.ORDERED_NODE_SNAPSHOT_TYPE,null).snapshotLength;})(%s)`
)

type Driver struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	closeOnce   sync.Once
}

// Launcher starts a fresh Chrome process per session.
type Launcher struct{}

func (Launcher) Launch(ctx context.Context, opts pagedriver.LaunchOptions) (pagedriver.Driver, error) {
	return Launch(ctx, opts)
}

func Launch(ctx context.Context, opts pagedriver.LaunchOptions) (*Driver, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocatorOptions(opts)...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	d := &Driver{
		ctx:         tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
	}

	var startup chromedp.Tasks
	if opts.ConcealAutomation {
		startup = append(startup, chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(hideWebdriverScript).Do(ctx)
			return err
		}))
	}

	if p := opts.Proxy; p != nil && p.Username != "" {
		d.handleProxyAuth(p)
		startup = append(startup, fetch.Enable().WithHandleAuthRequests(true))
	}

	// the first Run starts the browser
	if err := chromedp.Run(tabCtx, startup); err != nil {
		d.Close()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	slog.DebugContext(ctx, "browser started",
		slog.Bool("headless", opts.Headless),
		slog.Bool("proxy", opts.Proxy != nil))

	return d, nil
}

func allocatorOptions(opts pagedriver.LaunchOptions) []chromedp.ExecAllocatorOption {
	width, height := opts.WindowWidth, opts.WindowHeight
	if width == 0 || height == 0 {
		width, height = defaultWidth, defaultHeight
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-web-security", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.WindowSize(width, height),
	)

	if opts.ConcealAutomation {
		allocOpts = append(allocOpts,
			chromedp.Flag("disable-blink-features", "AutomationControlled"),
			chromedp.Flag("enable-automation", false),
		)
	}

	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	if opts.ProfileDir != "" {
		allocOpts = append(allocOpts, chromedp.UserDataDir(opts.ProfileDir))
	}

	if opts.Proxy != nil && opts.Proxy.Server != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(opts.Proxy.Server))
	}

	return allocOpts
}

func (d *Driver) handleProxyAuth(p *pagedriver.ProxyConfig) {
	chromedp.ListenTarget(d.ctx, func(ev interface{}) {
		switch ev := ev.(type) {
		case *fetch.EventRequestPaused:
			go func() {
				_ = chromedp.Run(d.ctx, fetch.ContinueRequest(ev.RequestID))
			}()
		case *fetch.EventAuthRequired:
			go func() {
				_ = chromedp.Run(d.ctx, fetch.ContinueWithAuth(ev.RequestID, &fetch.AuthChallengeResponse{
					Response: fetch.AuthChallengeResponseResponseProvideCredentials,
					Username: p.Username,
					Password: p.Password,
				}))
			}()
		}
	})
}

// scoped derives a context that carries the tab, expires after timeout and is
// cancelled together with the caller's ctx.
func (d *Driver) scoped(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithTimeout(d.ctx, timeout)
	stop := context.AfterFunc(ctx, cancel)

	return runCtx, func() {
		stop()
		cancel()
	}
}

func (d *Driver) translate(ctx context.Context, err error, op string, target fmt.Stringer) error {
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if d.ctx.Err() != nil {
		return fmt.Errorf("%s %s: %w", op, target, pagedriver.ErrClosed)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", op, target, pagedriver.ErrTimeout)
	}

	return fmt.Errorf("%s %s: %w", op, target, err)
}

type urlTarget string

func (u urlTarget) String() string { return string(u) }

func (d *Driver) Navigate(ctx context.Context, url string) error {
	runCtx, cancel := d.scoped(ctx, pagedriver.HighestWait)
	defer cancel()

	if err := chromedp.Run(runCtx, chromedp.Navigate(url)); err != nil {
		return d.translate(ctx, err, "navigate", urlTarget(url))
	}
	return nil
}

func (d *Driver) Wait(ctx context.Context, loc pagedriver.Locator, state pagedriver.State, timeout time.Duration) error {
	runCtx, cancel := d.scoped(ctx, timeout)
	defer cancel()

	sel := loc.String()

	var action chromedp.Action
	switch state {
	case pagedriver.Present:
		action = chromedp.WaitReady(sel, chromedp.BySearch)
	case pagedriver.Visible:
		action = chromedp.WaitVisible(sel, chromedp.BySearch)
	case pagedriver.Clickable:
		action = chromedp.Tasks{
			chromedp.WaitVisible(sel, chromedp.BySearch),
			chromedp.WaitEnabled(sel, chromedp.BySearch),
		}
	case pagedriver.Absent:
		action = chromedp.WaitNotPresent(sel, chromedp.BySearch)
	default:
		return fmt.Errorf("wait %s: unsupported state %d", loc, state)
	}

	return d.translate(ctx, chromedp.Run(runCtx, action), "wait "+state.String(), loc)
}

func (d *Driver) evaluate(ctx context.Context, script string, loc pagedriver.Locator, out interface{}) error {
	arg, err := json.Marshal(loc.String())
	if err != nil {
		return fmt.Errorf("encode locator %s: %w", loc, err)
	}

	runCtx, cancel := d.scoped(ctx, actionTimeout)
	defer cancel()

	return chromedp.Run(runCtx, chromedp.Evaluate(fmt.Sprintf(script, arg), out))
}

func (d *Driver) Click(ctx context.Context, loc pagedriver.Locator) error {
	var clicked bool
	if err := d.evaluate(ctx, clickScript, loc, &clicked); err != nil {
		return d.translate(ctx, err, "click", loc)
	}

	if !clicked {
		return fmt.Errorf("click %s: %w", loc, pagedriver.ErrNotFound)
	}
	return nil
}

func (d *Driver) ScrollIntoView(ctx context.Context, loc pagedriver.Locator) error {
	var scrolled bool
	if err := d.evaluate(ctx, scrollScript, loc, &scrolled); err != nil {
		return d.translate(ctx, err, "scroll", loc)
	}

	if !scrolled {
		return fmt.Errorf("scroll %s: %w", loc, pagedriver.ErrNotFound)
	}
	return nil
}

func (d *Driver) Type(ctx context.Context, loc pagedriver.Locator, text string) error {
	runCtx, cancel := d.scoped(ctx, actionTimeout)
	defer cancel()

	var nodes []*cdp.Node
	if err := chromedp.Run(runCtx, chromedp.Nodes(loc.String(), &nodes, chromedp.BySearch, chromedp.AtLeast(0))); err != nil {
		return d.translate(ctx, err, "type", loc)
	}

	if len(nodes) == 0 {
		return fmt.Errorf("type %s: %w", loc, pagedriver.ErrNotFound)
	}

	ids := []cdp.NodeID{nodes[0].NodeID}
	err := chromedp.Run(runCtx,
		chromedp.SetValue(ids, "", chromedp.ByNodeID),
		chromedp.SendKeys(ids, text, chromedp.ByNodeID),
	)
	return d.translate(ctx, err, "type", loc)
}

func (d *Driver) Text(ctx context.Context, loc pagedriver.Locator) (string, error) {
	var text *string
	if err := d.evaluate(ctx, textScript, loc, &text); err != nil {
		return "", d.translate(ctx, err, "text", loc)
	}

	if text == nil {
		return "", fmt.Errorf("text %s: %w", loc, pagedriver.ErrNotFound)
	}
	return strings.Join(strings.Fields(*text), " "), nil
}

func (d *Driver) Count(ctx context.Context, loc pagedriver.Locator) (int, error) {
	var n int
	if err := d.evaluate(ctx, countScript, loc, &n); err != nil {
		return 0, d.translate(ctx, err, "count", loc)
	}
	return n, nil
}

func (d *Driver) HTML(ctx context.Context, loc pagedriver.Locator) (string, error) {
	var html *string
	if err := d.evaluate(ctx, htmlScript, loc, &html); err != nil {
		return "", d.translate(ctx, err, "html", loc)
	}

	if html == nil {
		return "", fmt.Errorf("html %s: %w", loc, pagedriver.ErrNotFound)
	}
	return *html, nil
}

// Close shuts the tab and the browser process. It is safe to call more than once.
func (d *Driver) Close() error {
	d.closeOnce.Do(func() {
		d.cancelTab()
		d.cancelAlloc()
	})
	return nil
}
