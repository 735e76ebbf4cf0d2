package browser

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/logging"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/metrics"
)

// Default values for launched sessions
const (
	DefaultTimeout        = 30000.0 // 30 seconds in milliseconds
	DefaultViewportWidth  = 1920
	DefaultViewportHeight = 1080
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// LaunchOptions configures every session started by a PlaywrightLauncher.
type LaunchOptions struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// TimeoutMS is the default timeout for page operations
	TimeoutMS float64

	ViewportWidth  int
	ViewportHeight int
	UserAgent      string

	// SkipInstall assumes drivers and browsers are already present
	SkipInstall bool
}

// PlaywrightLauncher starts Chromium sessions. The Playwright driver is
// installed and started once, on the first Start; each session gets its own
// browser process.
type PlaywrightLauncher struct {
	mu          sync.Mutex
	playwright  *playwright.Playwright
	opts        LaunchOptions
	logger      *logging.Logger
	metrics     *metrics.Collector
	initialized bool
}

// LauncherOption configures a PlaywrightLauncher.
type LauncherOption func(*PlaywrightLauncher)

// WithLauncherLogger sets the launcher logger.
func WithLauncherLogger(l *logging.Logger) LauncherOption {
	return func(pl *PlaywrightLauncher) {
		pl.logger = l
	}
}

// WithLauncherMetrics records open sessions on m.
func WithLauncherMetrics(m *metrics.Collector) LauncherOption {
	return func(pl *PlaywrightLauncher) {
		pl.metrics = m
	}
}

// NewPlaywrightLauncher creates a launcher. Zero option fields get defaults.
func NewPlaywrightLauncher(opts LaunchOptions, options ...LauncherOption) *PlaywrightLauncher {
	if opts.TimeoutMS <= 0 {
		opts.TimeoutMS = DefaultTimeout
	}
	if opts.ViewportWidth <= 0 || opts.ViewportHeight <= 0 {
		opts.ViewportWidth = DefaultViewportWidth
		opts.ViewportHeight = DefaultViewportHeight
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	l := &PlaywrightLauncher{
		opts:   opts,
		logger: logging.Nop(),
	}
	for _, o := range options {
		o(l)
	}
	return l
}

func (l *PlaywrightLauncher) initialize() error {
	if l.initialized {
		return nil
	}

	// Driver output would interfere with the TUI
	runOpts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}

	if !l.opts.SkipInstall {
		if err := playwright.Install(runOpts); err != nil {
			return fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	l.playwright = pw
	l.initialized = true
	return nil
}

// Start launches a browser with one context and one page.
func (l *PlaywrightLauncher) Start(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.initialize(); err != nil {
		return nil, err
	}

	headless := l.opts.Headless
	browser, err := l.playwright.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &headless,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	userAgent := l.opts.UserAgent
	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  l.opts.ViewportWidth,
			Height: l.opts.ViewportHeight,
		},
		UserAgent: &userAgent,
	})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		browser.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(l.opts.TimeoutMS)

	l.metrics.SessionOpened()
	l.logger.Debugf("browser session started (headless=%t)", headless)

	return &playwrightSession{
		browser: browser,
		context: bctx,
		page:    &playwrightPage{page: page},
		onClose: l.metrics.SessionClosed,
	}, nil
}

// Shutdown stops the Playwright driver. Sessions must be closed first.
func (l *PlaywrightLauncher) Shutdown() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.initialized || l.playwright == nil {
		return nil
	}
	if err := l.playwright.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	l.initialized = false
	return nil
}

type playwrightSession struct {
	browser playwright.Browser
	context playwright.BrowserContext
	page    *playwrightPage

	closeOnce sync.Once
	closeErr  error
	onClose   func()
}

func (s *playwrightSession) Page() Page {
	return s.page
}

func (s *playwrightSession) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if err := s.page.page.Close(); err != nil {
			errs = append(errs, err)
		}
		if err := s.context.Close(); err != nil {
			errs = append(errs, err)
		}
		if err := s.browser.Close(); err != nil {
			errs = append(errs, err)
		}
		if len(errs) > 0 {
			s.closeErr = fmt.Errorf("errors closing session: %v", errs)
		}
		if s.onClose != nil {
			s.onClose()
		}
	})
	return s.closeErr
}

// playwrightPage adapts playwright.Page to Page.
type playwrightPage struct {
	page playwright.Page
}

func (p *playwrightPage) Goto(url string) error {
	waitUntil := playwright.WaitUntilState("domcontentloaded")
	if _, err := p.page.Goto(url, playwright.PageGotoOptions{WaitUntil: &waitUntil}); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (p *playwrightPage) Fill(selector, value string) error {
	if err := p.page.Fill(selector, value); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

func (p *playwrightPage) Click(selector string) error {
	if err := p.page.Click(selector); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

func (p *playwrightPage) Evaluate(script string) error {
	if _, err := p.page.Evaluate(script); err != nil {
		return fmt.Errorf("evaluate failed: %w", err)
	}
	return nil
}

func (p *playwrightPage) QueryAll(selector string) ([]Element, error) {
	handles, err := p.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, fmt.Errorf("selector query failed: %w", err)
	}
	elements := make([]Element, 0, len(handles))
	for _, h := range handles {
		elements = append(elements, h)
	}
	return elements, nil
}

func (p *playwrightPage) Query(selector string) (Element, error) {
	handle, err := p.page.QuerySelector(selector)
	if err != nil {
		return nil, fmt.Errorf("selector query failed: %w", err)
	}
	if handle == nil {
		return nil, nil
	}
	return handle, nil
}
