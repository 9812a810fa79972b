package vinted

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"vinted-scraper/config"
	"vinted-scraper/utils"
)

const cookieButton = "#onetrust-accept-btn-handler"

// PageHandler receives the full markup of each catalog page, in page order.
type PageHandler func(page int, html string) error

// Scraper drives a Chrome session through the catalog pages.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
	retry  *utils.RetryConfig
	rng    *rand.Rand
}

// New creates a ready-to-use Vinted Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:    cfg,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Scrape opens every configured catalog page and passes its markup to handle.
// A page that keeps failing ends pagination; pages already handled stand.
func (s *Scraper) Scrape(ctx context.Context, handle PageHandler) error {
	s.logger.Info("[vinted] Starting scrape for %q, %d pages", s.cfg.SearchQuery, s.cfg.MaxPages)

	chromeBin := findChromeBinary(s.cfg.ChromeBin)
	s.logger.Info("[vinted] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	s.acceptCookies(browserCtx)

	handled := 0
	for page := 1; page <= s.cfg.MaxPages; page++ {
		pageURL := s.cfg.CatalogURL(page)
		s.logger.Info("[vinted] Opening page %d: %s", page, pageURL)

		html, err := s.fetchPage(browserCtx, pageURL, page)
		if err != nil {
			s.logger.Error("[vinted] Page %d failed: %v", page, err)
			break
		}

		if err := handle(page, html); err != nil {
			return fmt.Errorf("vinted: handle page %d: %w", page, err)
		}
		handled++
	}

	if handled == 0 {
		return errors.New("vinted: no catalog page could be loaded")
	}
	s.logger.Info("[vinted] Scrape complete: %d/%d pages", handled, s.cfg.MaxPages)
	return nil
}

// acceptCookies loads the home page and dismisses the consent banner if shown.
func (s *Scraper) acceptCookies(ctx context.Context) {
	var clicked bool
	err := chromedp.Run(ctx,
		chromedp.Navigate(s.cfg.BaseURL),
		chromedp.Sleep(2*time.Second),
		chromedp.Evaluate(`
			(function() {
				var btn = document.querySelector('`+cookieButton+`');
				if (btn && btn.offsetParent !== null) {
					btn.click();
					return true;
				}
				return false;
			})()
		`, &clicked),
	)
	if err != nil {
		s.logger.Warn("[vinted] Cookie banner step failed: %v", err)
		return
	}
	s.logger.Debug("[vinted] Cookie banner clicked: %v", clicked)
}

func (s *Scraper) fetchPage(ctx context.Context, pageURL string, page int) (string, error) {
	var html string

	err := s.retry.Do(ctx, fmt.Sprintf("catalog-page-%d", page), func() error {
		pageCtx, cancel := context.WithTimeout(ctx, 90*time.Second)
		defer cancel()

		return chromedp.Run(pageCtx,
			chromedp.Navigate(pageURL),
			chromedp.Sleep(pageWait(s.rng, s.cfg.PageWaitMinMs, s.cfg.PageWaitMaxMs)),
			chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		)
	})

	return html, err
}

// pageWait returns a random duration in [minMs, maxMs].
func pageWait(rng *rand.Rand, minMs, maxMs int) time.Duration {
	if maxMs <= minMs {
		return time.Duration(minMs) * time.Millisecond
	}
	return time.Duration(minMs+rng.Intn(maxMs-minMs+1)) * time.Millisecond
}

// findChromeBinary locates Chrome/Chromium, preferring the configured path.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
