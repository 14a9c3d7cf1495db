package chat

import (
	"fmt"
	"sort"
	"time"
)

// Effect timings, measured from the moment the reply is received.
const (
	BannerTTL        = 3 * time.Second
	NavigateDelay    = 800 * time.Millisecond
	ExportDelay      = 500 * time.Millisecond
	RunStartedDelay  = 1 * time.Second
	RunRedirectDelay = 2500 * time.Millisecond
)

const (
	ExportSucceeded = "✓ Export downloaded successfully!"
	ExportFailed    = "✗ Export failed. Please try again."
)

// pagePaths maps the page names the assistant uses onto routes.
var pagePaths = map[string]string{
	"dashboard":   "/",
	"actors":      "/actors",
	"runs":        "/runs",
	"datasets":    "/datasets",
	"leads":       "/datasets",
	"proxies":     "/proxies",
	"marketplace": "/marketplace",
}

// PagePath resolves an assistant page name. ok is false for unknown names.
func PagePath(page string) (path string, ok bool) {
	path, ok = pagePaths[page]
	return path, ok
}

// EffectKind is what an effect does when it fires.
type EffectKind int

const (
	EffectBanner EffectKind = iota
	EffectClearBanner
	EffectNavigate
	EffectExport
)

func (k EffectKind) String() string {
	switch k {
	case EffectBanner:
		return "banner"
	case EffectClearBanner:
		return "clear_banner"
	case EffectNavigate:
		return "navigate"
	case EffectExport:
		return "export"
	}
	return "unknown"
}

// Effect is one scheduled side effect of an action.
type Effect struct {
	At   time.Duration
	Kind EffectKind

	// Banner
	Text string
	TTL  time.Duration // zero keeps the banner until cleared

	// Navigate
	Path string

	// Export
	RunID  string
	Format string
}

// Plan turns an action into effects ordered by firing time. A nil action or
// a navigate to an unknown page yields no navigation.
func Plan(a Action) []Effect {
	if a == nil {
		return nil
	}
	var effects []Effect
	if msg := a.Banner(); msg != "" {
		effects = append(effects, Effect{At: 0, Kind: EffectBanner, Text: msg, TTL: BannerTTL})
	}

	switch act := a.(type) {
	case Navigate:
		if path, ok := PagePath(act.Page); ok {
			effects = append(effects, Effect{At: NavigateDelay, Kind: EffectNavigate, Path: path})
		}
	case OpenActor:
		effects = append(effects, Effect{At: NavigateDelay, Kind: EffectNavigate, Path: "/actors/" + act.ActorID})
	case ViewRun:
		effects = append(effects, Effect{At: NavigateDelay, Kind: EffectNavigate, Path: "/" + act.Page})
	case FillAndRun:
		effects = append(effects,
			Effect{At: RunStartedDelay, Kind: EffectBanner, Text: fmt.Sprintf("✓ Scraper started! Run ID: %s...", prefix(act.RunID, 8))},
			Effect{At: RunRedirectDelay, Kind: EffectNavigate, Path: "/runs"},
			Effect{At: RunRedirectDelay, Kind: EffectClearBanner},
		)
	case Export:
		effects = append(effects, Effect{At: ExportDelay, Kind: EffectExport, RunID: act.RunID, Format: act.Format})
	}

	sort.SliceStable(effects, func(i, j int) bool { return effects[i].At < effects[j].At })
	return effects
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
