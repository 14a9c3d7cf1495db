package chat

import (
	"context"
	"time"

	"scrapi-go/pkg/cli/logger"
)

// Navigator switches the client to a route.
type Navigator interface {
	Navigate(path string)
}

// Downloader fetches a run export and writes it into dir, returning the path.
type Downloader interface {
	DownloadRunExport(ctx context.Context, runID, format, dir string) (string, error)
}

// Notifier shows and clears the feedback banner.
type Notifier interface {
	Notify(text string, ttl time.Duration)
	Clear()
}

// Executor runs a plan in real time. The TUI schedules the same plan through
// its own event loop; Executor serves the non-interactive commands and tests.
type Executor struct {
	Navigator  Navigator
	Downloader Downloader
	Notifier   Notifier
	ExportDir  string

	// Sleep waits for d or until ctx is done. Defaults to a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Run fires every effect at its offset. Export failures are reported through
// the notifier and never returned; only context cancellation is.
func (e *Executor) Run(ctx context.Context, effects []Effect) error {
	sleep := e.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}
	var elapsed time.Duration
	for _, eff := range effects {
		if wait := eff.At - elapsed; wait > 0 {
			if err := sleep(ctx, wait); err != nil {
				return err
			}
			elapsed = eff.At
		}
		e.apply(ctx, eff)
	}
	return nil
}

func (e *Executor) apply(ctx context.Context, eff Effect) {
	switch eff.Kind {
	case EffectBanner:
		if e.Notifier != nil {
			e.Notifier.Notify(eff.Text, eff.TTL)
		}
	case EffectClearBanner:
		if e.Notifier != nil {
			e.Notifier.Clear()
		}
	case EffectNavigate:
		if e.Navigator != nil {
			e.Navigator.Navigate(eff.Path)
		}
	case EffectExport:
		text := ExportSucceeded
		if e.Downloader == nil {
			text = ExportFailed
		} else if path, err := e.Downloader.DownloadRunExport(ctx, eff.RunID, eff.Format, e.ExportDir); err != nil {
			logger.LogError(err, "chat export of run %s failed", eff.RunID)
			text = ExportFailed
		} else {
			logger.Info("chat export written", "run", eff.RunID, "path", path)
		}
		if e.Notifier != nil {
			e.Notifier.Notify(text, BannerTTL)
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
