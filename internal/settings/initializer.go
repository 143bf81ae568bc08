package settings

import (
	"context"
	"fmt"
	"io"

	"github.com/callgrid/platform-bootstrap/internal/db"
)

// Store is the persistence surface the initializer needs.
type Store interface {
	GetPlatformSetting(ctx context.Context, key string) (*db.PlatformSetting, error)
	CreatePlatformSetting(ctx context.Context, s *db.PlatformSetting) error
	UpdatePlatformSetting(ctx context.Context, s *db.PlatformSetting) error
	ListPlatformSettings(ctx context.Context) ([]db.PlatformSetting, error)
}

// Initializer seeds the default platform settings. Default mode creates
// missing rows and skips existing ones, which makes a rerun after a partial
// bootstrap safe. Force mode overwrites existing rows with the defaults.
type Initializer struct {
	Store  Store
	Force  bool
	DryRun bool
	// Out receives per-key progress lines; nil discards them.
	Out io.Writer
}

// Summary reports what the initializer did (or, in dry-run mode, would do).
type Summary struct {
	Created int
	Updated int
	Skipped int
}

// Run seeds the defaults and returns the summary. Any store failure aborts
// the run immediately.
func (init *Initializer) Run(ctx context.Context) (*Summary, error) {
	defaults, err := LoadDefaults()
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	for _, def := range defaults {
		def := def
		existing, err := init.Store.GetPlatformSetting(ctx, def.Key)
		if err != nil {
			return summary, err
		}

		switch {
		case existing == nil:
			if !init.DryRun {
				if err := init.Store.CreatePlatformSetting(ctx, &def); err != nil {
					return summary, err
				}
			}
			summary.Created++
			init.printf("CREATED: %s\n", def.Key)
		case init.Force:
			if !init.DryRun {
				if err := init.Store.UpdatePlatformSetting(ctx, &def); err != nil {
					return summary, err
				}
			}
			summary.Updated++
			init.printf("UPDATED: %s (forced update)\n", def.Key)
		default:
			summary.Skipped++
			init.printf("SKIPPED: %s (already exists)\n", def.Key)
		}
	}
	return summary, nil
}

// PrintCurrent lists the stored settings, ordered by category then key, in
// the management-command display format.
func (init *Initializer) PrintCurrent(ctx context.Context) error {
	settings, err := init.Store.ListPlatformSettings(ctx)
	if err != nil {
		return err
	}
	for _, s := range settings {
		init.printf("  %s: %s (%s)\n", s.Key, s.Value(), s.Category)
	}
	return nil
}

func (init *Initializer) printf(format string, args ...any) {
	if init.Out != nil {
		fmt.Fprintf(init.Out, format, args...)
	}
}
