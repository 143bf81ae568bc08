package bootstrap

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/callgrid/platform-bootstrap/internal/assets"
	"github.com/callgrid/platform-bootstrap/internal/config"
	"github.com/callgrid/platform-bootstrap/internal/db"
	"github.com/callgrid/platform-bootstrap/internal/deps"
	"github.com/callgrid/platform-bootstrap/internal/migrate"
	"github.com/callgrid/platform-bootstrap/internal/referral"
	"github.com/callgrid/platform-bootstrap/internal/settings"
)

// dbHandle connects lazily so the database-free steps (install, collect)
// can run without a reachable database, and the connection is shared by the
// steps that do need one.
type dbHandle struct {
	cfg *config.Config

	mu   sync.Mutex
	conn *db.DB
	err  error
	done bool
}

func (h *dbHandle) get(ctx context.Context) (*db.DB, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done {
		return h.conn, h.err
	}
	h.done = true

	url, err := h.cfg.RequireDatabase()
	if err != nil {
		h.err = err
		return nil, err
	}
	h.conn, h.err = db.Connect(ctx, url)
	return h.conn, h.err
}

func (h *dbHandle) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conn != nil {
		h.conn.Close()
		h.conn = nil
	}
	h.done = false
}

// ledger adapts a dbHandle into a Recorder without forcing a connection: it
// only records when the run already connected successfully.
type ledger struct {
	handle *dbHandle
}

func (l *ledger) connected() (*db.DB, error) {
	l.handle.mu.Lock()
	defer l.handle.mu.Unlock()
	if l.handle.conn == nil {
		return nil, fmt.Errorf("no database connection")
	}
	return l.handle.conn, nil
}

func (l *ledger) CreateBootstrapRun(ctx context.Context) (uuid.UUID, error) {
	conn, err := l.connected()
	if err != nil {
		return uuid.Nil, err
	}
	return conn.CreateBootstrapRun(ctx)
}

func (l *ledger) CompleteBootstrapRun(ctx context.Context, runID uuid.UUID, status string) error {
	conn, err := l.connected()
	if err != nil {
		return err
	}
	return conn.CompleteBootstrapRun(ctx, runID, status)
}

func (l *ledger) RecordBootstrapStep(ctx context.Context, runID uuid.UUID, step, status, errMsg string, durationMs int64) error {
	conn, err := l.connected()
	if err != nil {
		return err
	}
	return conn.RecordBootstrapStep(ctx, runID, step, status, errMsg, durationMs)
}

// NewRunner wires the real collaborators for cfg. The returned cleanup
// closes the shared database connection and must be called after the run.
func NewRunner(cfg *config.Config, out io.Writer) (*Runner, func()) {
	handle := &dbHandle{cfg: cfg}

	collab := Collaborators{
		InstallDeps: func(ctx context.Context) error {
			inst := &deps.Installer{
				Command: cfg.Deps.Command,
				Dir:     cfg.Deps.Dir,
				Stdout:  out,
			}
			return inst.Install(ctx)
		},
		CollectAssets: func(ctx context.Context) error {
			collector := &assets.Collector{
				SourceRoots:      cfg.Assets.SourceRoots,
				CollectRoot:      cfg.Assets.CollectRoot,
				VerifyReferences: cfg.Assets.VerifyReferences,
			}
			res, err := collector.Collect(ctx)
			if err != nil {
				return err
			}
			if out != nil {
				fmt.Fprintf(out, "Collected %d static files into %s\n", res.Copied, cfg.Assets.CollectRoot)
			}
			return nil
		},
		Migrate: func(ctx context.Context) error {
			conn, err := handle.get(ctx)
			if err != nil {
				return err
			}
			res, err := migrate.Apply(ctx, conn.Pool())
			if err != nil {
				return err
			}
			if out != nil {
				fmt.Fprintf(out, "Applied %d migration(s), %d already applied\n", len(res.Applied), res.Skipped)
			}
			return nil
		},
		InitPlatformSettings: func(ctx context.Context) error {
			conn, err := handle.get(ctx)
			if err != nil {
				return err
			}
			init := &settings.Initializer{Store: conn, Out: out}
			_, err = init.Run(ctx)
			return err
		},
		InitReferralSettings: func(ctx context.Context) error {
			conn, err := handle.get(ctx)
			if err != nil {
				return err
			}
			init := &referral.Initializer{Store: conn, Out: out}
			_, err = init.Run(ctx)
			return err
		},
	}

	runner := &Runner{
		Collaborators: collab,
		Recorder:      &ledger{handle: handle},
		Out:           out,
		Verbose:       cfg.Verbose,
	}
	return runner, handle.close
}
