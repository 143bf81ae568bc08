// Package preflight checks that the environment carries everything the
// platform needs before a bootstrap run is attempted.
package preflight

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/callgrid/platform-bootstrap/internal/config"
	"github.com/callgrid/platform-bootstrap/internal/db"
)

// Probe is one environment check. Unlike bootstrap steps, every probe runs
// even after an earlier one fails, so the operator sees the full picture in
// one pass.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// ProbeResult is the outcome of a single probe.
type ProbeResult struct {
	Name string
	Err  error
}

// Report is the outcome of running all probes.
type Report struct {
	Results []ProbeResult
}

// Passed reports whether every probe succeeded.
func (r *Report) Passed() bool {
	for _, res := range r.Results {
		if res.Err != nil {
			return false
		}
	}
	return true
}

// Probes builds the standard probe set for a configuration.
func Probes(cfg *config.Config) []Probe {
	return []Probe{
		{Name: "database", Check: func(ctx context.Context) error {
			return checkDatabase(ctx, cfg.DatabaseURL)
		}},
		{Name: "jwt-secret", Check: func(ctx context.Context) error {
			return CheckJWTSecret(cfg.JWTSecret)
		}},
		{Name: "asset-roots", Check: func(ctx context.Context) error {
			return checkAssetRoots(cfg.Assets.SourceRoots)
		}},
	}
}

// Run executes every probe and returns the collected report.
func Run(ctx context.Context, probes []Probe) *Report {
	report := &Report{Results: make([]ProbeResult, 0, len(probes))}
	for _, p := range probes {
		report.Results = append(report.Results, ProbeResult{Name: p.Name, Err: p.Check(ctx)})
	}
	return report
}

func checkDatabase(ctx context.Context, databaseURL string) error {
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	conn, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	conn.Close()
	return nil
}

// CheckJWTSecret verifies the platform auth secret is present and usable by
// signing and re-verifying a short-lived token with it.
func CheckJWTSecret(secret string) error {
	if secret == "" {
		return fmt.Errorf("JWT_SECRET not set")
	}
	if len(secret) < 32 {
		return fmt.Errorf("JWT_SECRET too short (%d chars, need at least 32)", len(secret))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "bootstrap-preflight",
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return fmt.Errorf("failed to sign with JWT_SECRET: %w", err)
	}

	parsed, err := jwt.Parse(signed, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return fmt.Errorf("failed to verify with JWT_SECRET: %w", err)
	}
	if !parsed.Valid {
		return fmt.Errorf("JWT_SECRET round trip produced an invalid token")
	}
	return nil
}

func checkAssetRoots(roots []string) error {
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return fmt.Errorf("asset source root %s: %w", root, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("asset source root %s is not a directory", root)
		}
	}
	return nil
}
