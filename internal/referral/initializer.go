// Package referral seeds the referral program's default settings.
package referral

import (
	"context"
	"fmt"
	"io"
)

// Store is the persistence surface the initializer needs.
type Store interface {
	UpsertReferralSetting(ctx context.Context, key, value, description string) (created bool, err error)
}

// Default is one referral setting seeded at bootstrap.
type Default struct {
	Key   string
	Value string
}

// Defaults returns the referral settings seeded at bootstrap, in seed order.
// Values are stored as strings; the referral service parses them on read.
func Defaults() []Default {
	return []Default{
		{Key: "default_reward_calls", Value: "5.00"},
		{Key: "allow_self_referral", Value: "false"},
		{Key: "max_user_codes", Value: "1"},
		{Key: "referral_code_length", Value: "8"},
	}
}

// Initializer upserts the default referral settings. Upserting makes the
// step idempotent: a rerun leaves existing defaults in place.
type Initializer struct {
	Store Store
	// Out receives per-key progress lines; nil discards them.
	Out io.Writer
}

// Summary reports what the initializer did.
type Summary struct {
	Created int
	Updated int
}

// Run seeds the defaults and returns the summary. Any store failure aborts
// the run immediately.
func (init *Initializer) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{}
	for _, def := range Defaults() {
		created, err := init.Store.UpsertReferralSetting(ctx, def.Key, def.Value, "Default "+def.Key)
		if err != nil {
			return summary, err
		}
		if created {
			summary.Created++
			init.printf("CREATED: %s = %s\n", def.Key, def.Value)
		} else {
			summary.Updated++
			init.printf("UPDATED: %s = %s\n", def.Key, def.Value)
		}
	}
	init.printf("Initialized %d referral settings\n", len(Defaults()))
	return summary, nil
}

func (init *Initializer) printf(format string, args ...any) {
	if init.Out != nil {
		fmt.Fprintf(init.Out, format, args...)
	}
}
