package referral

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	values map[string]string
	fail   error
}

func (f *fakeStore) UpsertReferralSetting(_ context.Context, key, value, _ string) (bool, error) {
	if f.fail != nil {
		return false, f.fail
	}
	if f.values == nil {
		f.values = make(map[string]string)
	}
	_, existed := f.values[key]
	f.values[key] = value
	return !existed, nil
}

func TestRunSeedsDefaults(t *testing.T) {
	store := &fakeStore{}
	var out strings.Builder
	init := &Initializer{Store: store, Out: &out}

	summary, err := init.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &Summary{Created: 4}, summary)
	assert.Equal(t, map[string]string{
		"default_reward_calls": "5.00",
		"allow_self_referral":  "false",
		"max_user_codes":       "1",
		"referral_code_length": "8",
	}, store.values)
	assert.Contains(t, out.String(), "Initialized 4 referral settings")
}

func TestRunIsIdempotent(t *testing.T) {
	store := &fakeStore{}
	init := &Initializer{Store: store}

	_, err := init.Run(context.Background())
	require.NoError(t, err)

	summary, err := init.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &Summary{Updated: 4}, summary)
	assert.Len(t, store.values, 4)
}

func TestRunAbortsOnStoreError(t *testing.T) {
	store := &fakeStore{fail: errors.New("unreachable database")}
	init := &Initializer{Store: store}

	summary, err := init.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, store.fail)
	assert.Equal(t, &Summary{}, summary)
}
