package db

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// integrationDB connects using DATABASE_URL or skips the test. The target
// database must already have the bootstrap schema applied.
func integrationDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("Skipping integration test: DATABASE_URL not set")
	}

	conn, err := Connect(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(conn.Close)
	return conn
}

func TestPlatformSettingRoundTrip_Integration(t *testing.T) {
	conn := integrationDB(t)
	ctx := context.Background()

	key := fmt.Sprintf("it_setting_%d", time.Now().UnixNano())
	t.Cleanup(func() {
		_, _ = conn.pool.Exec(ctx, `DELETE FROM platform_settings WHERE key = $1`, key)
	})

	missing, err := conn.GetPlatformSetting(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, missing)

	value := "12.50"
	setting := &PlatformSetting{
		Key:          key,
		DisplayName:  "Integration Setting",
		Description:  "created by db integration test",
		Category:     CategoryAutomation,
		SettingType:  TypeDecimal,
		DecimalValue: &value,
		IsActive:     true,
	}
	require.NoError(t, conn.CreatePlatformSetting(ctx, setting))

	got, err := conn.GetPlatformSetting(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Integration Setting", got.DisplayName)
	require.NotNil(t, got.DecimalValue)
	assert.Equal(t, "12.50", *got.DecimalValue)
	assert.Equal(t, "12.50", got.Value())

	updated := "99.00"
	got.DecimalValue = &updated
	require.NoError(t, conn.UpdatePlatformSetting(ctx, got))

	after, err := conn.GetPlatformSetting(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, after.DecimalValue)
	assert.Equal(t, "99.00", *after.DecimalValue)
}

func TestReferralSettingUpsert_Integration(t *testing.T) {
	conn := integrationDB(t)
	ctx := context.Background()

	key := fmt.Sprintf("it_referral_%d", time.Now().UnixNano())
	t.Cleanup(func() {
		_, _ = conn.pool.Exec(ctx, `DELETE FROM referral_settings WHERE key = $1`, key)
	})

	created, err := conn.UpsertReferralSetting(ctx, key, "5.00", "Default "+key)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = conn.UpsertReferralSetting(ctx, key, "7.00", "Default "+key)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := conn.GetReferralSetting(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "7.00", got.Value)
}

func TestBootstrapRunLedger_Integration(t *testing.T) {
	conn := integrationDB(t)
	ctx := context.Background()

	runID, err := conn.CreateBootstrapRun(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = conn.pool.Exec(ctx, `DELETE FROM bootstrap_runs WHERE id = $1`, runID)
	})

	require.NoError(t, conn.RecordBootstrapStep(ctx, runID, "install", "succeeded", "", 1200))
	require.NoError(t, conn.RecordBootstrapStep(ctx, runID, "migrate", "failed", "pending conflicting migration", 300))
	// Re-recording the same step updates in place.
	require.NoError(t, conn.RecordBootstrapStep(ctx, runID, "migrate", "succeeded", "", 450))

	require.NoError(t, conn.CompleteBootstrapRun(ctx, runID, "completed"))

	var status string
	var completedAt *time.Time
	err = conn.pool.QueryRow(ctx,
		`SELECT status, completed_at FROM bootstrap_runs WHERE id = $1`, runID,
	).Scan(&status, &completedAt)
	require.NoError(t, err)
	assert.Equal(t, "completed", status)
	assert.NotNil(t, completedAt)
}
