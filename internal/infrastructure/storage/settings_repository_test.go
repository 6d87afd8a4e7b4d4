package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calenchat/backend/internal/domain/calendar"
)

func TestSettingsRepositoryDefaults(t *testing.T) {
	repo := NewSettingsRepository(newTestDB(t))

	// 尚未保存过设置时返回默认值
	settings, err := repo.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, calendar.DefaultSettings(), settings)
}

func TestSettingsRepositoryRoundTrip(t *testing.T) {
	repo := NewSettingsRepository(newTestDB(t))
	ctx := context.Background()

	saved := &calendar.Settings{
		Timezone:             "Europe/Berlin",
		NotificationsEnabled: false,
		PreferredLanguage:    "de",
	}
	require.NoError(t, repo.SaveSettings(ctx, saved))

	got, err := repo.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, got)

	// 再次保存覆盖单行
	saved.NotificationsEnabled = true
	require.NoError(t, repo.SaveSettings(ctx, saved))

	got, err = repo.GetSettings(ctx)
	require.NoError(t, err)
	assert.True(t, got.NotificationsEnabled)
}
