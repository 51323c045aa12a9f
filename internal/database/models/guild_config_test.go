package models_test

import (
	"sync"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/unbanmanager/internal/database/dbtest"
	"github.com/robalyx/unbanmanager/internal/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuildConfigGetOrCreate(t *testing.T) {
	t.Parallel()

	client := dbtest.NewClient(t)
	model := client.Model().GuildConfig()

	config, err := model.GetOrCreate(t.Context(), 100)
	require.NoError(t, err)
	assert.Equal(t, snowflake.ID(100), config.ID)
	assert.Empty(t, config.ManagerRoles.IDs())
	assert.False(t, config.LoggingEnabled)
	assert.Zero(t, config.LoggingChannelID)

	_, ok := config.LoggingTarget()
	assert.False(t, ok)
}

func TestGuildConfigGetOrCreateConcurrent(t *testing.T) {
	t.Parallel()

	client := dbtest.NewClient(t)
	model := client.Model().GuildConfig()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := model.GetOrCreate(t.Context(), 200)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := client.DB().NewSelect().
		Model((*types.GuildConfig)(nil)).
		Where("id = ?", snowflake.ID(200)).
		Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGuildConfigModify(t *testing.T) {
	t.Parallel()

	client := dbtest.NewClient(t)
	model := client.Model().GuildConfig()

	config, err := model.Modify(t.Context(), 300, func(config *types.GuildConfig) error {
		config.ManagerRoles.Add(11)
		config.ManagerRoles.Add(22)
		return nil
	}, "manager_roles")
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{11, 22}, config.ManagerRoles.IDs())

	_, err = model.Modify(t.Context(), 300, func(config *types.GuildConfig) error {
		config.LoggingEnabled = true
		config.LoggingChannelID = 77
		return nil
	}, "logging_enabled", "logging_channel_id")
	require.NoError(t, err)

	reloaded, err := model.GetOrCreate(t.Context(), 300)
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{11, 22}, reloaded.ManagerRoles.IDs())

	target, ok := reloaded.LoggingTarget()
	require.True(t, ok)
	assert.Equal(t, snowflake.ID(77), target)

	// The channel is stored as a plain integer
	var stored int64
	require.NoError(t, client.DB().NewSelect().
		Model((*types.GuildConfig)(nil)).
		Column("logging_channel_id").
		Where("id = ?", snowflake.ID(300)).
		Scan(t.Context(), &stored))
	assert.Equal(t, int64(77), stored)
}

func TestGuildConfigModifyAbort(t *testing.T) {
	t.Parallel()

	client := dbtest.NewClient(t)
	model := client.Model().GuildConfig()

	config, err := model.Modify(t.Context(), 400, func(config *types.GuildConfig) error {
		config.LoggingEnabled = true
		return types.ErrLoggingUnchanged
	}, "logging_enabled")
	require.ErrorIs(t, err, types.ErrLoggingUnchanged)
	assert.NotErrorIs(t, err, types.ErrStoreUnavailable)
	require.NotNil(t, config)

	reloaded, err := model.GetOrCreate(t.Context(), 400)
	require.NoError(t, err)
	assert.False(t, reloaded.LoggingEnabled)
}

func TestGuildConfigModifyConcurrent(t *testing.T) {
	t.Parallel()

	client := dbtest.NewClient(t)
	model := client.Model().GuildConfig()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := model.Modify(t.Context(), 500, func(config *types.GuildConfig) error {
				config.ManagerRoles.Add(snowflake.ID(1000 + i))
				return nil
			}, "manager_roles")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	config, err := model.GetOrCreate(t.Context(), 500)
	require.NoError(t, err)
	assert.Len(t, config.ManagerRoles.IDs(), 8)
}
