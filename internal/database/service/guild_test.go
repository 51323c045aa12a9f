package service_test

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/unbanmanager/internal/database/dbtest"
	"github.com/robalyx/unbanmanager/internal/database/types"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuildManagerRoles(t *testing.T) {
	t.Parallel()

	guilds := dbtest.NewClient(t).Service().Guild()

	config, err := guilds.AddManagerRole(t.Context(), 1, 50)
	require.NoError(t, err)
	assert.True(t, config.ManagerRoles.Contains(50))

	_, err = guilds.AddManagerRole(t.Context(), 1, 50)
	require.ErrorIs(t, err, types.ErrRoleAlreadyManager)

	config, err = guilds.RemoveManagerRole(t.Context(), 1, 50)
	require.NoError(t, err)
	assert.False(t, config.ManagerRoles.Contains(50))

	_, err = guilds.RemoveManagerRole(t.Context(), 1, 50)
	require.ErrorIs(t, err, types.ErrRoleNotManager)
}

func TestGuildLogging(t *testing.T) {
	t.Parallel()

	guilds := dbtest.NewClient(t).Service().Guild()

	_, err := guilds.SetLoggingEnabled(t.Context(), 1, false)
	require.ErrorIs(t, err, types.ErrLoggingUnchanged)

	config, err := guilds.SetLoggingEnabled(t.Context(), 1, true)
	require.NoError(t, err)
	assert.True(t, config.LoggingEnabled)

	// Enabled without a channel still has no target
	_, ok := config.LoggingTarget()
	assert.False(t, ok)

	config, err = guilds.SetLoggingChannel(t.Context(), 1, 99)
	require.NoError(t, err)

	target, ok := config.LoggingTarget()
	require.True(t, ok)
	assert.Equal(t, snowflake.ID(99), target)

	_, err = guilds.SetLoggingChannel(t.Context(), 1, 99)
	require.ErrorIs(t, err, types.ErrChannelUnchanged)
}

func TestGuildGetOrCreateConcurrent(t *testing.T) {
	t.Parallel()

	guilds := dbtest.NewClient(t).Service().Guild()

	var wg conc.WaitGroup
	for range 8 {
		wg.Go(func() {
			config, err := guilds.GetOrCreate(t.Context(), 7)
			assert.NoError(t, err)
			assert.Equal(t, snowflake.ID(7), config.ID)
		})
	}
	wg.Wait()

	config, err := guilds.GetOrCreate(t.Context(), 7)
	require.NoError(t, err)
	assert.False(t, config.LoggingEnabled)
}

func TestGuildAddManagerRoleConcurrent(t *testing.T) {
	t.Parallel()

	guilds := dbtest.NewClient(t).Service().Guild()

	var wg conc.WaitGroup
	for i := range 6 {
		wg.Go(func() {
			_, err := guilds.AddManagerRole(t.Context(), 3, snowflake.ID(100+i))
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	config, err := guilds.GetOrCreate(t.Context(), 3)
	require.NoError(t, err)
	assert.Len(t, config.ManagerRoles.IDs(), 6)
}
