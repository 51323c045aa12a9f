package commands

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	t.Parallel()

	id, err := parseID("123456789012345678")
	require.NoError(t, err)
	assert.Equal(t, snowflake.ID(123456789012345678), id)

	for _, value := range []string{"", "0", "-5", "abc"} {
		_, err := parseID(value)
		require.ErrorIs(t, err, ErrInvalidID, value)
	}
}
