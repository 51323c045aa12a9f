package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMentions(t *testing.T) {
	assert.Equal(t, "<@123> (`123`)", UserMentionWithID(123))
	assert.Equal(t, "<#5> (`#general`)", ChannelMentionWithName(5, "general"))
	assert.Equal(t, "<#5>", ChannelMentionWithName(5, ""))
	assert.Equal(t, "<@&7> (`@Mods`)", RoleMentionWithName(7, "Mods"))
	assert.Equal(t, "<@&7>", RoleMentionWithName(7, ""))
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	assert.Equal(t, "<t:1700000000:f> (<t:1700000000:R>)", FormatTimestamp(ts))
}
