package utils

import (
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// UserMentionWithID formats a user mention followed by the raw ID.
func UserMentionWithID(id snowflake.ID) string {
	return fmt.Sprintf("<@%d> (`%d`)", id, id)
}

// ChannelMentionWithName formats a channel mention followed by its name.
func ChannelMentionWithName(id snowflake.ID, name string) string {
	if name == "" {
		return fmt.Sprintf("<#%d>", id)
	}

	return fmt.Sprintf("<#%d> (`#%s`)", id, NormalizeString(name))
}

// RoleMentionWithName formats a role mention followed by its name.
func RoleMentionWithName(id snowflake.ID, name string) string {
	if name == "" {
		return fmt.Sprintf("<@&%d>", id)
	}

	return fmt.Sprintf("<@&%d> (`@%s`)", id, NormalizeString(name))
}

// FormatTimestamp formats a time as a Discord timestamp with date and relative time.
func FormatTimestamp(t time.Time) string {
	return fmt.Sprintf("<t:%d:f> (<t:%d:R>)", t.Unix(), t.Unix())
}
