package reban

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/unbanmanager/internal/database/types"
)

// NoticeKind identifies which notice is sent to a guild's logging channel.
type NoticeKind int

const (
	NoticeUnknownActor NoticeKind = iota
	NoticePassedReview
	NoticeEnforced
	NoticeEnforcementFailed
)

// String returns the notice kind name.
func (k NoticeKind) String() string {
	switch k {
	case NoticeUnknownActor:
		return "unknown_actor"
	case NoticePassedReview:
		return "passed_review"
	case NoticeEnforced:
		return "enforced"
	case NoticeEnforcementFailed:
		return "enforcement_failed"
	default:
		return "invalid"
	}
}

// Notice is a message about one reconciled unban.
type Notice struct {
	Kind      NoticeKind
	GuildID   snowflake.ID
	ChannelID snowflake.ID
	TargetID  snowflake.ID
	// Actor is nil for NoticeUnknownActor.
	Actor *Actor
	// Record is set for enforcement notices when the ledger write succeeded.
	Record *types.RebanRecord
}

// Notifier delivers notices. Delivery is best-effort.
type Notifier interface {
	Notify(ctx context.Context, notice Notice) error
}
