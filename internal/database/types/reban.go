package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

const (
	// RebanReasonMaxLength is the longest reason stored with a reban record.
	RebanReasonMaxLength = 512
	// MutationReasonMaxLength is the longest reason accepted for a ledger mutation.
	MutationReasonMaxLength = 1024
	// DefaultPageSize is the number of reban records shown per page.
	DefaultPageSize = 5
)

// RebanRecord is a ledger entry for one automatic reban.
// Records are never updated; corrections are made by deleting them.
type RebanRecord struct {
	ID        int64        `bun:",pk,autoincrement"`          // Ledger sequence
	GuildID   snowflake.ID `bun:",notnull"`                   // Guild the reban happened in
	TargetID  snowflake.ID `bun:",notnull"`                   // Account that was banned again
	ActorID   snowflake.ID `bun:",notnull"`                   // Account whose unban was reversed
	Reason    string       `bun:",notnull,type:varchar(512)"` // Reason sent with the ban
	CreatedAt time.Time    `bun:",notnull"`                   // Millisecond precision
}

// RebanPage is one page of a ledger search.
type RebanPage struct {
	Records    []*RebanRecord
	Page       int // 1-based page actually returned, 0 when there are no records
	TotalPages int
	Total      int
}

// MutationRequest carries the already-authorized context of a ledger mutation.
type MutationRequest struct {
	RequestedBy snowflake.ID
	Reason      string
}

// Validate ensures the request names a requester and a bounded reason.
func (r MutationRequest) Validate() error {
	if r.RequestedBy == 0 {
		return fmt.Errorf("%w: missing requester", ErrInvalidMutation)
	}

	reason := strings.TrimSpace(r.Reason)
	if reason == "" {
		return fmt.Errorf("%w: missing reason", ErrInvalidMutation)
	}

	if len([]rune(reason)) > MutationReasonMaxLength {
		return fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidMutation, MutationReasonMaxLength)
	}

	return nil
}

// TotalPages returns the number of pages needed for total records.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}

	return (total + pageSize - 1) / pageSize
}

// ClampPage limits page to the range of valid pages.
// Pages past the end resolve to the last page.
func ClampPage(page, totalPages int) int {
	if totalPages == 0 {
		return 0
	}

	return min(max(page, 1), totalPages)
}

// TruncateReason shortens a reason to maxLength runes.
func TruncateReason(reason string, maxLength int) string {
	runes := []rune(reason)
	if len(runes) <= maxLength {
		return reason
	}

	if maxLength <= 3 {
		return string(runes[:maxLength])
	}

	return string(runes[:maxLength-3]) + "..."
}
