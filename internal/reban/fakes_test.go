package reban_test

import (
	"context"
	"errors"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/unbanmanager/internal/database/types"
	"github.com/robalyx/unbanmanager/internal/reban"
)

var errPlatform = errors.New("platform unavailable")

type fakeMembers struct {
	members map[snowflake.ID]*reban.Actor
	err     error
}

func (f *fakeMembers) GetMember(_ context.Context, _, userID snowflake.ID) (*reban.Actor, error) {
	if f.err != nil {
		return nil, f.err
	}

	member, ok := f.members[userID]
	if !ok {
		return nil, reban.ErrMemberNotFound
	}

	return member, nil
}

type banCall struct {
	GuildID snowflake.ID
	UserID  snowflake.ID
	Reason  string
}

// fakeBanner rejects a ban for a user that is already banned.
type fakeBanner struct {
	mu     sync.Mutex
	banned map[snowflake.ID]bool
	calls  []banCall
	err    error
}

func (f *fakeBanner) Ban(_ context.Context, guildID, userID snowflake.ID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, banCall{GuildID: guildID, UserID: userID, Reason: reason})

	if f.err != nil {
		return f.err
	}

	if f.banned == nil {
		f.banned = make(map[snowflake.ID]bool)
	}

	if f.banned[userID] {
		return errors.New("already banned")
	}

	f.banned[userID] = true

	return nil
}

type fakeLedger struct {
	mu      sync.Mutex
	records []*types.RebanRecord
	err     error
}

func (f *fakeLedger) Record(_ context.Context, record *types.RebanRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}

	record.ID = int64(len(f.records) + 1)
	f.records = append(f.records, record)

	return nil
}

func (f *fakeLedger) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.records)
}

type fakeConfigs struct {
	config *types.GuildConfig
	err    error
	calls  int
}

func (f *fakeConfigs) GetOrCreate(_ context.Context, guildID snowflake.ID) (*types.GuildConfig, error) {
	f.calls++

	if f.err != nil {
		return nil, f.err
	}

	if f.config == nil {
		f.config = types.NewGuildConfig(guildID)
	}

	return f.config, nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	notices []reban.Notice
	err     error
}

func (f *fakeNotifier) Notify(_ context.Context, notice reban.Notice) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.notices = append(f.notices, notice)

	return f.err
}
