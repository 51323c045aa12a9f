package commands

import (
	"context"
	"errors"
	"sync"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

var errSendFailed = errors.New("send failed")

type fakeOptions struct {
	users    map[string]discord.User
	ints     map[string]int
	strings  map[string]string
	bools    map[string]bool
	roles    map[string]discord.Role
	channels map[string]discord.ResolvedChannel
}

func (o fakeOptions) OptUser(name string) (discord.User, bool) {
	v, ok := o.users[name]
	return v, ok
}

func (o fakeOptions) OptInt(name string) (int, bool) {
	v, ok := o.ints[name]
	return v, ok
}

func (o fakeOptions) OptString(name string) (string, bool) {
	v, ok := o.strings[name]
	return v, ok
}

func (o fakeOptions) OptBool(name string) (bool, bool) {
	v, ok := o.bools[name]
	return v, ok
}

func (o fakeOptions) OptRole(name string) (discord.Role, bool) {
	v, ok := o.roles[name]
	return v, ok
}

func (o fakeOptions) OptChannel(name string) (discord.ResolvedChannel, bool) {
	v, ok := o.channels[name]
	return v, ok
}

type fakeSender struct {
	mu   sync.Mutex
	err  error
	sent map[snowflake.ID][]discord.MessageCreate
}

func (s *fakeSender) Send(_ context.Context, channelID snowflake.ID, message discord.MessageCreate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}

	if s.sent == nil {
		s.sent = make(map[snowflake.ID][]discord.MessageCreate)
	}
	s.sent[channelID] = append(s.sent[channelID], message)

	return nil
}

type fakeUsers struct {
	users map[snowflake.ID]discord.User
}

func (u fakeUsers) LookupUser(_ context.Context, userID snowflake.ID) (*discord.User, error) {
	user, ok := u.users[userID]
	if !ok {
		return nil, errors.New("unknown user")
	}

	return &user, nil
}

type fakeCommand struct {
	name  string
	reply *discord.MessageUpdateBuilder
	err   error
	calls int
}

func (c *fakeCommand) Create() discord.SlashCommandCreate {
	return discord.SlashCommandCreate{Name: c.name, Description: c.name}
}

func (c *fakeCommand) Handle(context.Context, *Invocation) (*discord.MessageUpdateBuilder, error) {
	c.calls++
	return c.reply, c.err
}
