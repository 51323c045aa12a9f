// Package platform adapts the Discord REST API to the reban collaborators.
package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/unbanmanager/internal/bot/builder/notice"
	"github.com/robalyx/unbanmanager/internal/reban"
	"go.uber.org/zap"
)

// ErrUserNotFound is returned when a user lookup finds no account.
var ErrUserNotFound = errors.New("user not found")

// Platform performs the Discord calls made while reconciling unbans.
type Platform struct {
	rest   rest.Rest
	logger *zap.Logger
}

// New creates a platform adapter over a REST client.
func New(client rest.Rest, logger *zap.Logger) *Platform {
	return &Platform{
		rest:   client,
		logger: logger.Named("discord_platform"),
	}
}

// GetMember implements reban.MemberFetcher.
func (p *Platform) GetMember(ctx context.Context, guildID, userID snowflake.ID) (*reban.Actor, error) {
	member, err := p.rest.GetMember(guildID, userID, rest.WithCtx(ctx))
	if err != nil {
		if IsNotFound(err) {
			return nil, reban.ErrMemberNotFound
		}

		return nil, fmt.Errorf("failed to get member: %w (guildID=%d, userID=%d)", err, guildID, userID)
	}

	return &reban.Actor{
		ID:        member.User.ID,
		Username:  member.User.Username,
		AvatarURL: member.EffectiveAvatarURL(),
		RoleIDs:   member.RoleIDs,
	}, nil
}

// Ban implements reban.Banner.
func (p *Platform) Ban(ctx context.Context, guildID, userID snowflake.ID, reason string) error {
	if err := p.rest.AddBan(guildID, userID, 0, rest.WithCtx(ctx), rest.WithReason(reason)); err != nil {
		return fmt.Errorf("failed to ban user: %w (guildID=%d, userID=%d)", err, guildID, userID)
	}

	return nil
}

// Notify implements reban.Notifier.
func (p *Platform) Notify(ctx context.Context, n reban.Notice) error {
	return p.Send(ctx, n.ChannelID, notice.NewBuilder(n).Build().Build())
}

// Send posts a message to a channel.
func (p *Platform) Send(ctx context.Context, channelID snowflake.ID, message discord.MessageCreate) error {
	if _, err := p.rest.CreateMessage(channelID, message, rest.WithCtx(ctx)); err != nil {
		return fmt.Errorf("failed to send message: %w (channelID=%d)", err, channelID)
	}

	return nil
}

// LookupUser fetches any Discord account by ID.
func (p *Platform) LookupUser(ctx context.Context, userID snowflake.ID) (*discord.User, error) {
	user, err := p.rest.GetUser(userID, rest.WithCtx(ctx))
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrUserNotFound
		}

		return nil, fmt.Errorf("failed to get user: %w (userID=%d)", err, userID)
	}

	return user, nil
}

// IsNotFound reports whether a REST error is a 404 response.
func IsNotFound(err error) bool {
	var restErr *rest.Error
	if errors.As(err, &restErr) && restErr.Response != nil {
		return restErr.Response.StatusCode == http.StatusNotFound
	}

	return false
}
