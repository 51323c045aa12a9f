package reban

import (
	"context"
	"errors"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/unbanmanager/internal/database/types"
	"go.uber.org/zap"
)

// ErrMemberNotFound is returned by a MemberFetcher when the account is not a guild member.
var ErrMemberNotFound = errors.New("member not found")

// Classification is the authorization verdict for the actor behind an unban.
type Classification int

const (
	// UnknownActor means the actor could not be resolved to a current member.
	UnknownActor Classification = iota
	// Authorized means the actor holds at least one manager role.
	Authorized
	// Unauthorized means the actor is a member without any manager role.
	Unauthorized
)

// String returns the classification name.
func (c Classification) String() string {
	switch c {
	case UnknownActor:
		return "unknown_actor"
	case Authorized:
		return "authorized"
	case Unauthorized:
		return "unauthorized"
	default:
		return "invalid"
	}
}

// Actor is a resolved guild member credited with an unban.
type Actor struct {
	ID        snowflake.ID
	Username  string
	AvatarURL string
	RoleIDs   []snowflake.ID
}

// MemberFetcher looks up current guild members.
type MemberFetcher interface {
	// GetMember returns ErrMemberNotFound when the account is not a member.
	GetMember(ctx context.Context, guildID, userID snowflake.ID) (*Actor, error)
}

// Classify checks an actor's roles against the manager roles.
// A nil actor is unknown. An empty manager role set trusts nobody.
func Classify(actor *Actor, managerRoles types.RoleSet) Classification {
	if actor == nil {
		return UnknownActor
	}

	if managerRoles.ContainsAny(actor.RoleIDs) {
		return Authorized
	}

	return Unauthorized
}

// Resolver classifies the actors behind unbans.
type Resolver struct {
	members MemberFetcher
	logger  *zap.Logger
}

// NewResolver creates a resolver backed by the given member lookup.
func NewResolver(members MemberFetcher, logger *zap.Logger) *Resolver {
	return &Resolver{
		members: members,
		logger:  logger.Named("reban_resolver"),
	}
}

// Resolve fetches the actor and classifies them.
// Any lookup failure classifies the actor as unknown so the unban is left for manual review.
func (r *Resolver) Resolve(
	ctx context.Context, guildID, actorID snowflake.ID, managerRoles types.RoleSet,
) (Classification, *Actor) {
	actor, err := r.members.GetMember(ctx, guildID, actorID)
	if err != nil {
		if !errors.Is(err, ErrMemberNotFound) {
			r.logger.Warn("Failed to fetch unban actor",
				zap.Uint64("guildID", uint64(guildID)),
				zap.Uint64("actorID", uint64(actorID)),
				zap.Error(err))
		}

		return UnknownActor, nil
	}

	return Classify(actor, managerRoles), actor
}
