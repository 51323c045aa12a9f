package commands

import "github.com/disgoorg/snowflake/v2"

// Owners is the set of accounts allowed to run privileged subcommands.
type Owners map[snowflake.ID]struct{}

// NewOwners creates an owner set.
func NewOwners(ids ...snowflake.ID) Owners {
	owners := make(Owners, len(ids))
	for _, id := range ids {
		owners[id] = struct{}{}
	}

	return owners
}

// Contains reports whether the account is an owner.
func (o Owners) Contains(id snowflake.ID) bool {
	_, ok := o[id]
	return ok
}
