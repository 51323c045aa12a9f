package types

import (
	"database/sql/driver"
	"fmt"
	"slices"

	"github.com/bytedance/sonic"
	"github.com/disgoorg/snowflake/v2"
)

// RoleSet is a set of role IDs. It is stored as a JSON array of IDs.
type RoleSet map[snowflake.ID]struct{}

// NewRoleSet creates a role set containing the given IDs.
func NewRoleSet(ids ...snowflake.ID) RoleSet {
	s := make(RoleSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}

	return s
}

// Contains reports whether the role is in the set.
func (s RoleSet) Contains(id snowflake.ID) bool {
	_, ok := s[id]
	return ok
}

// ContainsAny reports whether at least one of the given roles is in the set.
// An empty set never matches.
func (s RoleSet) ContainsAny(ids []snowflake.ID) bool {
	for _, id := range ids {
		if s.Contains(id) {
			return true
		}
	}

	return false
}

// Add inserts the role and reports whether the set changed.
func (s RoleSet) Add(id snowflake.ID) bool {
	if s.Contains(id) {
		return false
	}

	s[id] = struct{}{}

	return true
}

// Remove deletes the role and reports whether the set changed.
func (s RoleSet) Remove(id snowflake.ID) bool {
	if !s.Contains(id) {
		return false
	}

	delete(s, id)

	return true
}

// IDs returns the roles in ascending order.
func (s RoleSet) IDs() []snowflake.ID {
	ids := make([]snowflake.ID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}

// Value implements driver.Valuer.
func (s RoleSet) Value() (driver.Value, error) {
	data, err := sonic.Marshal(s.IDs())
	if err != nil {
		return nil, fmt.Errorf("failed to encode role set: %w", err)
	}

	return string(data), nil
}

// Scan implements sql.Scanner.
func (s *RoleSet) Scan(src any) error {
	var data []byte

	switch v := src.(type) {
	case nil:
		*s = RoleSet{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported role set source type %T", src)
	}

	var ids []snowflake.ID
	if len(data) > 0 {
		if err := sonic.Unmarshal(data, &ids); err != nil {
			return fmt.Errorf("failed to decode role set: %w", err)
		}
	}

	*s = NewRoleSet(ids...)

	return nil
}
