package types

import "errors"

var (
	// ErrStoreUnavailable indicates that the persistence layer could not serve the request.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrRebanNotFound indicates that no reban record matches the requested id.
	ErrRebanNotFound = errors.New("no record with that id")
	// ErrInvalidMutation indicates that a ledger mutation was requested without a valid request.
	ErrInvalidMutation = errors.New("invalid ledger mutation request")
	// ErrRoleAlreadyManager indicates that the role is already in the manager role set.
	ErrRoleAlreadyManager = errors.New("role is already a manager role")
	// ErrRoleNotManager indicates that the role is not in the manager role set.
	ErrRoleNotManager = errors.New("role is not a manager role")
	// ErrLoggingUnchanged indicates that logging is already in the requested state.
	ErrLoggingUnchanged = errors.New("logging is already in the requested state")
	// ErrChannelUnchanged indicates that the channel is already the logging channel.
	ErrChannelUnchanged = errors.New("channel is already the logging channel")
)
