// Package reban reconciles ban removals recorded in a guild's audit log.
//
// Each removal is attributed to an actor. Actors holding a manager role pass
// review, actors that cannot be resolved are flagged for manual review, and
// everyone else has the unban reversed with the reversal recorded in the ledger.
package reban
