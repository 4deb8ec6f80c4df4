// Package voteengine implements the Vote Engine module inside the live-show
// context.
//
// The module admits ballots against the live voting window, keeps the vote
// ledger with its one-ballot-per-voter-per-performance guarantee, and
// computes bias-adjusted rankings on demand. Window openness is derived by
// the lifecycle service's predicate; this package never re-implements it.
package voteengine
