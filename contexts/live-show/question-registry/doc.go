// Package questionregistry implements the Question Registry module inside
// the live-show context.
//
// The module owns the per-event catalog of voting questions: what is asked,
// of which audience, and in what order. Deleting a question cascades its
// votes through a port so the vote ledger never counts answers to prompts
// that no longer exist.
package questionregistry
