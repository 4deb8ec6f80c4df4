// Package performancelifecycle implements the Performance Lifecycle module
// inside the live-show context.
//
// The module owns the stage state machine (start/end/reset) and the voting
// window controls (open/pause/adjust). Voting openness is never stored; it is
// derived from the persisted window timestamps at read time. Business rules
// live in the domain and application layers and infrastructure stays behind
// ports and adapters.
package performancelifecycle
