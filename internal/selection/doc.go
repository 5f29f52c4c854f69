// Package selection tracks which project and which scan the user is looking at.
//
// The machine has three phases:
//
//	NoProjectSelected -> ProjectSelected(p) -> ScanSelected(p, s)
//
// Transitions are pure functions over State. Selecting a scan returns a
// LoadRequest tagged with a generation number; the result of that load is
// only applied while the generation and scan id still match the state, so a
// slow response for an earlier selection can never overwrite a newer one.
//
// Session wraps the pure machine for interactive use: it runs loads in the
// background and applies their results under a lock.
//
// Design decision: a failed load leaves the detail empty and records the error
// in State.LoadErr. The previous detail always belongs to a different scan by
// the time a load is in flight, so keeping it would show the wrong report.
// Selecting the same scan again after a failure retries the load.
package selection
