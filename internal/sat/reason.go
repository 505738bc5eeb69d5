package sat

// decisionReason is the process-wide sentinel used as the pseudo-reason of
// a decision literal. Its address, never its contents, is what matters: it
// lets assignment code distinguish "this is a decision" from "this is a
// root unit" (reason == nil) and from "this is a propagation" (reason ==
// some other *Clause), without a separate tagged union.
var decisionReason = &Clause{}

// IsDecision reports whether reason marks a decision literal.
func IsDecision(reason *Clause) bool {
	return reason == decisionReason
}

// IsRootUnit reports whether reason marks a root-level unit (no reason
// clause at all).
func IsRootUnit(reason *Clause) bool {
	return reason == nil
}
