//go:build proofstrict

package proof

// With the proofstrict build tag, a checker violation panics immediately at
// the point of the offending AddDerived call, which is useful in tests and
// fuzzing where a stack trace pointing at the bad derivation is more
// valuable than a deferred Err() check. Production builds (the default)
// prefer to keep running and let the caller decide via Err().
func panicOnViolation(err error) {
	if err != nil {
		panic(err)
	}
}
