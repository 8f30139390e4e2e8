package plan

// RetrySibling is the input to retryArithmetic for one sibling of a
// split: its raw (single-attempt) edge probability, its reverse-edge
// probability, and whether its retry outcomes are statistically
// independent of the other siblings'.
type RetrySibling struct {
	Raw         float64
	Reverse     float64
	Independent bool
}

// clampSlack clamps values in [1.0, 1.001] down to 1.0 (returning true to
// signal a warning was warranted) and reports an InvariantViolation for
// anything outside [0, 1.001].
func clampSlack(where string, p float64) (float64, bool, error) {
	if p >= 0 && p <= 1.0 {
		return p, false, nil
	}
	if p > 1.0 && p <= 1.001 {
		return 1.0, true, nil
	}
	return p, false, newInvariantViolation(where, "probability %.6f outside [0, 1.001] slack window", p)
}

// retryArithmetic takes K retry attempts and a set of sibling children
// from one parent and computes each child's effective edge probability --
// the probability a retry schedule eventually takes that specific child.
//
// Per sibling i, activeK(i) tracks the probability mass still retrying
// toward i after k rounds: mass that lands on an independent sibling j
// and successfully reverses is fed back into i's own pool (since from i's
// perspective, j is "some other branch" and a successful reverse means
// another attempt is still available); mass that lands on i itself, or on
// a dependent sibling, or fails to reverse, is not reactivated.
func retryArithmetic(siblings []RetrySibling, k int) ([]float64, []bool, error) {
	n := len(siblings)
	reached := make([]float64, n)
	active := make([]float64, n)
	for i := range active {
		active[i] = 1.0
	}

	for round := 0; round < k; round++ {
		for i, s := range siblings {
			reached[i] += active[i] * s.Raw
		}
		next := make([]float64, n)
		for i := range siblings {
			var sum float64
			for j, sj := range siblings {
				if j == i || !sj.Independent {
					continue
				}
				sum += active[i] * sj.Raw * sj.Reverse
			}
			next[i] = sum
		}
		active = next
	}

	warned := make([]bool, n)
	for i, r := range reached {
		clamped, warn, err := clampSlack("retryArithmetic", r)
		if err != nil {
			return nil, nil, err
		}
		reached[i] = clamped
		warned[i] = warn
	}
	return reached, warned, nil
}
