package reconcile

const (
	DefaultRenewalFloor  = 85
	DefaultIncompleteCap = 60
)

// Scorer computes the final 0..100 confidence of an order.
type Scorer struct {
	renewalFloor  int
	incompleteCap int
}

// NewScorer constructs Scorer. Thresholds are clamped to [0,100].
func NewScorer(renewalFloor, incompleteCap int) *Scorer {
	return &Scorer{
		renewalFloor:  clamp(renewalFloor, 0, 100),
		incompleteCap: clamp(incompleteCap, 0, 100),
	}
}

// Score starts from the oracle value. Applied history raises it to the
// renewal floor and never lowers it; otherwise a record missing product or
// quantity is capped.
func (s *Scorer) Score(oracle int, historyApplied, complete bool) int {
	score := clamp(oracle, 0, 100)
	switch {
	case historyApplied:
		if score < s.renewalFloor {
			score = s.renewalFloor
		}
	case !complete:
		if score > s.incompleteCap {
			score = s.incompleteCap
		}
	}
	return score
}
