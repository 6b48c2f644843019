package evaluator

// Budget holds the resource limits for a program execution.
// A nil field means the limit is not enforced.
type Budget struct {
	TimeMs        *int64
	MaxIterations *int64
}

// BudgetTracker tracks resource consumption during execution.
type BudgetTracker struct {
	Iterations int64
}
