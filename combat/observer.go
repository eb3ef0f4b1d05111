package combat

// Observer receives engine events for instrumentation. Calls happen on the
// tick goroutine and must not block.
type Observer interface {
	PhaseTransition(from, to Phase)
	EngagementFlip(main, engaging bool)
	OracleResult(r EngagementResult)
	OracleError()
	TrackedSquads(n int)
}

type nopObserver struct{}

func (nopObserver) PhaseTransition(Phase, Phase)  {}
func (nopObserver) EngagementFlip(bool, bool)     {}
func (nopObserver) OracleResult(EngagementResult) {}
func (nopObserver) OracleError()                  {}
func (nopObserver) TrackedSquads(int)             {}
