package practice

import (
	"time"

	prac "github.com/luoyeETH/gogov/internal/practice"
)

// batchLoadedMsg delivers the outcome of the question-batch fetch. The
// token ties it to the StartSession call that requested it.
type batchLoadedMsg struct {
	Token     int
	Questions []prac.Question
	Err       error
}

// timerTickMsg is sent every second to refresh the elapsed clock.
type timerTickMsg time.Time

// autoAdvanceMsg fires the delayed advance armed by a correct drill
// answer. Stale tokens are discarded by the engine.
type autoAdvanceMsg struct {
	Token int
}
