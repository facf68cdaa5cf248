package wizard

// Stage is one step of the fixed authoring sequence. Stages are strictly
// ordered for forward navigation and freely revisitable backward; the
// current stage lives only in the controller, never in the session record.
type Stage string

const (
	StageIntention  Stage = "intention"
	StageReflection Stage = "reflection"
	StageExpression Stage = "expression"
	StageAudio      Stage = "audio"
)

var stageOrder = []Stage{StageIntention, StageReflection, StageExpression, StageAudio}

func stageIndex(s Stage) int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// Previous returns the stage before s; the first stage returns itself.
func (s Stage) Previous() Stage {
	idx := stageIndex(s)
	if idx <= 0 {
		return s
	}
	return stageOrder[idx-1]
}

// Before reports whether s comes before other in the wizard order.
func (s Stage) Before(other Stage) bool {
	return stageIndex(s) < stageIndex(other)
}
