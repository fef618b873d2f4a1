package scoring

const (
	PointsExact   = 5
	PointsOutcome = 2
	PointsMiss    = 0
)

// Outcome is the result category of a score line.
type Outcome string

const (
	OutcomeHome Outcome = "H"
	OutcomeAway Outcome = "A"
	OutcomeDraw Outcome = "D"
)

// ScoreLine is a home/away pair. A nil field means the value is unknown.
type ScoreLine struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

func Line(home, away int) ScoreLine {
	return ScoreLine{Home: &home, Away: &away}
}

// Complete reports whether both sides are present and non-negative.
func (s ScoreLine) Complete() bool {
	return s.Home != nil && s.Away != nil && *s.Home >= 0 && *s.Away >= 0
}

// Outcome returns the category of the line. An incomplete line reads as a
// draw.
func (s ScoreLine) Outcome() Outcome {
	switch {
	case !s.Complete():
		return OutcomeDraw
	case *s.Home > *s.Away:
		return OutcomeHome
	case *s.Away > *s.Home:
		return OutcomeAway
	default:
		return OutcomeDraw
	}
}

// Score awards points for one prediction against one result. Absent or
// incomplete inputs score zero rather than failing.
func Score(prediction, result *ScoreLine) int {
	if prediction == nil || result == nil {
		return PointsMiss
	}
	if !prediction.Complete() || !result.Complete() {
		return PointsMiss
	}

	if *prediction.Home == *result.Home && *prediction.Away == *result.Away {
		return PointsExact
	}
	if prediction.Outcome() == result.Outcome() {
		return PointsOutcome
	}
	return PointsMiss
}
