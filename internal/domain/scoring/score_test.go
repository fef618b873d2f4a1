package scoring

import "testing"

func intPtr(v int) *int { return &v }

func TestScore(t *testing.T) {
	tests := []struct {
		name       string
		prediction *ScoreLine
		result     *ScoreLine
		want       int
	}{
		{name: "exact score", prediction: ptr(Line(2, 1)), result: ptr(Line(2, 1)), want: 5},
		{name: "both home wins", prediction: ptr(Line(2, 1)), result: ptr(Line(1, 0)), want: 2},
		{name: "both away wins", prediction: ptr(Line(0, 3)), result: ptr(Line(1, 2)), want: 2},
		{name: "both draws", prediction: ptr(Line(1, 1)), result: ptr(Line(0, 0)), want: 2},
		{name: "draw predicted home win played", prediction: ptr(Line(1, 1)), result: ptr(Line(2, 0)), want: 0},
		{name: "home predicted away win played", prediction: ptr(Line(3, 0)), result: ptr(Line(0, 1)), want: 0},
		{name: "nil prediction", prediction: nil, result: ptr(Line(1, 0)), want: 0},
		{name: "nil result", prediction: ptr(Line(1, 0)), result: nil, want: 0},
		{name: "missing away in prediction", prediction: &ScoreLine{Home: intPtr(1)}, result: ptr(Line(1, 0)), want: 0},
		{name: "missing home in result", prediction: ptr(Line(1, 0)), result: &ScoreLine{Away: intPtr(0)}, want: 0},
		{name: "negative prediction", prediction: ptr(Line(-1, 0)), result: ptr(Line(-1, 0)), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.prediction, tt.result); got != tt.want {
				t.Fatalf("Score()=%d want=%d", got, tt.want)
			}
		})
	}
}

func TestScore_Properties(t *testing.T) {
	for ph := 0; ph <= 4; ph++ {
		for pa := 0; pa <= 4; pa++ {
			for rh := 0; rh <= 4; rh++ {
				for ra := 0; ra <= 4; ra++ {
					p, r := Line(ph, pa), Line(rh, ra)
					got := Score(&p, &r)

					if got != PointsExact && got != PointsOutcome && got != PointsMiss {
						t.Fatalf("Score(%d-%d, %d-%d)=%d outside {0,2,5}", ph, pa, rh, ra, got)
					}
					exact := ph == rh && pa == ra
					if (got == PointsExact) != exact {
						t.Fatalf("Score(%d-%d, %d-%d)=%d, exact=%v", ph, pa, rh, ra, got, exact)
					}
					if again := Score(&p, &r); again != got {
						t.Fatalf("Score not deterministic: %d then %d", got, again)
					}
				}
			}
		}
	}
}

func TestScoreLine_Outcome(t *testing.T) {
	if got := Line(2, 0).Outcome(); got != OutcomeHome {
		t.Fatalf("expected H, got %s", got)
	}
	if got := Line(0, 2).Outcome(); got != OutcomeAway {
		t.Fatalf("expected A, got %s", got)
	}
	if got := Line(2, 2).Outcome(); got != OutcomeDraw {
		t.Fatalf("expected D, got %s", got)
	}
	for _, incomplete := range []ScoreLine{{}, {Home: intPtr(3)}, {Away: intPtr(1)}, Line(-1, 0)} {
		if got := incomplete.Outcome(); got != OutcomeDraw {
			t.Fatalf("expected incomplete line %+v to read as D, got %s", incomplete, got)
		}
	}
}

func ptr(s ScoreLine) *ScoreLine { return &s }
