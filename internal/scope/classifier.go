package scope

// Classification is the result of scoring evidence for a file.
type Classification struct {
	Style           Style
	Score           int
	TotalScore      int
	Confidence      float64
	RunnerUp        Style
	RunnerUpScore   int
	ObservedSignals int
}

// Classifier scores evidence and reports the dominant style.
// It never overrides the per-construct decision; it only summarizes it.
type Classifier struct{}

func (Classifier) Classify(e *Evidence) Classification {
	if e == nil || len(e.hints) == 0 {
		return Classification{Style: Mixed}
	}

	var scores [styleCount]int
	total := 0
	observed := 0
	for _, h := range e.hints {
		observed++
		if h.Score <= 0 || h.Style >= styleCount {
			continue
		}
		scores[h.Style] += h.Score
		total += h.Score
	}

	best, bestScore := Mixed, 0
	runner, runnerScore := Mixed, 0
	for s := Braces; s < styleCount; s++ {
		score := scores[s]
		if score > bestScore {
			runner, runnerScore = best, bestScore
			best, bestScore = s, score
			continue
		}
		if score > runnerScore {
			runner, runnerScore = s, score
		}
	}

	conf := 0.0
	if total > 0 {
		conf = float64(bestScore) / float64(total)
	}

	return Classification{
		Style:           best,
		Score:           bestScore,
		TotalScore:      total,
		Confidence:      conf,
		RunnerUp:        runner,
		RunnerUpScore:   runnerScore,
		ObservedSignals: observed,
	}
}
