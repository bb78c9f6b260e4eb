package agents

import "math"

type PerformanceMetrics struct {
	Accuracy             float64 `json:"accuracy"`
	Completeness         float64 `json:"completeness"`
	CommunicationClarity float64 `json:"communication_clarity"`
	OverallScore         float64 `json:"overall_score"`
}

// CalculatePerformanceMetrics derives the summary metrics from the score
// history. Communication clarity is a proxy driven by the score trend.
func CalculatePerformanceMetrics(history []float64) PerformanceMetrics {
	if len(history) == 0 {
		return PerformanceMetrics{}
	}

	accuracy := mean(history)

	recent := history
	if len(history) > 3 {
		recent = history[len(history)-3:]
	}
	completeness := mean(recent)

	clarity := 0.7
	if len(history) >= 2 {
		trend := history[len(history)-1] - history[0]
		clarity = 0.5 + math.Min(trend, 0.3)
	}

	overall := accuracy*0.5 + completeness*0.3 + clarity*0.2

	return PerformanceMetrics{
		Accuracy:             round2(accuracy),
		Completeness:         round2(completeness),
		CommunicationClarity: round2(clarity),
		OverallScore:         round2(overall),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
