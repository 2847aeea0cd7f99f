package domain

// Wellbeing formula weights. Stress and anxiety pull the score down, average
// happiness pushes it up from the constant 100 baseline.
const (
	wellbeingStressWeight    = 0.3
	wellbeingAnxietyWeight   = 0.3
	wellbeingHappinessWeight = 0.4
)

type WellbeingBand string

const (
	WellbeingHigh   WellbeingBand = "alto"
	WellbeingNormal WellbeingBand = "normal"
	WellbeingLow    WellbeingBand = "bajo"
)

// GroupAggregate is the group-level statistical profile computed from all
// completed participants. It is never persisted and can be recomputed from
// the roster at any time.
type GroupAggregate struct {
	Averages     map[Emotion]float64
	AvgStress    float64
	AvgAnxiety   float64
	Dominant     Emotion
	Wellbeing    float64
	Band         WellbeingBand
	Participants int
	Advice       string
}

// ComputeAggregate averages the given individual results into a group
// profile. It is pure and deterministic: identical input yields identical
// output, so recomputing on every roster refresh is safe. Empty input yields
// nil rather than an aggregate full of NaN.
//
// Dominant is the emotion with the highest average; ties resolve to the
// lexicographically smallest emotion key.
func ComputeAggregate(results []AnalysisResult) *GroupAggregate {
	if len(results) == 0 {
		return nil
	}

	n := float64(len(results))
	averages := make(map[Emotion]float64, len(Emotions))
	for _, e := range Emotions {
		sum := 0.0
		for _, r := range results {
			sum += r.Level(e)
		}
		averages[e] = sum / n
	}

	var sumStress, sumAnxiety float64
	for _, r := range results {
		sumStress += r.Stress
		sumAnxiety += r.Anxiety
	}
	avgStress := sumStress / n
	avgAnxiety := sumAnxiety / n

	dominant := Emotions[0]
	for _, e := range Emotions[1:] {
		if averages[e] > averages[dominant] {
			dominant = e
		}
	}

	wellbeing := clamp(0, 100,
		100-avgStress*wellbeingStressWeight-avgAnxiety*wellbeingAnxietyWeight+averages[EmotionFelicidad]*wellbeingHappinessWeight)

	band := bandForIndicators(avgStress, avgAnxiety)

	return &GroupAggregate{
		Averages:     averages,
		AvgStress:    avgStress,
		AvgAnxiety:   avgAnxiety,
		Dominant:     dominant,
		Wellbeing:    wellbeing,
		Band:         band,
		Participants: len(results),
		Advice:       adviceForBand(band),
	}
}

// bandForIndicators classifies group activation the way the reporting
// backend does: the mean of average stress and anxiety, with low activation
// reading as high wellbeing.
func bandForIndicators(avgStress, avgAnxiety float64) WellbeingBand {
	indicators := (avgStress + avgAnxiety) / 2
	switch {
	case indicators < 40:
		return WellbeingHigh
	case indicators < 70:
		return WellbeingNormal
	default:
		return WellbeingLow
	}
}

func adviceForBand(band WellbeingBand) string {
	switch band {
	case WellbeingHigh:
		return "El grupo muestra un nivel de bienestar alto. Mantengan sus rutinas actuales."
	case WellbeingLow:
		return "El grupo muestra indicadores de estrés y ansiedad elevados. Consideren una actividad de relajación guiada."
	default:
		return "El grupo se encuentra dentro de un rango de bienestar normal."
	}
}

func clamp(lo, hi, v float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
