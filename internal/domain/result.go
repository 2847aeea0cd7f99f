package domain

type AudioID string
type AnalysisID string
type ResultID string

// AnalysisResult holds the levels produced by analyzing one recording.
// All levels are percentages in [0, 100]. Absent emotion keys read as 0.
type AnalysisResult struct {
	Levels   map[Emotion]float64
	Stress   float64
	Anxiety  float64
	Dominant Emotion
}

func (r AnalysisResult) Level(e Emotion) float64 {
	if r.Levels == nil {
		return 0
	}
	return r.Levels[e]
}

// ResultRefs ties an uploaded clip to its analysis rows on the server. All
// three references come back from the analyze call and are echoed verbatim
// when registering completion.
type ResultRefs struct {
	AudioID    AudioID
	AnalysisID AnalysisID
	ResultID   ResultID
}

func (r ResultRefs) Complete() bool {
	return r.AudioID != "" && r.AnalysisID != "" && r.ResultID != ""
}
