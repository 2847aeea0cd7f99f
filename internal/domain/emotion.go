package domain

// Emotion is one of the fixed keys produced by the voice analysis service.
// The keys are the service's own (Spanish) labels and are treated as opaque
// identifiers on the wire.
type Emotion string

const (
	EmotionEnojo     Emotion = "enojo"
	EmotionFelicidad Emotion = "felicidad"
	EmotionMiedo     Emotion = "miedo"
	EmotionNeutral   Emotion = "neutral"
	EmotionSorpresa  Emotion = "sorpresa"
	EmotionTristeza  Emotion = "tristeza"
)

// Emotions lists the fixed emotion set in lexicographic order. Aggregation
// iterates this slice, so a dominant-emotion tie always resolves to the
// lexicographically smallest key.
var Emotions = []Emotion{
	EmotionEnojo,
	EmotionFelicidad,
	EmotionMiedo,
	EmotionNeutral,
	EmotionSorpresa,
	EmotionTristeza,
}
