package api

import (
	"strconv"

	"github.com/Johnmc130/SerenVoice/internal/domain"
)

// The backend speaks Spanish field names and numeric row ids; everything is
// translated to domain types at this boundary and nowhere else.

type activitySchema struct {
	ID                     int64  `json:"id"`
	Titulo                 string `json:"titulo"`
	Descripcion            string `json:"descripcion"`
	Estado                 string `json:"estado"`
	TotalParticipantes     int    `json:"total_participantes"`
	ParticipantesCompletos int    `json:"participantes_completados"`
}

func (s activitySchema) toDomain() domain.Activity {
	return domain.Activity{
		ID:                    domain.ActivityID(strconv.FormatInt(s.ID, 10)),
		Title:                 s.Titulo,
		Description:           s.Descripcion,
		State:                 domain.ActivityState(s.Estado),
		TotalParticipants:     s.TotalParticipantes,
		CompletedParticipants: s.ParticipantesCompletos,
	}
}

type participationSchema struct {
	ID        int64         `json:"id"`
	UsuarioID int64         `json:"usuario_id"`
	Nombre    string        `json:"nombre_usuario"`
	Estado    string        `json:"estado"`
	Resultado *resultSchema `json:"resultado,omitempty"`
}

func (s participationSchema) toDomain() domain.Participant {
	p := domain.Participant{
		UserID:          domain.UserID(strconv.FormatInt(s.UsuarioID, 10)),
		Name:            s.Nombre,
		State:           domain.ParticipantState(s.Estado),
		ParticipationID: domain.ParticipationID(strconv.FormatInt(s.ID, 10)),
	}
	if s.Resultado != nil {
		result := s.Resultado.toDomain()
		p.Result = &result
	}
	return p
}

type resultSchema struct {
	NivelFelicidad   float64 `json:"nivel_felicidad"`
	NivelTristeza    float64 `json:"nivel_tristeza"`
	NivelEnojo       float64 `json:"nivel_enojo"`
	NivelMiedo       float64 `json:"nivel_miedo"`
	NivelSorpresa    float64 `json:"nivel_sorpresa"`
	NivelNeutral     float64 `json:"nivel_neutral"`
	NivelEstres      float64 `json:"nivel_estres"`
	NivelAnsiedad    float64 `json:"nivel_ansiedad"`
	EmocionDominante string  `json:"emocion_dominante"`
}

func (s resultSchema) toDomain() domain.AnalysisResult {
	return domain.AnalysisResult{
		Levels: map[domain.Emotion]float64{
			domain.EmotionFelicidad: s.NivelFelicidad,
			domain.EmotionTristeza:  s.NivelTristeza,
			domain.EmotionEnojo:     s.NivelEnojo,
			domain.EmotionMiedo:     s.NivelMiedo,
			domain.EmotionSorpresa:  s.NivelSorpresa,
			domain.EmotionNeutral:   s.NivelNeutral,
		},
		Stress:   s.NivelEstres,
		Anxiety:  s.NivelAnsiedad,
		Dominant: domain.Emotion(s.EmocionDominante),
	}
}

type analyzeResponseSchema struct {
	AudioID     int64        `json:"audio_id"`
	AnalisisID  int64        `json:"analisis_id"`
	ResultadoID int64        `json:"resultado_id"`
	Resultado   resultSchema `json:"resultado"`
}

type joinResponseSchema struct {
	ID int64 `json:"id"`
}

type completeRequestSchema struct {
	AudioID     int64 `json:"audio_id"`
	AnalisisID  int64 `json:"analisis_id"`
	ResultadoID int64 `json:"resultado_id"`
}

type errorResponseSchema struct {
	Detalle string `json:"detalle"`
	Mensaje string `json:"mensaje"`
}

func (s errorResponseSchema) message() string {
	if s.Detalle != "" {
		return s.Detalle
	}
	return s.Mensaje
}
