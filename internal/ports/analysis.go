package ports

import (
	"context"

	"github.com/Johnmc130/SerenVoice/internal/domain"
)

// AnalysisUpload is the analyze response: the server-side references for the
// stored rows plus the individual result itself.
type AnalysisUpload struct {
	Refs   domain.ResultRefs
	Result domain.AnalysisResult
}

type AnalysisClient interface {
	Analyze(ctx context.Context, clip domain.AudioClip, userID domain.UserID) (AnalysisUpload, error)
}
