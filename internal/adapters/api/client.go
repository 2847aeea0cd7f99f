package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Johnmc130/SerenVoice/internal/domain"
	"github.com/Johnmc130/SerenVoice/internal/ports"
)

const maxResponseBytes = 1 << 20

// Client talks to the SerenVoice backend. It implements both the
// participation surface and the audio analysis surface; from the
// application's point of view they are separate ports, on the wire they are
// one service.
type Client struct {
	BaseURL        string
	Token          string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var (
	_ ports.ParticipationClient = (*Client)(nil)
	_ ports.AnalysisClient      = (*Client)(nil)
)

func (c *Client) GetActivity(ctx context.Context, id domain.ActivityID) (domain.Activity, error) {
	resp, err := c.do(ctx, http.MethodGet, "/actividades/"+url.PathEscape(string(id)), nil, "")
	if err != nil {
		return domain.Activity{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		drain(resp)
		return domain.Activity{}, domain.ErrActivityNotFound
	}
	if err := checkStatus(resp, "load activity"); err != nil {
		return domain.Activity{}, err
	}

	var payload activitySchema
	if err := decode(resp, &payload); err != nil {
		return domain.Activity{}, fmt.Errorf("decode activity: %w", err)
	}

	return payload.toDomain(), nil
}

func (c *Client) Join(ctx context.Context, id domain.ActivityID) (domain.ParticipationID, error) {
	resp, err := c.do(ctx, http.MethodPost, "/actividades/"+url.PathEscape(string(id))+"/participar", nil, "")
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		drain(resp)
		return "", domain.ErrActivityNotFound
	}
	if err := checkStatus(resp, "join activity"); err != nil {
		return "", err
	}

	var payload joinResponseSchema
	if err := decode(resp, &payload); err != nil {
		return "", fmt.Errorf("decode participation: %w", err)
	}
	if payload.ID == 0 {
		return "", errors.New("join response missing participation id")
	}

	return domain.ParticipationID(strconv.FormatInt(payload.ID, 10)), nil
}

func (c *Client) RegisterCompletion(ctx context.Context, id domain.ParticipationID, refs domain.ResultRefs) error {
	body, err := encodeCompletion(refs)
	if err != nil {
		return err
	}

	resp, err := c.do(ctx, http.MethodPut, "/participacion/"+url.PathEscape(string(id))+"/completar", bytes.NewReader(body), "application/json")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		drain(resp)
		return domain.ErrParticipationNotFound
	}
	if err := checkStatus(resp, "register completion"); err != nil {
		return err
	}
	drain(resp)

	return nil
}

func (c *Client) ListParticipants(ctx context.Context, id domain.ActivityID) (domain.Roster, error) {
	resp, err := c.do(ctx, http.MethodGet, "/actividades/"+url.PathEscape(string(id))+"/participantes", nil, "")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		drain(resp)
		return nil, domain.ErrActivityNotFound
	}
	if err := checkStatus(resp, "list participants"); err != nil {
		return nil, err
	}

	var payload []participationSchema
	if err := decode(resp, &payload); err != nil {
		return nil, fmt.Errorf("decode participants: %w", err)
	}

	roster := make(domain.Roster, 0, len(payload))
	for _, entry := range payload {
		roster = append(roster, entry.toDomain())
	}

	return roster, nil
}

func (c *Client) GetMyParticipation(ctx context.Context, id domain.ActivityID) (*domain.Participant, error) {
	resp, err := c.do(ctx, http.MethodGet, "/actividades/"+url.PathEscape(string(id))+"/mi-participacion", nil, "")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	// Not having joined yet is an ordinary answer, not an error.
	if resp.StatusCode == http.StatusNotFound {
		drain(resp)
		return nil, nil
	}
	if err := checkStatus(resp, "load own participation"); err != nil {
		return nil, err
	}

	var payload participationSchema
	if err := decode(resp, &payload); err != nil {
		return nil, fmt.Errorf("decode own participation: %w", err)
	}

	participant := payload.toDomain()
	return &participant, nil
}

func (c *Client) Analyze(ctx context.Context, clip domain.AudioClip, userID domain.UserID) (ports.AnalysisUpload, error) {
	if clip.Empty() {
		return ports.AnalysisUpload{}, domain.ErrNoClip
	}

	body, contentType, err := encodeClip(clip, userID)
	if err != nil {
		return ports.AnalysisUpload{}, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/analisis/analizar", bytes.NewReader(body), contentType)
	if err != nil {
		return ports.AnalysisUpload{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp, "analyze audio"); err != nil {
		return ports.AnalysisUpload{}, err
	}

	var payload analyzeResponseSchema
	if err := decode(resp, &payload); err != nil {
		return ports.AnalysisUpload{}, fmt.Errorf("decode analysis: %w", err)
	}
	if payload.AudioID == 0 || payload.AnalisisID == 0 || payload.ResultadoID == 0 {
		return ports.AnalysisUpload{}, errors.New("analysis response missing row ids")
	}

	return ports.AnalysisUpload{
		Refs: domain.ResultRefs{
			AudioID:    domain.AudioID(strconv.FormatInt(payload.AudioID, 10)),
			AnalysisID: domain.AnalysisID(strconv.FormatInt(payload.AnalisisID, 10)),
			ResultID:   domain.ResultID(strconv.FormatInt(payload.ResultadoID, 10)),
		},
		Result: payload.Resultado.toDomain(),
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	endpoint, err := c.buildURL(path)
	if err != nil {
		return nil, err
	}

	requestCtx := ctx
	var cancel context.CancelFunc
	if c.RequestTimeout > 0 {
		requestCtx, cancel = context.WithTimeout(ctx, c.RequestTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(requestCtx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, &domain.NetworkError{Op: method + " " + path, Err: err}
	}

	return resp, nil
}

func (c *Client) buildURL(path string) (string, error) {
	if c.BaseURL == "" {
		return "", errors.New("base url is required")
	}

	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("base url must use http or https")
	}

	parsed.Path = strings.TrimRight(parsed.Path, "/") + path

	return parsed.String(), nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// checkStatus translates a non-2xx response. A 429 maps onto the rate-limit
// sentinel so the poller can switch policy; everything else is a retryable
// network error carrying whatever message the backend offered.
func checkStatus(resp *http.Response, op string) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		drain(resp)
		return fmt.Errorf("%s: %w", op, domain.ErrRateLimited)
	}

	return &domain.NetworkError{Op: op, Err: fmt.Errorf("http %d: %s", resp.StatusCode, decodeErrorMessage(resp))}
}

func decodeErrorMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil || len(data) == 0 {
		return resp.Status
	}

	var payload errorResponseSchema
	if err := json.Unmarshal(data, &payload); err == nil && payload.message() != "" {
		return payload.message()
	}

	return resp.Status
}

func decode(resp *http.Response, v any) error {
	return json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(v)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
}

func encodeCompletion(refs domain.ResultRefs) ([]byte, error) {
	audioID, err := strconv.ParseInt(string(refs.AudioID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse audio id: %w", err)
	}
	analysisID, err := strconv.ParseInt(string(refs.AnalysisID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse analysis id: %w", err)
	}
	resultID, err := strconv.ParseInt(string(refs.ResultID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse result id: %w", err)
	}

	data, err := json.Marshal(completeRequestSchema{
		AudioID:     audioID,
		AnalisisID:  analysisID,
		ResultadoID: resultID,
	})
	if err != nil {
		return nil, fmt.Errorf("encode completion: %w", err)
	}

	return data, nil
}

func encodeClip(clip domain.AudioClip, userID domain.UserID) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	filename := clip.ID
	if filename == "" {
		filename = "grabacion"
	}
	part, err := writer.CreateFormFile("audio", filename+".wav")
	if err != nil {
		return nil, "", fmt.Errorf("create audio part: %w", err)
	}
	if _, err := part.Write(clip.Data); err != nil {
		return nil, "", fmt.Errorf("write audio part: %w", err)
	}

	if err := writer.WriteField("usuario_id", string(userID)); err != nil {
		return nil, "", fmt.Errorf("write user field: %w", err)
	}
	if err := writer.WriteField("duracion_segundos", strconv.Itoa(clip.DurationSeconds)); err != nil {
		return nil, "", fmt.Errorf("write duration field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("finish multipart body: %w", err)
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}
