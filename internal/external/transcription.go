package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "matchtix/internal/errors"
)

// TranscriptionClient turns a voice note into text via the speech-to-text
// service. Media is fetched from the channel's CDN first, then posted as
// raw audio bytes.
type TranscriptionClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type TranscriptionConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

func NewTranscriptionClient(cfg TranscriptionConfig) *TranscriptionClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &TranscriptionClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Transcribe downloads the media behind mediaURL and returns its transcript.
func (tc *TranscriptionClient) Transcribe(ctx context.Context, mediaURL string) (string, error) {
	if tc.baseURL == "" {
		return "", fmt.Errorf("%w: no transcription service configured", apperrors.ErrTranscriptionFailed)
	}

	audio, err := tc.fetchMedia(ctx, mediaURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrTranscriptionFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tc.baseURL+"/v1/audio/transcriptions", bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrTranscriptionFailed, err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if tc.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+tc.apiKey)
	}

	resp, err := tc.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrTranscriptionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status code %d", apperrors.ErrTranscriptionFailed, resp.StatusCode)
	}

	var result transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrTranscriptionFailed, err)
	}

	return result.Text, nil
}

func (tc *TranscriptionClient) fetchMedia(ctx context.Context, mediaURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := tc.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("media fetch returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
