package voice

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/yojana-mitra/server/internal/agent/model"
	errx "github.com/yojana-mitra/server/internal/core/error"
	logx "github.com/yojana-mitra/server/pkg/logger"
)

const defaultHTTPTimeout = 30 * time.Second

// SarvamClient talks to the Sarvam speech API: Saarika for transcription and
// Bulbul for synthesis.
type SarvamClient struct {
	cfg        model.VoiceConfig
	httpClient *http.Client
}

var (
	_ Transcriber = (*SarvamClient)(nil)
	_ Synthesizer = (*SarvamClient)(nil)
)

// NewSarvamClient builds a client from the voice config.
func NewSarvamClient(cfg model.VoiceConfig) *SarvamClient {
	return &SarvamClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
}

// Transcribe sends WAV audio to the speech-to-text endpoint.
func (c *SarvamClient) Transcribe(ctx context.Context, audio []byte) (*Transcription, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return nil, fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, fmt.Errorf("write audio part: %w", err)
	}
	if err := writer.WriteField("model", c.cfg.STTModel); err != nil {
		return nil, fmt.Errorf("write model field: %w", err)
	}
	if err := writer.WriteField("language_code", c.cfg.Language); err != nil {
		return nil, fmt.Errorf("write language field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/speech-to-text", &body)
	if err != nil {
		return nil, fmt.Errorf("build stt request: %w", err)
	}
	req.Header.Set("api-subscription-key", c.cfg.APIKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errx.Transport(fmt.Errorf("stt request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errx.Transport(fmt.Errorf("stt api status %d: %s", resp.StatusCode, readSnippet(resp.Body)))
	}

	var result Transcription
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errx.Malformed(fmt.Errorf("decode stt response: %w", err))
	}
	if result.LanguageCode == "" {
		result.LanguageCode = c.cfg.Language
	}

	logx.Debug().
		Int("audio_bytes", len(audio)).
		Float64("confidence", result.Confidence).
		Msg("transcription done")
	return &result, nil
}

type ttsRequest struct {
	Inputs              []string `json:"inputs"`
	TargetLanguageCode  string   `json:"target_language_code"`
	Speaker             string   `json:"speaker"`
	Model               string   `json:"model"`
	EnablePreprocessing bool     `json:"enable_preprocessing"`
}

type ttsResponse struct {
	Audios []string `json:"audios"`
}

// Synthesize sends text to the text-to-speech endpoint and returns decoded
// WAV bytes.
func (c *SarvamClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	payload := ttsRequest{
		Inputs:              []string{text},
		TargetLanguageCode:  c.cfg.Language,
		Speaker:             c.cfg.Speaker,
		Model:               c.cfg.TTSModel,
		EnablePreprocessing: true,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal tts request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/text-to-speech", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("build tts request: %w", err)
	}
	req.Header.Set("api-subscription-key", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errx.Transport(fmt.Errorf("tts request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errx.Transport(fmt.Errorf("tts api status %d: %s", resp.StatusCode, readSnippet(resp.Body)))
	}

	var result ttsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errx.Malformed(fmt.Errorf("decode tts response: %w", err))
	}
	if len(result.Audios) == 0 || result.Audios[0] == "" {
		return nil, errx.Malformed(fmt.Errorf("tts response carries no audio"))
	}

	audio, err := base64.StdEncoding.DecodeString(result.Audios[0])
	if err != nil {
		return nil, errx.Malformed(fmt.Errorf("decode tts audio: %w", err))
	}

	logx.Debug().
		Int("text_chars", len(text)).
		Int("audio_bytes", len(audio)).
		Msg("synthesis done")
	return audio, nil
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 200))
	return string(b)
}
