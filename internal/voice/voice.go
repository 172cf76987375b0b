// Package voice is the speech boundary: transcription of user audio and
// synthesis of agent replies. The orchestration core only depends on the two
// interfaces here.
package voice

import "context"

// Transcription is the result of one speech-to-text call.
type Transcription struct {
	Text                 string  `json:"transcript"`
	LanguageCode         string  `json:"language_code"`
	Confidence           float64 `json:"confidence"`
	AudioDurationSeconds float64 `json:"duration"`
}

// Transcriber converts spoken audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (*Transcription, error)
}

// Synthesizer converts text to spoken audio, WAV bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
