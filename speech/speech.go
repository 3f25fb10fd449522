package speech

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// ErrNotConfigured is returned when no speech API key was provided.
var ErrNotConfigured = errors.New("speech: no API key configured")

const (
	defaultTranscriptionModel = openai.Whisper1
	defaultSpeechModel        = openai.TTSModel1
	defaultVoice              = openai.VoiceNova
	defaultLanguage           = "pt"
)

// Client converts between audio and text using the OpenAI audio APIs.
// Transcription runs Whisper; synthesis produces MP3 speech.
type Client struct {
	api      *openai.Client
	language string
	voice    openai.SpeechVoice
}

// Option customizes a Client.
type Option func(*Client)

// WithLanguage sets the default language (ISO 639-1) used when a
// request does not carry one.
func WithLanguage(lang string) Option {
	return func(c *Client) {
		c.language = lang
	}
}

// WithVoice sets the synthesis voice.
func WithVoice(voice openai.SpeechVoice) Option {
	return func(c *Client) {
		c.voice = voice
	}
}

func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	c := &Client{
		api:      openai.NewClient(apiKey),
		language: defaultLanguage,
		voice:    defaultVoice,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Transcribe converts spoken audio to text. The filename carries the
// extension Whisper uses to pick a decoder, so it must match the actual
// format of the stream. An empty language falls back to the client
// default.
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, filename, language string) (string, error) {
	if language == "" {
		language = c.language
	}
	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    defaultTranscriptionModel,
		Reader:   audio,
		FilePath: filename,
		Language: language,
	})
	if err != nil {
		return "", fmt.Errorf("transcribe audio: %w", err)
	}
	return resp.Text, nil
}

// Synthesize converts text to MP3 speech and returns the encoded bytes.
// The OpenAI speech API has no language field; the model follows the
// language of the input text, so the hint is not forwarded.
func (c *Client) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	resp, err := c.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          defaultSpeechModel,
		Input:          text,
		Voice:          c.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read synthesized audio: %w", err)
	}
	return data, nil
}
