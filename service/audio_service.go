package service

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"vozdalei-backend/storage"
)

// Transcriber converts spoken audio to text in the given language.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename, language string) (string, error)
}

// Synthesizer converts text to MP3 speech in the given language.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, language string) ([]byte, error)
}

// AudioService handles voice input and output: transcription of uploads
// and text-to-speech with content-addressed caching. Synthesized files
// are named after the hash of their text, so repeating a request reuses
// the stored file instead of calling the speech API again.
type AudioService struct {
	transcriber Transcriber
	synthesizer Synthesizer
	store       storage.Storage
	maxBytes    int64
	retention   time.Duration
	urlPrefix   string
}

// AudioServiceOption is a functional option for AudioService
type AudioServiceOption func(*AudioService)

// AudioWithTranscriber sets the speech-to-text backend
func AudioWithTranscriber(t Transcriber) AudioServiceOption {
	return func(s *AudioService) {
		s.transcriber = t
	}
}

// AudioWithSynthesizer sets the text-to-speech backend
func AudioWithSynthesizer(t Synthesizer) AudioServiceOption {
	return func(s *AudioService) {
		s.synthesizer = t
	}
}

// AudioWithStorage sets the file storage backend
func AudioWithStorage(store storage.Storage) AudioServiceOption {
	return func(s *AudioService) {
		s.store = store
	}
}

// AudioWithMaxBytes caps the accepted upload size
func AudioWithMaxBytes(n int64) AudioServiceOption {
	return func(s *AudioService) {
		s.maxBytes = n
	}
}

// AudioWithRetention sets how long stored audio files are kept
func AudioWithRetention(d time.Duration) AudioServiceOption {
	return func(s *AudioService) {
		s.retention = d
	}
}

// AudioWithURLPrefix sets the public path under which files are served
func AudioWithURLPrefix(prefix string) AudioServiceOption {
	return func(s *AudioService) {
		s.urlPrefix = strings.TrimSuffix(prefix, "/")
	}
}

// NewAudioService creates a new audio service
func NewAudioService(opts ...AudioServiceOption) *AudioService {
	s := &AudioService{
		maxBytes:  DefaultMaxAudioBytes,
		retention: DefaultAudioRetention,
		urlPrefix: "/api/v1/audio",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const (
	DefaultMaxAudioBytes  = 25 << 20 // 25MB
	DefaultAudioRetention = 7 * 24 * time.Hour
	DefaultAudioLanguage  = "pt"
)

var (
	ErrAudioTooLarge      = errors.New("audio file exceeds the maximum allowed size")
	ErrUnsupportedFormat  = errors.New("unsupported audio format")
	ErrSpeechUnavailable  = errors.New("speech service is not configured")
	ErrStorageUnavailable = errors.New("audio storage is not configured")
	ErrAudioNotFound      = errors.New("audio file not found")
)

// supportedAudioExts lists the upload formats Whisper accepts here.
var supportedAudioExts = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".ogg":  true,
	".m4a":  true,
	".webm": true,
}

// TranscribeRequest represents a request to transcribe uploaded audio
type TranscribeRequest struct {
	Filename string
	Audio    io.Reader
	Size     int64
	Language string
}

// TranscribeResult represents the result of a transcription
type TranscribeResult struct {
	Text     string
	Language string
}

// Transcribe converts an uploaded recording to text.
func (s *AudioService) Transcribe(ctx context.Context, req TranscribeRequest) (*TranscribeResult, error) {
	if s.transcriber == nil {
		return nil, ErrSpeechUnavailable
	}
	if err := s.validateUpload(req.Filename, req.Size); err != nil {
		return nil, err
	}

	// Enforce the size cap even when the caller did not know the size.
	limited := io.LimitReader(req.Audio, s.maxBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrAudioTooLarge
	}

	language := req.Language
	if language == "" {
		language = DefaultAudioLanguage
	}
	text, err := s.transcriber.Transcribe(ctx, bytes.NewReader(data), req.Filename, language)
	if err != nil {
		return nil, err
	}
	return &TranscribeResult{Text: strings.TrimSpace(text), Language: language}, nil
}

// SynthesizeRequest represents a request to generate speech
type SynthesizeRequest struct {
	Text     string
	Language string
}

// SynthesizeResult represents generated speech stored for download
type SynthesizeResult struct {
	Filename string
	URL      string
	Cached   bool
}

// Synthesize converts text to speech and stores the MP3. The filename is
// derived from the text content, so identical requests share one file.
func (s *AudioService) Synthesize(ctx context.Context, req SynthesizeRequest) (*SynthesizeResult, error) {
	if s.synthesizer == nil {
		return nil, ErrSpeechUnavailable
	}
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyText
	}
	language := req.Language
	if language == "" {
		language = DefaultAudioLanguage
	}

	// The language is part of the cache key so the same sentence read
	// in two languages does not collide on one file.
	name := ttsFilename(text, language)
	exists, err := s.store.Exists(ctx, name)
	if err != nil {
		log.Printf("Warning: failed to check cached audio %s: %v", name, err)
	}
	if exists {
		return &SynthesizeResult{Filename: name, URL: s.fileURL(name), Cached: true}, nil
	}

	data, err := s.synthesizer.Synthesize(ctx, text, language)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Upload(ctx, name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("store synthesized audio: %w", err)
	}

	return &SynthesizeResult{Filename: name, URL: s.fileURL(name)}, nil
}

// SaveUploadRequest represents a request to keep an uploaded recording
type SaveUploadRequest struct {
	Filename string
	Audio    io.Reader
	Size     int64
}

// SaveUploadResult represents a stored upload
type SaveUploadResult struct {
	Filename string
	URL      string
}

// SaveUpload stores an uploaded recording under a unique name.
func (s *AudioService) SaveUpload(ctx context.Context, req SaveUploadRequest) (*SaveUploadResult, error) {
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}
	if err := s.validateUpload(req.Filename, req.Size); err != nil {
		return nil, err
	}

	// The declared multipart size is client-supplied, so read with the
	// same cap Transcribe uses instead of trusting it.
	limited := io.LimitReader(req.Audio, s.maxBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("read uploaded audio: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrAudioTooLarge
	}

	name := fmt.Sprintf("%s%s", uuid.New().String(), strings.ToLower(filepath.Ext(req.Filename)))
	stored, err := s.store.Upload(ctx, name, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("store uploaded audio: %w", err)
	}
	return &SaveUploadResult{Filename: stored, URL: s.fileURL(stored)}, nil
}

// Open returns a stored audio file for serving.
func (s *AudioService) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}
	exists, err := s.store.Exists(ctx, filename)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrAudioNotFound
	}
	return s.store.Download(ctx, filename)
}

// Cleanup removes audio files older than the retention period.
func (s *AudioService) Cleanup(ctx context.Context) (int, error) {
	if s.store == nil {
		return 0, ErrStorageUnavailable
	}
	return s.store.CleanupOlderThan(ctx, s.retention)
}

// RunCleanupLoop sweeps expired audio on the given interval until the
// context is cancelled. Meant to run in its own goroutine.
func (s *AudioService) RunCleanupLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.Cleanup(ctx)
			if err != nil {
				log.Printf("Warning: audio cleanup failed: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("Audio cleanup removed %d expired files", removed)
			}
		}
	}
}

func (s *AudioService) validateUpload(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !supportedAudioExts[ext] {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if size > s.maxBytes {
		return ErrAudioTooLarge
	}
	return nil
}

func (s *AudioService) fileURL(name string) string {
	return s.urlPrefix + "/" + name
}

// ttsFilename derives the stored name from the spoken text and language.
func ttsFilename(text, language string) string {
	sum := md5.Sum([]byte(language + "\x00" + text))
	return fmt.Sprintf("tts_%s.mp3", hex.EncodeToString(sum[:])[:10])
}
