package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"vozdalei-backend/storage"
)

type fakeTranscriber struct {
	text         string
	err          error
	lastLanguage string
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio io.Reader, filename, language string) (string, error) {
	f.lastLanguage = language
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type fakeSynthesizer struct {
	calls        int
	err          error
	lastLanguage string
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	f.calls++
	f.lastLanguage = language
	if f.err != nil {
		return nil, f.err
	}
	return []byte("mp3:" + text), nil
}

func newTestAudioService(t *testing.T, opts ...AudioServiceOption) *AudioService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	base := []AudioServiceOption{AudioWithStorage(store)}
	return NewAudioService(append(base, opts...)...)
}

func TestTranscribeRejectsUnsupportedFormat(t *testing.T) {
	s := newTestAudioService(t, AudioWithTranscriber(&fakeTranscriber{text: "olá"}))
	_, err := s.Transcribe(context.Background(), TranscribeRequest{
		Filename: "recording.pdf",
		Audio:    strings.NewReader("data"),
	})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestTranscribeRejectsOversizedAudio(t *testing.T) {
	s := newTestAudioService(t,
		AudioWithTranscriber(&fakeTranscriber{text: "olá"}),
		AudioWithMaxBytes(10),
	)
	_, err := s.Transcribe(context.Background(), TranscribeRequest{
		Filename: "voice.mp3",
		Audio:    strings.NewReader("this recording is longer than ten bytes"),
	})
	if !errors.Is(err, ErrAudioTooLarge) {
		t.Errorf("expected ErrAudioTooLarge, got %v", err)
	}
}

func TestTranscribeReturnsText(t *testing.T) {
	s := newTestAudioService(t, AudioWithTranscriber(&fakeTranscriber{text: " qual é a lei do SUS? "}))
	res, err := s.Transcribe(context.Background(), TranscribeRequest{
		Filename: "voice.ogg",
		Audio:    strings.NewReader("opus data"),
		Size:     9,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "qual é a lei do SUS?" {
		t.Errorf("unexpected transcription %q", res.Text)
	}
}

func TestTranscribePassesLanguageToBackend(t *testing.T) {
	tr := &fakeTranscriber{text: "hello"}
	s := newTestAudioService(t, AudioWithTranscriber(tr))

	res, err := s.Transcribe(context.Background(), TranscribeRequest{
		Filename: "voice.mp3",
		Audio:    strings.NewReader("x"),
		Size:     1,
		Language: "en",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.lastLanguage != "en" {
		t.Errorf("backend received language %q, want %q", tr.lastLanguage, "en")
	}
	if res.Language != "en" {
		t.Errorf("result reports language %q, want %q", res.Language, "en")
	}

	if _, err := s.Transcribe(context.Background(), TranscribeRequest{
		Filename: "voice.mp3",
		Audio:    strings.NewReader("x"),
		Size:     1,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.lastLanguage != DefaultAudioLanguage {
		t.Errorf("backend received language %q, want the %q default", tr.lastLanguage, DefaultAudioLanguage)
	}
}

func TestTranscribeWithoutBackend(t *testing.T) {
	s := newTestAudioService(t)
	_, err := s.Transcribe(context.Background(), TranscribeRequest{
		Filename: "voice.mp3",
		Audio:    strings.NewReader("x"),
	})
	if !errors.Is(err, ErrSpeechUnavailable) {
		t.Errorf("expected ErrSpeechUnavailable, got %v", err)
	}
}

func TestSynthesizeCachesByContent(t *testing.T) {
	synth := &fakeSynthesizer{}
	s := newTestAudioService(t, AudioWithSynthesizer(synth))
	ctx := context.Background()

	first, err := s.Synthesize(ctx, SynthesizeRequest{Text: "A lei entra em vigor hoje."})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Cached {
		t.Error("first synthesis must not be cached")
	}

	second, err := s.Synthesize(ctx, SynthesizeRequest{Text: "A lei entra em vigor hoje."})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Cached {
		t.Error("second synthesis of the same text must hit the cache")
	}
	if first.Filename != second.Filename {
		t.Errorf("expected same filename, got %q and %q", first.Filename, second.Filename)
	}
	if synth.calls != 1 {
		t.Errorf("expected exactly 1 synthesizer call, got %d", synth.calls)
	}
	if !strings.HasPrefix(first.Filename, "tts_") || !strings.HasSuffix(first.Filename, ".mp3") {
		t.Errorf("unexpected filename %q", first.Filename)
	}
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	s := newTestAudioService(t, AudioWithSynthesizer(&fakeSynthesizer{}))
	_, err := s.Synthesize(context.Background(), SynthesizeRequest{Text: "  "})
	if !errors.Is(err, ErrEmptyText) {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
}

func TestSynthesizeKeysCacheByLanguage(t *testing.T) {
	synth := &fakeSynthesizer{}
	s := newTestAudioService(t, AudioWithSynthesizer(synth))
	ctx := context.Background()

	pt, err := s.Synthesize(ctx, SynthesizeRequest{Text: "Lei complementar."})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if synth.lastLanguage != DefaultAudioLanguage {
		t.Errorf("backend received language %q, want the %q default", synth.lastLanguage, DefaultAudioLanguage)
	}

	en, err := s.Synthesize(ctx, SynthesizeRequest{Text: "Lei complementar.", Language: "en"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if synth.lastLanguage != "en" {
		t.Errorf("backend received language %q, want %q", synth.lastLanguage, "en")
	}
	if en.Cached {
		t.Error("same text in another language must not hit the cache")
	}
	if pt.Filename == en.Filename {
		t.Errorf("expected distinct filenames per language, got %q twice", pt.Filename)
	}
}

func TestSynthesizeUsesConfiguredURLPrefix(t *testing.T) {
	s := newTestAudioService(t, AudioWithSynthesizer(&fakeSynthesizer{}), AudioWithURLPrefix("/files/audio/"))
	res, err := s.Synthesize(context.Background(), SynthesizeRequest{Text: "Texto para leitura."})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(res.URL, "/files/audio/tts_") {
		t.Errorf("unexpected URL %q", res.URL)
	}
}

func TestSaveUploadAndOpen(t *testing.T) {
	s := newTestAudioService(t)
	ctx := context.Background()

	saved, err := s.SaveUpload(ctx, SaveUploadRequest{
		Filename: "pergunta.m4a",
		Audio:    strings.NewReader("aac data"),
		Size:     8,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(saved.Filename, ".m4a") {
		t.Errorf("expected extension preserved, got %q", saved.Filename)
	}

	rc, err := s.Open(ctx, saved.Filename)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "aac data" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestSaveUploadRejectsStreamLongerThanDeclared(t *testing.T) {
	s := newTestAudioService(t, AudioWithMaxBytes(16))
	_, err := s.SaveUpload(context.Background(), SaveUploadRequest{
		Filename: "longo.mp3",
		Audio:    strings.NewReader(strings.Repeat("x", 64)),
		Size:     8,
	})
	if !errors.Is(err, ErrAudioTooLarge) {
		t.Errorf("expected ErrAudioTooLarge, got %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	s := newTestAudioService(t)
	_, err := s.Open(context.Background(), "tts_missing.mp3")
	if !errors.Is(err, ErrAudioNotFound) {
		t.Errorf("expected ErrAudioNotFound, got %v", err)
	}
}

func TestTTSFilenameDeterministic(t *testing.T) {
	a := ttsFilename("mesmo texto", "pt")
	b := ttsFilename("mesmo texto", "pt")
	c := ttsFilename("outro texto", "pt")
	d := ttsFilename("mesmo texto", "es")
	if a != b {
		t.Errorf("same text must map to same filename: %q vs %q", a, b)
	}
	if a == c {
		t.Error("different texts must map to different filenames")
	}
	if a == d {
		t.Error("different languages must map to different filenames")
	}
}
