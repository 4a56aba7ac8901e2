package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Synthesizer converts text to a playable audio URL.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

const (
	voiceRSSEndpoint = "https://api.voicerss.org/"
	// VoiceRSS rejects requests above 100KB of source text.
	voiceRSSMaxText = 100 * 1024
)

// VoiceRSSSynthesizer builds VoiceRSS text-to-speech URLs. The URLs it
// returns carry no API key and are safe to store and serve; Sign adds the
// key on the server before the audio is fetched.
type VoiceRSSSynthesizer struct {
	apiKey   string
	voice    string
	language string
}

func NewVoiceRSSSynthesizer(apiKey, voice string) *VoiceRSSSynthesizer {
	if voice == "" {
		voice = "Linda"
	}
	return &VoiceRSSSynthesizer{apiKey: apiKey, voice: voice, language: "en-us"}
}

func (s *VoiceRSSSynthesizer) Synthesize(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.apiKey == "" {
		return "", errors.New("VoiceRSS API key is not configured")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("no text to synthesize")
	}
	if len(text) > voiceRSSMaxText {
		return "", fmt.Errorf("text too long for synthesis: %d bytes", len(text))
	}

	params := url.Values{}
	params.Set("hl", s.language)
	params.Set("v", s.voice)
	params.Set("src", text)
	params.Set("c", "MP3")
	params.Set("f", "44khz_16bit_mono")
	params.Set("r", "-2")

	return voiceRSSEndpoint + "?" + params.Encode(), nil
}

// Sign adds the API key to a URL returned by Synthesize. It refuses URLs
// for any other host so the key is only ever sent to VoiceRSS.
func (s *VoiceRSSSynthesizer) Sign(audioURL string) (string, error) {
	if s.apiKey == "" {
		return "", errors.New("VoiceRSS API key is not configured")
	}
	u, err := url.Parse(audioURL)
	if err != nil {
		return "", fmt.Errorf("invalid audio URL: %w", err)
	}
	endpoint, _ := url.Parse(voiceRSSEndpoint)
	if u.Scheme != endpoint.Scheme || u.Host != endpoint.Host {
		return "", fmt.Errorf("not a VoiceRSS URL: %s", redactURL(audioURL))
	}

	params := u.Query()
	params.Set("key", s.apiKey)
	u.RawQuery = params.Encode()
	return u.String(), nil
}
