// Copyright 2025 Reelmind Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package transcript

import (
	"net/http"
	"time"
)

// Config holds credentials and tuning for the transcript extractors.
type Config struct {
	// VimeoAPIKey is the bearer token for the Vimeo API.
	VimeoAPIKey string

	// MuxTokenID and MuxTokenSecret are the Mux API credential pair.
	MuxTokenID     string
	MuxTokenSecret string

	// OpenAIAPIKey authenticates Whisper transcription requests.
	OpenAIAPIKey string

	// WhisperModel is the speech-to-text model identifier.
	// Default: "whisper-1"
	WhisperModel string

	// PricePerMinute is the Whisper cost in USD per audio minute.
	// Default: 0.006
	PricePerMinute float64

	// MaxUploadBytes caps the media buffer sent to Whisper.
	// Default: 25 MiB (the API limit).
	MaxUploadBytes int64

	// HTTPClient is used for all outbound requests.
	HTTPClient *http.Client

	// Base URLs for each service. Overridable so tests can point the
	// extractors at local servers.
	YouTubeBaseURL   string
	VimeoBaseURL     string
	MuxBaseURL       string
	MuxStreamBaseURL string
	WhisperBaseURL   string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithVimeoAPIKey sets the Vimeo bearer token.
func WithVimeoAPIKey(key string) ConfigOption {
	return func(c *Config) { c.VimeoAPIKey = key }
}

// WithMuxCredentials sets the Mux API token pair.
func WithMuxCredentials(tokenID, tokenSecret string) ConfigOption {
	return func(c *Config) {
		c.MuxTokenID = tokenID
		c.MuxTokenSecret = tokenSecret
	}
}

// WithOpenAIAPIKey sets the Whisper API key.
func WithOpenAIAPIKey(key string) ConfigOption {
	return func(c *Config) { c.OpenAIAPIKey = key }
}

// WithPricePerMinute sets the Whisper cost rate.
func WithPricePerMinute(price float64) ConfigOption {
	return func(c *Config) { c.PricePerMinute = price }
}

// WithHTTPClient sets the HTTP client used by all extractors.
func WithHTTPClient(client *http.Client) ConfigOption {
	return func(c *Config) { c.HTTPClient = client }
}

// DefaultConfig returns a Config with production service endpoints.
func DefaultConfig() *Config {
	return &Config{
		WhisperModel:   "whisper-1",
		PricePerMinute: 0.006,
		MaxUploadBytes: 25 * 1024 * 1024,
		HTTPClient:     &http.Client{Timeout: 120 * time.Second},

		YouTubeBaseURL:   "https://www.youtube.com",
		VimeoBaseURL:     "https://api.vimeo.com",
		MuxBaseURL:       "https://api.mux.com",
		MuxStreamBaseURL: "https://stream.mux.com",
		WhisperBaseURL:   "https://api.openai.com/v1",
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
