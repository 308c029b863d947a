package engine

import (
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	Google              Credentials
	GoogleSearchURL     string
	SearchTimeout       time.Duration
	SearchRPS           float64
	OllamaURL           string
	OllamaModel         string
	OllamaKeepAlive     string
	WarmupTimeout       time.Duration
	LLMAPIBase          string
	LLMAPIKey           string
	LLMModel            string
	LLMTemperature      float64
	LLMMaxTokens        int
	YouTubeURL          string
	YouTubeLangs        []string // preferred track languages; nil keeps YouTube order
	TranscriptMaxTokens int
	MaxContentChars     int
	FetchTimeout        time.Duration
	HTTPClient          *http.Client
	BrowserClient       *BrowserClient // nil = watch page fetched with HTTPClient
	LLMClient           *llm.Client    // nil = ask_video disabled
}

// Defaults for the external collaborators.
const (
	DefaultGoogleSearchURL = "https://www.googleapis.com/customsearch/v1"
	DefaultOllamaURL       = "http://localhost:11434"
	DefaultOllamaModel     = "qwen3:30b"
	DefaultKeepAlive       = "60m"
	DefaultYouTubeURL      = "https://www.youtube.com"
	DefaultSearchTimeout   = 30 * time.Second
	DefaultWarmupTimeout   = 120 * time.Second
)

var cfg = Config{
	GoogleSearchURL: DefaultGoogleSearchURL,
	SearchTimeout:   DefaultSearchTimeout,
	OllamaURL:       DefaultOllamaURL,
	OllamaModel:     DefaultOllamaModel,
	OllamaKeepAlive: DefaultKeepAlive,
	WarmupTimeout:   DefaultWarmupTimeout,
	YouTubeURL:      DefaultYouTubeURL,
	MaxContentChars: 20000,
	FetchTimeout:    20 * time.Second,
	HTTPClient:      NewHTTPClient(DefaultSearchTimeout),
}

// Cfg exposes the engine configuration for sub-packages (sources).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if c.HTTPClient == nil {
		c.HTTPClient = NewHTTPClient(DefaultSearchTimeout)
	}
	cfg = c
	Cfg = &cfg
	initSearchLimiter(c.SearchRPS)
}
