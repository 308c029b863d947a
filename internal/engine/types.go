package engine

// --- Google Custom Search ---

// SearchResult is one normalized search hit.
type SearchResult struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Snippet     string `json:"snippet"`
	DisplayLink string `json:"displayLink"`
}

// SearchResponse is the success shape printed by google-search.
type SearchResponse struct {
	Query        string         `json:"query"`
	TotalResults string         `json:"totalResults"`
	Results      []SearchResult `json:"results"`
}

type googleResponse struct {
	SearchInformation struct {
		TotalResults string `json:"totalResults"`
	} `json:"searchInformation"`
	Items []SearchResult `json:"items"`
}

// --- Ollama ---

// WarmupResult is the shape printed by warmup-ollama in both outcomes.
type WarmupResult struct {
	Success   bool   `json:"success"`
	Model     string `json:"model,omitempty"`
	KeepAlive string `json:"keepalive,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

type generateRequest struct {
	Model     string          `json:"model"`
	Prompt    string          `json:"prompt"`
	Stream    bool            `json:"stream"`
	KeepAlive string          `json:"keep_alive"`
	Options   generateOptions `json:"options"`
}

type generateOptions struct {
	NumPredict int `json:"num_predict"`
}

// --- Page fetch ---

// FetchResult is a fetched page reduced to markdown.
type FetchResult struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Truncated bool   `json:"truncated,omitempty"`
	Error     string `json:"error,omitempty"`
}
