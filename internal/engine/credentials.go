package engine

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/joho/godotenv"
)

// Credentials are the Google Custom Search keys.
type Credentials struct {
	APIKey string
	CSEID  string
}

// CredentialPaths lists the env files consulted for credentials, in order.
func CredentialPaths(home, cwd string) []string {
	return []string{
		filepath.Join(home, ".config", "ai-workflows", ".env"),
		filepath.Join(home, "ai-workflow", ".env"),
		filepath.Join(cwd, ".env"),
	}
}

// LoadCredentials reads GOOGLE_API_KEY and GOOGLE_CSE_ID from the process
// environment, then lets the first existing file in paths override them.
// Later files are not consulted once one exists. The process environment is
// never modified.
func LoadCredentials(paths []string) Credentials {
	c := Credentials{
		APIKey: env.Str("GOOGLE_API_KEY", ""),
		CSEID:  env.Str("GOOGLE_CSE_ID", ""),
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		vals, err := godotenv.Read(p)
		if err != nil {
			slog.Warn("credentials: unreadable env file", slog.String("path", p), slog.Any("error", err))
			break
		}
		if v, ok := vals["GOOGLE_API_KEY"]; ok {
			c.APIKey = v
		}
		if v, ok := vals["GOOGLE_CSE_ID"]; ok {
			c.CSEID = v
		}
		slog.Debug("credentials: loaded env file", slog.String("path", p))
		break
	}
	return c
}
