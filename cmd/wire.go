package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/Johnmc130/SerenVoice/internal/adapters/api"
	"github.com/Johnmc130/SerenVoice/internal/adapters/capture/mic"
	reportadapter "github.com/Johnmc130/SerenVoice/internal/adapters/render/report"
	tomlrepo "github.com/Johnmc130/SerenVoice/internal/adapters/repo/toml"
	"github.com/Johnmc130/SerenVoice/internal/adapters/secrets"
	"github.com/Johnmc130/SerenVoice/internal/application"
	"github.com/Johnmc130/SerenVoice/internal/domain"
	"github.com/Johnmc130/SerenVoice/internal/ports"
)

type app struct {
	client         *api.Client
	ledger         *tomlrepo.Repository
	device         *mic.Device
	secretStore    ports.SecretStore
	userID         domain.UserID
	log            *logrus.Logger
	reportRenderer func(application.Snapshot, reportadapter.RenderOptions) (string, error)
	now            func() time.Time
}

func wireApp() (*app, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if level, err := logrus.ParseLevel(envOrDefault("SV_LOG_LEVEL", "warn")); err == nil {
		log.SetLevel(level)
	}

	ledger, err := tomlrepo.NewRepository(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire participation ledger: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	secretStore, err := secrets.NewDefaultChain(filepath.Join(homeDir, ".serenvoice", "secrets"))
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	client := &api.Client{
		BaseURL:        envOrDefault("SV_API_BASE_URL", "http://localhost:8000/api"),
		Token:          resolveSecret(secretStore, "SV_API_TOKEN", tokenSecretKey),
		HTTPClient:     http.DefaultClient,
		RequestTimeout: 30 * time.Second,
	}

	return &app{
		client:      client,
		ledger:      ledger,
		secretStore: secretStore,
		device: &mic.Device{
			Source: os.Getenv("SV_AUDIO_SOURCE"),
			Log:    log,
		},
		userID:         domain.UserID(resolveSecret(secretStore, "SV_USER_ID", userIDSecretKey)),
		log:            log,
		reportRenderer: reportadapter.Render,
		now:            time.Now,
	}, nil
}

func (a *app) newSession(activityID string) *application.Session {
	return application.NewSession(application.SessionConfig{
		ActivityID:    domain.ActivityID(activityID),
		UserID:        a.userID,
		Device:        a.device,
		Analysis:      a.client,
		Participation: a.client,
		Ledger:        a.ledger,
		Clock:         ports.SystemClock{},
		Logger:        a.log,
	})
}

// resolveSecret prefers the environment variable and falls back to the
// secret store. A missing secret is not an error here: commands that
// need the value fail with a clearer message at call time.
func resolveSecret(store ports.SecretStore, envKey, secretKey string) string {
	if value := os.Getenv(envKey); value != "" {
		return value
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	value, err := store.Get(ctx, secretKey)
	if err != nil {
		return ""
	}
	return value
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
