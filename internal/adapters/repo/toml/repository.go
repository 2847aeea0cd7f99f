package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/Johnmc130/SerenVoice/internal/domain"
	"github.com/Johnmc130/SerenVoice/internal/ports"
)

const (
	configName       = "config"
	configType       = "toml"
	ledgerPathKey    = "ledger.path"
	ledgerFileMode   = 0o600
	ledgerDirMode    = 0o700
	ledgerConfigDir  = ".serenvoice"
	ledgerConfigFile = "participaciones.toml"
	tempFilePattern  = ".participaciones-*.toml.tmp"
)

// Repository persists the participation ledger as a TOML file, one entry
// per activity. Writes go through a temp file and rename so a crash never
// leaves a half-written ledger behind.
type Repository struct {
	ledgerPath string
	mu         *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.LedgerRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, ledgerConfigDir, ledgerConfigFile)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, ledgerConfigDir))
	cfg.SetDefault(ledgerPathKey, defaultPath)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	ledgerPath := cfg.GetString(ledgerPathKey)
	if ledgerPath == "" {
		return nil, errors.New("ledger path is empty")
	}
	ledgerPath, err = normalizeLedgerPath(ledgerPath)
	if err != nil {
		return nil, err
	}

	return &Repository{ledgerPath: ledgerPath, mu: lockForPath(ledgerPath)}, nil
}

// NewRepositoryAtPath bypasses config resolution and pins the ledger file.
func NewRepositoryAtPath(path string) (*Repository, error) {
	if path == "" {
		return nil, errors.New("ledger path is empty")
	}
	path, err := normalizeLedgerPath(path)
	if err != nil {
		return nil, err
	}

	return &Repository{ledgerPath: path, mu: lockForPath(path)}, nil
}

func (r *Repository) Get(ctx context.Context, id domain.ActivityID) (domain.Ledger, error) {
	if err := ctx.Err(); err != nil {
		return domain.Ledger{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Ledger{}, err
	}

	for _, entry := range file.Participations {
		if entry.ActivityID == string(id) {
			return fromSchema(entry), nil
		}
	}

	return domain.Ledger{}, domain.ErrParticipationNotFound
}

func (r *Repository) Save(ctx context.Context, ledger domain.Ledger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ledger.ActivityID == "" {
		return errors.New("ledger activity id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	encoded := toSchema(ledger)
	updated := false
	for i := range file.Participations {
		if file.Participations[i].ActivityID == encoded.ActivityID {
			file.Participations[i] = encoded
			updated = true
			break
		}
	}

	if !updated {
		file.Participations = append(file.Participations, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.ledgerPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read ledger file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode ledger file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.ledgerPath), ledgerDirMode); err != nil {
		return fmt.Errorf("create ledger directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode ledger file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.ledgerPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp ledger file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp ledger file: %w", err)
	}

	if err := tempFile.Chmod(ledgerFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp ledger file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp ledger file: %w", err)
	}

	if err := os.Rename(tempName, r.ledgerPath); err != nil {
		return fmt.Errorf("replace ledger file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(r.ledgerPath, ledgerFileMode); err != nil {
		return fmt.Errorf("chmod ledger file: %w", err)
	}

	return nil
}

func normalizeLedgerPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve ledger path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
