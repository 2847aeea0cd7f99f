package secrets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Johnmc130/SerenVoice/internal/ports"
)

const (
	storeDirMode   = 0o700
	secretFileMode = 0o600
)

// FileStore keeps one secret per file under a private root directory. It is
// the fallback backend for machines without a password manager.
type FileStore struct {
	root string
	mu   sync.RWMutex
}

var _ ports.SecretStore = (*FileStore)(nil)

func NewFileStore(root string) *FileStore {
	return &FileStore{root: filepath.Clean(root)}
}

func (s *FileStore) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathForKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), storeDirMode); err != nil {
		return fmt.Errorf("create secret directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(value), secretFileMode); err != nil {
		return fmt.Errorf("write secret %q: %w", key, err)
	}

	return nil
}

func (s *FileStore) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := s.pathForKey(key)
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("secret %q not found: %w", key, err)
		}
		return "", fmt.Errorf("read secret %q: %w", key, err)
	}

	return string(data), nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathForKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete secret %q: %w", key, err)
	}

	return nil
}

// Keys become relative paths, so anything that would escape the root is
// rejected.
func (s *FileStore) pathForKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", errors.New("secret key is empty")
	}

	cleaned := filepath.Clean(trimmed)
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") || cleaned == "." {
		return "", fmt.Errorf("invalid secret key %q", key)
	}

	return filepath.Join(s.root, cleaned), nil
}

var ErrPassUnavailable = errors.New("pass command unavailable")

type runFunc func(ctx context.Context, input string, args ...string) (stdout string, stderr string, err error)

// PassStore shells out to the standard unix password manager.
type PassStore struct {
	run runFunc
}

var _ ports.SecretStore = (*PassStore)(nil)

func NewPassStore() *PassStore {
	return &PassStore{run: runPass}
}

func (s *PassStore) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, stderr, err := s.run(ctx, value+"\n", "insert", "-m", "-f", key)
	if err != nil {
		return passError("put", key, err, stderr)
	}

	return nil
}

func (s *PassStore) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stdout, stderr, err := s.run(ctx, "", "show", key)
	if err != nil {
		return "", passError("get", key, err, stderr)
	}

	return strings.TrimRight(stdout, "\r\n"), nil
}

func (s *PassStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, stderr, err := s.run(ctx, "", "rm", "-f", key)
	if err != nil {
		return passError("delete", key, err, stderr)
	}

	return nil
}

func runPass(ctx context.Context, input string, args ...string) (string, string, error) {
	path, err := exec.LookPath("pass")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", "", ErrPassUnavailable
		}
		return "", "", fmt.Errorf("locate pass command: %w", err)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

func passError(op string, key string, err error, stderr string) error {
	if stderr == "" {
		return fmt.Errorf("pass %s %q: %w", op, key, err)
	}

	return fmt.Errorf("pass %s %q: %w: %s", op, key, err, stderr)
}

// Chain tries a primary backend and falls through to a fallback, except on
// context cancellation where retrying elsewhere is pointless.
type Chain struct {
	primary  ports.SecretStore
	fallback ports.SecretStore
}

var _ ports.SecretStore = (*Chain)(nil)

func NewChain(primary, fallback ports.SecretStore) (*Chain, error) {
	if primary == nil {
		return nil, errors.New("primary secret store is nil")
	}
	if fallback == nil {
		return nil, errors.New("fallback secret store is nil")
	}

	return &Chain{primary: primary, fallback: fallback}, nil
}

// NewDefaultChain prefers pass and falls back to plain files under fileRoot.
func NewDefaultChain(fileRoot string) (*Chain, error) {
	return NewChain(NewPassStore(), NewFileStore(fileRoot))
}

func (c *Chain) Put(ctx context.Context, key string, value string) error {
	err := c.primary.Put(ctx, key, value)
	if err == nil || skipFallback(err) {
		return err
	}

	if fallbackErr := c.fallback.Put(ctx, key, value); fallbackErr != nil {
		return fmt.Errorf("primary put failed: %w; fallback put failed: %w", err, fallbackErr)
	}

	return nil
}

func (c *Chain) Get(ctx context.Context, key string) (string, error) {
	value, err := c.primary.Get(ctx, key)
	if err == nil || skipFallback(err) {
		return value, err
	}

	fallbackValue, fallbackErr := c.fallback.Get(ctx, key)
	if fallbackErr != nil {
		return "", fmt.Errorf("primary get failed: %w; fallback get failed: %w", err, fallbackErr)
	}

	return fallbackValue, nil
}

func (c *Chain) Delete(ctx context.Context, key string) error {
	err := c.primary.Delete(ctx, key)
	if err == nil || skipFallback(err) {
		return err
	}

	if fallbackErr := c.fallback.Delete(ctx, key); fallbackErr != nil {
		return fmt.Errorf("primary delete failed: %w; fallback delete failed: %w", err, fallbackErr)
	}

	return nil
}

func skipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
