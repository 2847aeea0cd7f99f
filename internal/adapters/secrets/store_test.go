package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewFileStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "serenvoice/token", "jwt-abc"))

	value, err := store.Get(ctx, "serenvoice/token")
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", value)

	require.NoError(t, store.Delete(ctx, "serenvoice/token"))
	_, err = store.Get(ctx, "serenvoice/token")
	require.Error(t, err)
}

func TestFileStoreDeleteMissingKeyIsNoOp(t *testing.T) {
	t.Parallel()

	store := NewFileStore(t.TempDir())
	require.NoError(t, store.Delete(context.Background(), "serenvoice/token"))
}

func TestFileStoreRejectsEscapingKeys(t *testing.T) {
	t.Parallel()

	store := NewFileStore(t.TempDir())
	ctx := context.Background()

	tests := []string{"", "  ", "..", "../outside", "/etc/passwd", "."}
	for _, key := range tests {
		require.Error(t, store.Put(ctx, key, "value"), "key %q", key)
	}
}

type stubStore struct {
	values map[string]string
	err    error
	puts   int
}

func newStubStore() *stubStore {
	return &stubStore{values: map[string]string{}}
}

func (s *stubStore) Get(_ context.Context, key string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	value, ok := s.values[key]
	if !ok {
		return "", errors.New("not found")
	}
	return value, nil
}

func (s *stubStore) Put(_ context.Context, key string, value string) error {
	s.puts++
	if s.err != nil {
		return s.err
	}
	s.values[key] = value
	return nil
}

func (s *stubStore) Delete(_ context.Context, key string) error {
	if s.err != nil {
		return s.err
	}
	delete(s.values, key)
	return nil
}

func TestChainPrefersPrimary(t *testing.T) {
	t.Parallel()

	primary := newStubStore()
	fallback := newStubStore()
	chain, err := NewChain(primary, fallback)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, chain.Put(ctx, "k", "v"))
	assert.Equal(t, "v", primary.values["k"])
	assert.Empty(t, fallback.values)
}

func TestChainFallsBackWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	primary := newStubStore()
	primary.err = ErrPassUnavailable
	fallback := newStubStore()
	chain, err := NewChain(primary, fallback)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, chain.Put(ctx, "k", "v"))
	assert.Equal(t, "v", fallback.values["k"])

	value, err := chain.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)
}

func TestChainSkipsFallbackOnContextCancellation(t *testing.T) {
	t.Parallel()

	primary := newStubStore()
	primary.err = context.Canceled
	fallback := newStubStore()
	chain, err := NewChain(primary, fallback)
	require.NoError(t, err)

	err = chain.Put(context.Background(), "k", "v")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, fallback.puts)
}

func TestChainReportsBothFailures(t *testing.T) {
	t.Parallel()

	primary := newStubStore()
	primary.err = errors.New("primary down")
	fallback := newStubStore()
	fallback.err = errors.New("fallback down")
	chain, err := NewChain(primary, fallback)
	require.NoError(t, err)

	_, err = chain.Get(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "primary down")
	assert.Contains(t, err.Error(), "fallback down")
}

func TestPassStoreTranslatesCommandFailure(t *testing.T) {
	t.Parallel()

	store := &PassStore{run: func(_ context.Context, _ string, _ ...string) (string, string, error) {
		return "", "gpg: decryption failed", errors.New("exit status 2")
	}}

	_, err := store.Get(context.Background(), "serenvoice/token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gpg: decryption failed")
}

func TestPassStoreTrimsTrailingNewline(t *testing.T) {
	t.Parallel()

	store := &PassStore{run: func(_ context.Context, _ string, _ ...string) (string, string, error) {
		return "jwt-abc\n", "", nil
	}}

	value, err := store.Get(context.Background(), "serenvoice/token")
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", value)
}
