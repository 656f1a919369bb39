package s3blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/positionwatch/internal/domain"
)

// memBlobs is an in-memory BlobReader and BlobWriter.
type memBlobs struct {
	objects map[string][]byte
	types   map[string]string
	getErr  error
}

func newMemBlobs() *memBlobs {
	return &memBlobs{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memBlobs) Get(_ context.Context, path string) (io.ReadCloser, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	data, ok := m.objects[path]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", path, domain.ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memBlobs) Put(_ context.Context, path string, data io.Reader, contentType string) error {
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	m.objects[path] = b
	m.types[path] = contentType
	return nil
}

func TestStateStore_MissingObject(t *testing.T) {
	blobs := newMemBlobs()
	store := NewStateStore(blobs, blobs, "positionwatch/kch123.json")

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, state.IsEmpty())
}

func TestStateStore_SaveLoad(t *testing.T) {
	blobs := newMemBlobs()
	store := NewStateStore(blobs, blobs, "positionwatch/kch123.json")
	ctx := context.Background()

	in := domain.State{ProxyWallet: "0xabc", Positions: domain.Snapshot{"c:1:a": {Size: 3}}}
	require.NoError(t, store.Save(ctx, in))
	assert.Equal(t, "application/json", blobs.types["positionwatch/kch123.json"])

	out, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestStateStore_CorruptObject(t *testing.T) {
	blobs := newMemBlobs()
	blobs.objects["k"] = []byte("[]]")

	_, err := NewStateStore(blobs, blobs, "k").Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrCorruptState)
}

func TestStateStore_BackendError(t *testing.T) {
	blobs := newMemBlobs()
	blobs.getErr = errors.New("connection refused")

	_, err := NewStateStore(blobs, blobs, "k").Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCorruptState)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestNormaliseEndpoint(t *testing.T) {
	assert.Equal(t, "https://s3.example.com", normaliseEndpoint("https://s3.example.com", false))
	assert.Equal(t, "https://127.0.0.1:9000", normaliseEndpoint("127.0.0.1:9000", true))
	assert.Equal(t, "http://127.0.0.1:9000", normaliseEndpoint("127.0.0.1:9000", false))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(fmt.Errorf("get: %w", &types.NoSuchKey{})))
	assert.False(t, isNotFound(errors.New("access denied")))
}
