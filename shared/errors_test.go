package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesOnKind(t *testing.T) {
	err := UnsupportedVersion(1, 2)
	assert.True(t, errors.Is(err, ErrUnsupportedVersion))
	assert.False(t, errors.Is(err, ErrNotFound))

	wrapped := fmt.Errorf("inserting: %w", InvalidSourceURL("https://example.com"))
	assert.True(t, errors.Is(wrapped, ErrInvalidSourceURL))
	assert.Equal(t, KindInvalidSourceURL, KindOf(wrapped))
}

func TestError_UnwrapsCause(t *testing.T) {
	cause := errors.New("disk on fire")
	err := Storage(cause)
	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrStorage))
	assert.Equal(t, "storage error: disk on fire", err.Error())
}

func TestError_Messages(t *testing.T) {
	assert.Equal(t, "invalid item version: expected: 1, got: 3", UnsupportedVersion(1, 3).Error())
	assert.Equal(t, "invalid youtube url: nope", InvalidSourceURL("nope").Error())
	assert.Equal(t, "invalid youtube data", ErrInvalidMetadata.Error())
	assert.Equal(t, "not found", ErrNotFound.Error())
	assert.Equal(t, "metadata unavailable", MetadataUnavailable(nil).Error())
}

func TestKindOf_Unknown(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.Equal(t, "unknown", KindUnknown.String())
}

func TestKind_ClientError(t *testing.T) {
	assert.True(t, KindUnsupportedVersion.ClientError())
	assert.True(t, KindInvalidSourceURL.ClientError())
	assert.True(t, KindInvalidMetadata.ClientError())
	assert.False(t, KindMetadataUnavailable.ClientError())
	assert.False(t, KindStorage.ClientError())
	assert.False(t, KindNotFound.ClientError())
}
