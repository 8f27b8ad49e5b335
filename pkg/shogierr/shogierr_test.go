package shogierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsKindMatchesWrapped(t *testing.T) {
	base := New(MagicTableCorrupt, "bad checksum")
	wrapped := fmt.Errorf("loading table: %w", base)

	assert.True(t, IsKind(wrapped, MagicTableCorrupt))
	assert.False(t, IsKind(wrapped, ConfigInvalid))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk read failed")
	err := Wrap(Internal, "could not read file", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk read failed")
}
