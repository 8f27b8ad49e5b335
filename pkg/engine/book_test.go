package engine_test

import (
	"context"
	"testing"

	"github.com/herohde/shogo/pkg/engine"
	"github.com/herohde/shogo/pkg/shogi/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBook(t *testing.T) {
	ctx := context.Background()

	book, err := engine.NewBook([]engine.Line{
		{"7g7f", "3c3d", "2g2f"},
		{"7g7f", "8c8d"},
		{"2g2f", "8c8d"},
	})
	require.NoError(t, err)

	tests := []struct {
		pos   string
		moves []string
	}{
		{fen.Initial, []string{"2g2f", "7g7f"}},
	}

	for _, tt := range tests {
		list, err := book.Find(ctx, tt.pos)
		require.NoError(t, err)

		var got []string
		for _, m := range list {
			got = append(got, m.String())
		}
		assert.Equal(t, tt.moves, got, "candidates for %v", tt.pos)
	}

	list, err := book.Find(ctx, "invalid key never stored")
	require.NoError(t, err)
	assert.Empty(t, list)
}
