package book_test

import (
	"context"
	"testing"

	"github.com/herohde/shogo/pkg/book"
	"github.com/herohde/shogo/pkg/engine"
	"github.com/herohde/shogo/pkg/shogi/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB(t *testing.T) {
	ctx := context.Background()

	db, err := book.Open(t.TempDir())
	require.NoError(t, err)
	defer db.Close()

	err = book.Import(ctx, db, []engine.Line{
		{"7g7f", "3c3d", "2g2f"},
		{"7g7f", "8c8d"},
		{"2g2f", "8c8d"},
	})
	require.NoError(t, err)

	list, err := db.Find(ctx, fen.Initial)
	require.NoError(t, err)

	var got []string
	for _, m := range list {
		got = append(got, m.String())
	}
	assert.Equal(t, []string{"7g7f", "2g2f"}, got)

	miss, err := db.Find(ctx, "invalid key never stored")
	require.NoError(t, err)
	assert.Empty(t, miss)
}

func TestDBAsEngineBook(t *testing.T) {
	db, err := book.Open(t.TempDir())
	require.NoError(t, err)
	defer db.Close()

	var _ engine.Book = db
}
