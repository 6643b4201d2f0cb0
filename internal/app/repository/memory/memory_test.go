package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "voicescribe/internal/app/errors"
	"voicescribe/internal/app/model"
	"voicescribe/internal/app/repository"
)

func TestHistory_Interface(t *testing.T) {
	var _ repository.HistoryStore = (*History)(nil)
	var _ repository.Importer = (*History)(nil)
}

func TestHistory_AppendAndList(t *testing.T) {
	ctx := context.Background()
	h := New()

	empty, err := h.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for i := 1; i <= 5; i++ {
		rec, err := h.Append(ctx, fmt.Sprintf("t%d", i))
		require.NoError(t, err)
		assert.Equal(t, int64(i), rec.ID)
	}

	all, err := h.ListRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "t5", all[0].Text)
	assert.Equal(t, "t1", all[4].Text)

	top, err := h.ListRecent(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, all[:2], top)

	over, err := h.ListRecent(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, over, 5)
}

func TestHistory_SameInstantKeepsInsertionOrder(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	h := New().WithClock(repository.NewClock(func() time.Time { return at }))
	ctx := context.Background()

	a, _ := h.Append(ctx, "a")
	b, _ := h.Append(ctx, "b")
	assert.True(t, b.CreatedAt.After(a.CreatedAt))

	got, err := h.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, []string{got[0].Text, got[1].Text})
}

func TestHistory_ListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	h := New()
	_, _ = h.Append(ctx, "original")

	got, _ := h.ListRecent(ctx, 0)
	got[0].Text = "mutated"

	again, _ := h.ListRecent(ctx, 0)
	assert.Equal(t, "original", again[0].Text)
}

func TestHistory_Import(t *testing.T) {
	ctx := context.Background()
	h := New()
	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, h.Import(ctx, []model.Transcript{
		{ID: 10, Text: "older", CreatedAt: old},
		{ID: 11, Text: "newer", CreatedAt: old.Add(time.Hour)},
	}))

	rec, err := h.Append(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, int64(12), rec.ID)

	got, _ := h.ListRecent(ctx, 0)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{12, 11, 10}, []int64{got[0].ID, got[1].ID, got[2].ID})
}

func TestHistory_Concurrent(t *testing.T) {
	ctx := context.Background()
	h := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = h.Append(ctx, "x")
		}()
		go func() {
			defer wg.Done()
			_, _ = h.ListRecent(ctx, 10)
		}()
	}
	wg.Wait()

	all, err := h.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 50)
}

func TestHistory_Closed(t *testing.T) {
	ctx := context.Background()
	h := New()
	require.NoError(t, h.Close())

	_, err := h.Append(ctx, "x")
	assert.ErrorIs(t, err, apperrors.ErrStoreClosed)
	assert.ErrorIs(t, h.Ping(ctx), apperrors.ErrStoreClosed)
}
