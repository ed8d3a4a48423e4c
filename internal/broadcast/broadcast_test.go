package broadcast

import (
	"context"
	"testing"

	"github.com/anonto42/nexus-social/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(b interface{ Subscribe(Handler) func() }) (*[]string, func()) {
	var got []string
	unsub := b.Subscribe(func(_ context.Context, topic string) {
		got = append(got, topic)
	})
	return &got, unsub
}

func TestHubSkipsPublisher(t *testing.T) {
	hub := NewHub()
	a := hub.Join("a")
	b := hub.Join("b")
	gotA, _ := collect(a)
	gotB, _ := collect(b)

	require.NoError(t, a.Publish(context.Background(), store.KeyPosts))

	assert.Empty(t, *gotA)
	assert.Equal(t, []string{store.KeyPosts}, *gotB)
}

func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub()
	a := hub.Join("a")
	b := hub.Join("b")
	got, unsub := collect(b)

	unsub()
	unsub()
	require.NoError(t, a.Publish(context.Background(), store.KeyUsers))

	assert.Empty(t, *got)
}

func TestHubClosedMemberStopsReceiving(t *testing.T) {
	hub := NewHub()
	a := hub.Join("a")
	b := hub.Join("b")
	got, _ := collect(b)

	require.NoError(t, b.Close())
	require.NoError(t, a.Publish(context.Background(), store.KeyUsers))

	assert.Empty(t, *got)
}

func TestWatcherSignalsForeignWrites(t *testing.T) {
	ctx := context.Background()
	sub := store.NewMemorySubstrate(0)
	mine := store.New(sub, "a")
	theirs := store.New(sub, "b")
	require.NoError(t, mine.Save(ctx, store.KeyUsers, []int{}))

	w := NewWatcher(sub, "a", 0)
	got, _ := collect(w)
	require.NoError(t, w.Poll(ctx))
	assert.Empty(t, *got, "first poll only records the baseline")

	require.NoError(t, mine.Save(ctx, store.KeyUsers, []int{1}))
	require.NoError(t, theirs.Save(ctx, store.KeyPosts, []int{2}))
	require.NoError(t, w.Poll(ctx))

	assert.Equal(t, []string{store.KeyPosts}, *got)

	require.NoError(t, w.Poll(ctx))
	assert.Len(t, *got, 1, "unchanged revisions are not signalled again")
}

func TestWatcherSignalsExternalEdits(t *testing.T) {
	ctx := context.Background()
	sub := store.NewMemorySubstrate(0)
	w := NewWatcher(sub, "a", 0)
	got, _ := collect(w)
	require.NoError(t, w.Poll(ctx))

	sub.Put(store.KeyClans, []byte(`[]`))
	require.NoError(t, w.Poll(ctx))

	assert.Equal(t, []string{store.KeyClans}, *got)
}
