package testutils

import (
	"testing"

	"github.com/c2h5oh/datasize"
	"github.com/stretchr/testify/require"

	"github.com/adatrace/adatrace/agent/arena"
)

// NewArena creates a throwaway arena backed by a file in the test's temp
// directory and tears it down with the test.
func NewArena(t *testing.T, size datasize.ByteSize) *arena.Arena {
	t.Helper()

	dir := t.TempDir()
	a, err := arena.Create(dir, "arena", size)
	require.NoError(t, err)

	t.Cleanup(func() {
		a.Close()
	})

	return a
}

// ArenaPair creates one arena file and returns two independent mappings of
// it, imitating the producer and collector processes. The mappings share
// the backing pages but have distinct base addresses.
func ArenaPair(t *testing.T, size datasize.ByteSize) (*arena.Arena, *arena.Arena) {
	t.Helper()

	dir := t.TempDir()
	producer, err := arena.Create(dir, "arena", size)
	require.NoError(t, err)

	consumer, err := arena.Attach(dir, "arena")
	require.NoError(t, err)

	t.Cleanup(func() {
		consumer.Close()
		producer.Close()
	})

	return producer, consumer
}
