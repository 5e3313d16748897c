package tracker

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tagsplit/errs"
)

func TestTracker_Track(t *testing.T) {
	t.Run("distinct keys", func(t *testing.T) {
		tr := NewTracker()
		require.NoError(t, tr.Track(10, 0xaa, 0))
		require.NoError(t, tr.Track(20, 0xaa, 1))
		require.Equal(t, 2, tr.Len())
		require.Zero(t, tr.Duplicates())
	})

	t.Run("same key from two splits", func(t *testing.T) {
		tr := NewTracker()
		require.NoError(t, tr.Track(10, 0xaa, 0))

		err := tr.Track(10, 0xaa, 1)
		require.ErrorIs(t, err, errs.ErrDuplicateRecord)
		require.Contains(t, err.Error(), "split 0 and split 1")
		require.Equal(t, 1, tr.Duplicates())
		require.Equal(t, 1, tr.Len())
	})

	t.Run("same key with different payloads", func(t *testing.T) {
		tr := NewTracker()
		require.NoError(t, tr.Track(10, 0xaa, 0))

		err := tr.Track(10, 0xbb, 0)
		require.ErrorIs(t, err, errs.ErrDuplicateRecord)
		require.Contains(t, err.Error(), "different payloads")
	})
}

func TestTracker_Concurrent(t *testing.T) {
	tr := NewTracker()

	var wg sync.WaitGroup
	for owner := 0; owner < 8; owner++ {
		wg.Add(1)
		go func(owner int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				require.NoError(t, tr.Track(int64(owner*1000+i), uint64(i), owner))
			}
		}(owner)
	}
	wg.Wait()

	require.Equal(t, 800, tr.Len())
}
