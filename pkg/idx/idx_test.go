package idx_test

import (
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/oauth20/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewIsValid(t *testing.T) {
	id := idx.New()
	require.Len(t, id, 26)
	require.True(t, idx.Valid(id))
	require.False(t, idx.Valid("not-a-ulid"))
	require.False(t, idx.Valid(""))
}

func TestOrdering(t *testing.T) {
	a := idx.NewAt(time.Unix(1, 0))
	b := idx.NewAt(time.Unix(2, 0))
	require.Less(t, a, b)
}

func TestMonotonicWithinMillisecond(t *testing.T) {
	at := time.UnixMilli(1700000000000)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids []string
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := idx.NewAt(at)
			mu.Lock()
			ids = append(ids, id)
			mu.Unlock()
		}()
	}
	wg.Wait()

	seen := map[string]struct{}{}
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	require.Len(t, seen, len(ids), "ids must be unique")
}

func TestTimeExtraction(t *testing.T) {
	tm := time.Unix(1700000000, 0).UTC()
	got, err := idx.Time(idx.NewAt(tm))
	require.NoError(t, err)
	require.WithinDuration(t, tm, got, time.Millisecond)

	_, err = idx.Time("bogus")
	require.ErrorIs(t, err, idx.ErrInvalid)
}
