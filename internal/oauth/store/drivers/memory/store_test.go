package memory_test

import (
	"testing"

	"github.com/aussiebroadwan/oauth20/internal/oauth/store"
	"github.com/aussiebroadwan/oauth20/internal/oauth/store/drivers/memory"
	"github.com/aussiebroadwan/oauth20/internal/oauth/store/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return memory.NewStore()
	})
}
