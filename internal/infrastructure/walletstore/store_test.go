package walletstore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheWalletStore(t *testing.T) {
	store := NewCacheWalletStore(0)

	_, ok := store.LastWallet(42)
	assert.False(t, ok)

	store.SetLastWallet(42, "0xaaa")
	wallet, ok := store.LastWallet(42)
	assert.True(t, ok)
	assert.Equal(t, "0xaaa", wallet)

	store.SetLastWallet(42, "0xbbb")
	wallet, _ = store.LastWallet(42)
	assert.Equal(t, "0xbbb", wallet)

	_, ok = store.LastWallet(7)
	assert.False(t, ok)
}

func TestCacheWalletStore_Concurrent(t *testing.T) {
	store := NewCacheWalletStore(0)
	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			store.SetLastWallet(id, "0xabc")
			_, _ = store.LastWallet(id)
		}(i)
	}
	wg.Wait()

	for i := int64(0); i < 50; i++ {
		_, ok := store.LastWallet(i)
		assert.True(t, ok)
	}
}
