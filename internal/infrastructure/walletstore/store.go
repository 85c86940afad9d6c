package walletstore

import (
	"strconv"
	"time"

	"pepu_portfolio_bot/internal/app/port"

	"github.com/patrickmn/go-cache"
)

// cacheWalletStore implements port.WalletStore on an in-process cache.
// Entries never expire, so state lives exactly as long as the process.
type cacheWalletStore struct {
	wallets *cache.Cache
}

// NewCacheWalletStore creates a WalletStore. cleanupInterval only governs the
// cache janitor; a non-positive value disables it.
func NewCacheWalletStore(cleanupInterval time.Duration) port.WalletStore {
	return &cacheWalletStore{
		wallets: cache.New(cache.NoExpiration, cleanupInterval),
	}
}

// LastWallet returns the wallet on record for userID.
func (s *cacheWalletStore) LastWallet(userID int64) (string, bool) {
	v, found := s.wallets.Get(userKey(userID))
	if !found {
		return "", false
	}
	wallet, ok := v.(string)
	return wallet, ok
}

// SetLastWallet records wallet for userID, replacing any previous value.
func (s *cacheWalletStore) SetLastWallet(userID int64, wallet string) {
	s.wallets.Set(userKey(userID), wallet, cache.NoExpiration)
}

func userKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
