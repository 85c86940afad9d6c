package port

// WalletStore keeps the last validated wallet per user for the lifetime of
// the process.
type WalletStore interface {
	LastWallet(userID int64) (string, bool)
	SetLastWallet(userID int64, wallet string)
}
