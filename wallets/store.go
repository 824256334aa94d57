package wallets

// Store manages data regarding wallets.
type Store interface {
	// InsertWallet stores a new wallet. A row for the same user, active
	// or not, makes it fail with errors.ErrWalletExists.
	InsertWallet(w *Wallet) error

	// ActiveWallet returns the user's active wallet, or
	// errors.ErrWalletNotFound.
	ActiveWallet(userID string) (Wallet, error)

	// HasWallet reports whether any wallet row exists for the user,
	// deactivated ones included.
	HasWallet(userID string) (bool, error)

	// DeactivateWallet clears the active flag. Returns
	// errors.ErrWalletNotFound when no active wallet exists.
	DeactivateWallet(userID string) error
}
