package handlers

import (
	"net/http"
	"time"

	"github.com/hodlport/wallet-api/wallets"
	"github.com/shopspring/decimal"
)

// Wallets is a HTTP server for wallet management.
// It provides create, details, remove, balances and transfer APIs.
// It uses a wallet service to interface with data and the chains.
type Wallets struct {
	service *wallets.Service
}

// TransferRequest represents a JSON payload for a transfer HTTP request.
type TransferRequest struct {
	Chain  string          `json:"chain"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// WalletResponse is the external view of a wallet.
type WalletResponse struct {
	UserID    string            `json:"userId"`
	Addresses wallets.Addresses `json:"addresses"`
	CreatedAt time.Time         `json:"createdAt"`
}

// CreateWalletResponse additionally carries the recovery phrase. It is
// included exactly once, in the response to the create request.
type CreateWalletResponse struct {
	WalletResponse
	RecoveryPhrase string `json:"recoveryPhrase"`
}

// NewWallets initiates a new wallets server.
func NewWallets(service *wallets.Service) *Wallets {
	return &Wallets{service}
}

func (s *Wallets) Create() http.Handler {
	return http.HandlerFunc(s.CreateFunc)
}

func (s *Wallets) Details() http.Handler {
	return http.HandlerFunc(s.DetailsFunc)
}

func (s *Wallets) Remove() http.Handler {
	return http.HandlerFunc(s.RemoveFunc)
}

func (s *Wallets) Balances() http.Handler {
	return http.HandlerFunc(s.BalancesFunc)
}

func (s *Wallets) CreateTransfer() http.Handler {
	return http.HandlerFunc(s.CreateTransferFunc)
}

func (s *Wallets) ListTransfers() http.Handler {
	return http.HandlerFunc(s.ListTransfersFunc)
}
