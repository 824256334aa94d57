package wallets

import (
	"context"
	"fmt"
	"sync"

	"github.com/hodlport/wallet-api/chains"
	"github.com/hodlport/wallet-api/configs"
	"github.com/hodlport/wallet-api/errors"
	"github.com/hodlport/wallet-api/keys"
	"github.com/hodlport/wallet-api/keys/encryption"
	"github.com/hodlport/wallet-api/transfers"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

// Service defines the API for wallet management.
type Service struct {
	store       Store
	transfers   transfers.Store
	crypter     encryption.Crypter
	adapters    map[chains.Family]chains.Adapter
	cfg         *configs.Config
	sendLimiter ratelimit.Limiter
}

func NewService(
	cfg *configs.Config,
	store Store,
	transferStore transfers.Store,
	crypter encryption.Crypter,
	adapters map[chains.Family]chains.Adapter,
) *Service {
	limiter := ratelimit.NewUnlimited()
	if cfg.TransferMaxSendRate > 0 {
		limiter = ratelimit.New(cfg.TransferMaxSendRate)
	}

	return &Service{
		store:       store,
		transfers:   transferStore,
		crypter:     crypter,
		adapters:    adapters,
		cfg:         cfg,
		sendLimiter: limiter,
	}
}

// Balance is one chain's native asset balance. Unavailable marks a
// chain whose endpoint did not answer; its amount is meaningless and a
// caller must not render it as zero funds.
type Balance struct {
	Chain       chains.Chain    `json:"chain"`
	Symbol      string          `json:"symbol"`
	Amount      decimal.Decimal `json:"amount"`
	Unavailable bool            `json:"unavailable,omitempty"`
}

// Create generates a wallet for the user: fresh recovery phrase, one
// derived address per chain family, phrase stored encrypted. The
// plaintext phrase is returned exactly once so the caller can show it;
// the caller must Destroy it. A user gets at most one wallet ever, the
// unique user index arbitrates concurrent attempts.
func (s *Service) Create(ctx context.Context, userID string) (*Wallet, keys.Phrase, error) {
	exists, err := s.store.HasWallet(userID)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, errors.ErrWalletExists
	}

	phrase, err := keys.GeneratePhrase()
	if err != nil {
		return nil, nil, err
	}

	seed, err := phrase.Seed()
	if err != nil {
		phrase.Destroy()
		return nil, nil, err
	}
	defer seed.Destroy()

	ethAddress, err := s.adapters[chains.FamilyEVM].DeriveAddress(seed)
	if err != nil {
		phrase.Destroy()
		return nil, nil, err
	}

	solanaAddress, err := s.adapters[chains.FamilySolana].DeriveAddress(seed)
	if err != nil {
		phrase.Destroy()
		return nil, nil, err
	}

	tronAddress, err := s.adapters[chains.FamilyTron].DeriveAddress(seed)
	if err != nil {
		phrase.Destroy()
		return nil, nil, err
	}

	encrypted, err := s.crypter.Encrypt(phrase)
	if err != nil {
		phrase.Destroy()
		return nil, nil, err
	}

	w := &Wallet{
		UserID:          userID,
		EncryptedPhrase: encrypted,
		EthAddress:      ethAddress,
		SolanaAddress:   solanaAddress,
		TronAddress:     tronAddress,
		IsActive:        true,
	}

	if err := s.store.InsertWallet(w); err != nil {
		phrase.Destroy()
		return nil, nil, err
	}

	log.
		WithFields(log.Fields{"userID": userID, "ethAddress": ethAddress}).
		Info("wallet created")

	return w, phrase, nil
}

// Details returns the user's active wallet.
func (s *Service) Details(ctx context.Context, userID string) (Wallet, error) {
	return s.store.ActiveWallet(userID)
}

// Balances fetches the native balance on every supported chain
// concurrently. Each query gets its own timeout; a chain whose endpoint
// fails is reported Unavailable while the others still return funds.
func (s *Service) Balances(ctx context.Context, userID string) ([]Balance, error) {
	w, err := s.store.ActiveWallet(userID)
	if err != nil {
		return nil, err
	}

	all := chains.All()
	results := make([]Balance, len(all))

	var wg sync.WaitGroup
	for i, c := range all {
		wg.Add(1)
		go func(i int, c chains.Chain) {
			defer wg.Done()
			results[i] = s.balance(ctx, c, w.AddressFor(c))
		}(i, c)
	}
	wg.Wait()

	return results, nil
}

func (s *Service) balance(ctx context.Context, c chains.Chain, address string) Balance {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ChainRequestTimeout)
	defer cancel()

	amount, err := s.adapters[c.Family()].Balance(ctx, c, address)
	if err != nil {
		log.
			WithFields(log.Fields{"chain": c, "error": err}).
			Warn("balance query failed")
		return Balance{Chain: c, Symbol: c.Symbol(), Unavailable: true}
	}

	return Balance{Chain: c, Symbol: c.Symbol(), Amount: amount}
}

// Send broadcasts a native asset transfer from the user's wallet and
// records it. The recovery phrase is decrypted for the duration of this
// call only.
func (s *Service) Send(ctx context.Context, userID string, chain chains.Chain, to string, amount decimal.Decimal) (*transfers.Transfer, error) {
	// Reject bad input before touching stored secrets
	if err := chains.ValidateAmount(amount); err != nil {
		return nil, err
	}

	w, err := s.store.ActiveWallet(userID)
	if err != nil {
		return nil, err
	}

	phrase, err := s.decryptPhrase(&w)
	if err != nil {
		return nil, err
	}
	defer phrase.Destroy()

	seed, err := phrase.Seed()
	if err != nil {
		return nil, err
	}
	defer seed.Destroy()

	s.sendLimiter.Take()

	hash, err := s.adapters[chain.Family()].Transfer(ctx, chain, seed, to, amount)
	if err != nil {
		return nil, err
	}

	t := &transfers.Transfer{
		UserID:    userID,
		Chain:     chain,
		Recipient: to,
		Amount:    amount,
		TxHash:    hash,
	}

	// The transfer is already on chain; a bookkeeping failure must not
	// be reported as a failed send.
	if err := s.transfers.InsertTransfer(t); err != nil {
		log.
			WithFields(log.Fields{"userID": userID, "txHash": hash, "error": err}).
			Error("broadcast transfer could not be recorded")
	}

	log.
		WithFields(log.Fields{"userID": userID, "chain": chain, "txHash": hash}).
		Info("transfer sent")

	return t, nil
}

// Transfers lists the user's recorded transfers, most recent first.
func (s *Service) Transfers(ctx context.Context, userID string) ([]transfers.Transfer, error) {
	if _, err := s.store.ActiveWallet(userID); err != nil {
		return nil, err
	}
	return s.transfers.TransfersForUser(userID)
}

// Remove deactivates the user's wallet. The encrypted phrase row is
// kept: removal is not key destruction, and the user can not create a
// replacement wallet afterwards.
func (s *Service) Remove(ctx context.Context, userID string) error {
	if err := s.store.DeactivateWallet(userID); err != nil {
		return err
	}

	log.WithFields(log.Fields{"userID": userID}).Info("wallet deactivated")
	return nil
}

func (s *Service) decryptPhrase(w *Wallet) (keys.Phrase, error) {
	plain, err := s.crypter.Decrypt(w.EncryptedPhrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrDecryption, err)
	}
	return keys.Phrase(plain), nil
}
