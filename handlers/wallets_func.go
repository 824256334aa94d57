package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hodlport/wallet-api/chains"
	"github.com/hodlport/wallet-api/errors"
)

// maxUserIDLength bounds the opaque external identifier.
const maxUserIDLength = 128

// userID reads the user identifier from the URL. The id is opaque to
// this service; only its length is constrained.
func userID(r *http.Request) (string, error) {
	id := mux.Vars(r)["userId"]
	if id == "" || len(id) > maxUserIDLength {
		return "", errors.InvalidInputf("invalid user id %q", id)
	}
	return id, nil
}

// Create generates a new wallet for the user.
// The recovery phrase appears in this response and nowhere else.
func (s *Wallets) CreateFunc(rw http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		handleError(rw, err)
		return
	}

	w, phrase, err := s.service.Create(r.Context(), id)
	if err != nil {
		handleError(rw, err)
		return
	}

	res := CreateWalletResponse{
		WalletResponse: WalletResponse{
			UserID:    w.UserID,
			Addresses: w.Addresses(),
			CreatedAt: w.CreatedAt,
		},
		RecoveryPhrase: phrase.String(),
	}
	phrase.Destroy()

	handleJsonResponse(rw, http.StatusCreated, res)
}

// Details returns the addresses of the user's wallet.
func (s *Wallets) DetailsFunc(rw http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		handleError(rw, err)
		return
	}

	w, err := s.service.Details(r.Context(), id)
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, WalletResponse{
		UserID:    w.UserID,
		Addresses: w.Addresses(),
		CreatedAt: w.CreatedAt,
	})
}

// Remove deactivates the user's wallet.
func (s *Wallets) RemoveFunc(rw http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		handleError(rw, err)
		return
	}

	if err := s.service.Remove(r.Context(), id); err != nil {
		handleError(rw, err)
		return
	}

	rw.WriteHeader(http.StatusNoContent)
}

// Balances returns the native balance on every supported chain.
func (s *Wallets) BalancesFunc(rw http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		handleError(rw, err)
		return
	}

	res, err := s.service.Balances(r.Context(), id)
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}

// CreateTransfer sends a native asset transfer from the user's wallet.
func (s *Wallets) CreateTransferFunc(rw http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		handleError(rw, err)
		return
	}

	var req TransferRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil {
		handleError(rw, errors.InvalidInputf("invalid request body"))
		return
	}

	chain, err := chains.Parse(req.Chain)
	if err != nil {
		handleError(rw, err)
		return
	}

	t, err := s.service.Send(r.Context(), id, chain, req.To, req.Amount)
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusCreated, t)
}

// ListTransfers returns the user's recorded transfers.
func (s *Wallets) ListTransfersFunc(rw http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		handleError(rw, err)
		return
	}

	res, err := s.service.Transfers(r.Context(), id)
	if err != nil {
		handleError(rw, err)
		return
	}

	handleJsonResponse(rw, http.StatusOK, res)
}
