// Package handlers provides HTTP handlers for the services across the
// application.
package handlers

import (
	"encoding/json"
	"net/http"

	stderrors "errors"

	"github.com/hodlport/wallet-api/errors"
	log "github.com/sirupsen/logrus"
)

// handleError maps application errors to HTTP statuses.
func handleError(rw http.ResponseWriter, err error) {
	log.WithFields(log.Fields{"error": err}).Warn("request failed")

	// An explicit RequestError wins over classification
	var reqErr *errors.RequestError
	if stderrors.As(err, &reqErr) {
		http.Error(rw, reqErr.Error(), reqErr.StatusCode)
		return
	}

	var txErr *errors.TransactionError

	switch {
	case errors.IsInvalidInput(err):
		http.Error(rw, err.Error(), http.StatusBadRequest)
	case stderrors.Is(err, errors.ErrWalletNotFound):
		http.Error(rw, err.Error(), http.StatusNotFound)
	case stderrors.Is(err, errors.ErrWalletExists):
		http.Error(rw, err.Error(), http.StatusConflict)
	case stderrors.As(err, &txErr):
		http.Error(rw, txErr.Error(), http.StatusUnprocessableEntity)
	case errors.IsNetworkError(err):
		http.Error(rw, "chain endpoint unavailable", http.StatusBadGateway)
	default:
		// Covers decryption failures too: no detail leaves the process
		http.Error(rw, "Error", http.StatusInternalServerError)
	}
}

// handleJsonResponse writes a JSON response with the given status.
func handleJsonResponse(rw http.ResponseWriter, status int, res interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	if err := json.NewEncoder(rw).Encode(res); err != nil {
		log.WithFields(log.Fields{"error": err}).Warn("writing response failed")
	}
}
