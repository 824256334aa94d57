package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestRequestErrorUnwrap(t *testing.T) {
	reqErr := &RequestError{
		StatusCode: http.StatusConflict,
		Err:        ErrWalletExists,
	}

	if !stderrors.Is(reqErr, ErrWalletExists) {
		t.Error("expected RequestError to unwrap to ErrWalletExists")
	}

	if reqErr.Error() != ErrWalletExists.Error() {
		t.Errorf("unexpected error message: %s", reqErr.Error())
	}
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInputf("amount must be greater than 0, got %s", "-1")

	if !IsInvalidInput(err) {
		t.Error("expected IsInvalidInput to be true")
	}

	wrapped := fmt.Errorf("send: %w", err)
	if !IsInvalidInput(wrapped) {
		t.Error("expected IsInvalidInput to see through wrapping")
	}

	if IsInvalidInput(ErrWalletNotFound) {
		t.Error("expected IsInvalidInput to be false for unrelated error")
	}
}

func TestNetworkError(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := &NetworkError{Chain: "solana", Err: cause}

	if !IsNetworkError(err) {
		t.Error("expected IsNetworkError to be true")
	}

	if !stderrors.Is(err, cause) {
		t.Error("expected NetworkError to unwrap to its cause")
	}
}

func TestTransactionErrorMessage(t *testing.T) {
	err := &TransactionError{Chain: "ethereum", Detail: "insufficient funds"}

	want := "ethereum: transaction rejected: insufficient funds"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}

	bare := &TransactionError{Chain: "tron"}
	if bare.Error() != "tron: transaction rejected" {
		t.Errorf("unexpected message: %s", bare.Error())
	}
}
