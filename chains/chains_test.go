package chains

import (
	"testing"

	"github.com/hodlport/wallet-api/errors"
	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	for _, c := range All() {
		parsed, err := Parse(string(c))
		if err != nil {
			t.Errorf("unexpected error for %q: %v", c, err)
		}
		if parsed != c {
			t.Errorf("got %q, want %q", parsed, c)
		}
	}

	for _, s := range []string{"", "bitcoin", "Ethereum", "eth"} {
		if _, err := Parse(s); err == nil {
			t.Errorf("expected error for %q", s)
		} else if !errors.IsInvalidInput(err) {
			t.Errorf("expected InvalidInputError for %q, got: %v", s, err)
		}
	}
}

func TestFamily(t *testing.T) {
	want := map[Chain]Family{
		ChainEthereum: FamilyEVM,
		ChainBSC:      FamilyEVM,
		ChainPolygon:  FamilyEVM,
		ChainSolana:   FamilySolana,
		ChainTron:     FamilyTron,
	}

	for c, f := range want {
		if c.Family() != f {
			t.Errorf("%s: got family %d, want %d", c, c.Family(), f)
		}
	}
}

func TestSymbol(t *testing.T) {
	for _, c := range All() {
		if c.Symbol() == "" {
			t.Errorf("%s has no symbol", c)
		}
	}
}

func TestValidateAmount(t *testing.T) {
	if err := ValidateAmount(decimal.NewFromFloat(0.5)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	for _, v := range []string{"0", "-1", "-0.000001"} {
		amount, err := decimal.NewFromString(v)
		if err != nil {
			t.Fatal(err)
		}
		if err := ValidateAmount(amount); !errors.IsInvalidInput(err) {
			t.Errorf("expected InvalidInputError for %s, got: %v", v, err)
		}
	}
}
