package models

import "testing"

func TestValidAccountType(t *testing.T) {
	for _, typ := range []AccountType{AccountBank, AccountCreditCard, AccountDebt} {
		if !ValidAccountType(typ) {
			t.Errorf("%q rejected", typ)
		}
	}
	if ValidAccountType("brokerage") {
		t.Error("unknown type accepted")
	}
}

func TestAccountLimit(t *testing.T) {
	set := func(v int64) *int64 { return &v }
	cases := []struct {
		name    string
		acc     Account
		want    int64
		wantSet bool
	}{
		{"credit card with limit", Account{Type: AccountCreditCard, CreditLimit: set(10000)}, 10000, true},
		{"credit card no limit", Account{Type: AccountCreditCard}, 0, false},
		{"credit card zero limit", Account{Type: AccountCreditCard, CreditLimit: set(0)}, 0, false},
		{"bank ignores limit", Account{Type: AccountBank, CreditLimit: set(10000)}, 0, false},
		{"debt ignores limit", Account{Type: AccountDebt, CreditLimit: set(10000)}, 0, false},
	}
	for _, tc := range cases {
		got, ok := tc.acc.Limit()
		if got != tc.want || ok != tc.wantSet {
			t.Errorf("%s: got %d/%v, want %d/%v", tc.name, got, ok, tc.want, tc.wantSet)
		}
	}
}
