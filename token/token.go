// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token provides the fungible token ledger the market settles in.
package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/auditmarket/audit"
	"github.com/vechain/auditmarket/store"
)

var (
	errNegativeAmount        = errors.New("negative amount")
	errInsufficientBalance   = errors.New("insufficient balance")
	errInsufficientAllowance = errors.New("insufficient allowance")
)

// IsErrInsufficientBalance reports whether a transfer failed for lack of funds.
func IsErrInsufficientBalance(err error) bool {
	return errors.Cause(err) == errInsufficientBalance
}

// IsErrInsufficientAllowance reports whether a pull exceeded the approval.
func IsErrInsufficientAllowance(err error) bool {
	return errors.Cause(err) == errInsufficientAllowance
}

// Ledger is the transfer interface the market operates against.
// Implementations must reject transfers not covered by the sender balance.
type Ledger interface {
	BalanceOf(acc audit.Account) (*big.Int, error)
	Transfer(from, to audit.Account, amount *big.Int) error
	Approve(owner, spender audit.Account, amount *big.Int) error
	Allowance(owner, spender audit.Account) (*big.Int, error)
	// TransferFrom moves owner funds using the spender allowance.
	TransferFrom(spender, owner, to audit.Account, amount *big.Int) error
}

type pairKey [16]byte

func (k pairKey) Bytes() []byte { return k[:] }

func newPairKey(owner, spender audit.Account) pairKey {
	var k pairKey
	copy(k[:8], owner.Bytes())
	copy(k[8:], spender.Bytes())
	return k
}

// Token is a storage backed ledger implementation.
type Token struct {
	balances  *store.Mapping[audit.Account, *big.Int]
	approvals *store.Mapping[pairKey, *big.Int]
	supply    *store.Uint64
}

var _ Ledger = (*Token)(nil)

// New creates a token ledger on the given context.
func New(ctx *store.Context) *Token {
	return &Token{
		balances:  store.NewMapping[audit.Account, *big.Int](ctx, "balances"),
		approvals: store.NewMapping[pairKey, *big.Int](ctx, "approvals"),
		supply:    store.NewUint64(ctx, "supply"),
	}
}

// BalanceOf returns the balance of the account.
func (t *Token) BalanceOf(acc audit.Account) (*big.Int, error) {
	return t.balances.Get(acc)
}

// Mint credits the account, growing total supply. Used at genesis and in tests.
func (t *Token) Mint(acc audit.Account, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errNegativeAmount
	}
	bal, err := t.balances.Get(acc)
	if err != nil {
		return err
	}
	return t.balances.Set(acc, new(big.Int).Add(bal, amount))
}

// Transfer moves amount from one account to the other.
func (t *Token) Transfer(from, to audit.Account, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errNegativeAmount
	}
	if amount.Sign() == 0 {
		return nil
	}
	fromBal, err := t.balances.Get(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return errInsufficientBalance
	}
	if from == to {
		return nil
	}
	toBal, err := t.balances.Get(to)
	if err != nil {
		return err
	}
	if err := t.balances.Set(from, new(big.Int).Sub(fromBal, amount)); err != nil {
		return err
	}
	return t.balances.Set(to, new(big.Int).Add(toBal, amount))
}

// Approve grants the spender the right to pull up to amount from owner funds.
func (t *Token) Approve(owner, spender audit.Account, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errNegativeAmount
	}
	return t.approvals.Set(newPairKey(owner, spender), amount)
}

// Allowance returns the remaining approval of (owner, spender).
func (t *Token) Allowance(owner, spender audit.Account) (*big.Int, error) {
	return t.approvals.Get(newPairKey(owner, spender))
}

// TransferFrom moves owner funds using the spender allowance.
func (t *Token) TransferFrom(spender, owner, to audit.Account, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errNegativeAmount
	}
	allowance, err := t.approvals.Get(newPairKey(owner, spender))
	if err != nil {
		return err
	}
	if allowance.Cmp(amount) < 0 {
		return errInsufficientAllowance
	}
	if err := t.Transfer(owner, to, amount); err != nil {
		return err
	}
	return t.approvals.Set(newPairKey(owner, spender), new(big.Int).Sub(allowance, amount))
}
