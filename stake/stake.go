// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stake keeps worker collateral: deposits, withdrawal locks and
// slashing. Funds live on the token ledger under the escrow account; this
// package only accounts for who owns what and when it may leave.
package stake

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/auditmarket/audit"
	"github.com/vechain/auditmarket/sortlist"
	"github.com/vechain/auditmarket/store"
	"github.com/vechain/auditmarket/token"
)

var (
	errNoDeposit     = errors.New("no deposit")
	errNothingStaked = errors.New("nothing staked")
	errStakeLocked   = errors.New("stake is locked")
	errBadPercentage = errors.New("percentage out of range")
)

// IsErrStakeLocked reports whether a withdrawal was rejected by a fund lock.
func IsErrStakeLocked(err error) bool {
	return errors.Cause(err) == errStakeLocked
}

// IsErrNothingStaked reports whether the account has no stake to withdraw.
func IsErrNothingStaked(err error) bool {
	return errors.Cause(err) == errNothingStaked
}

// Entry is the collateral record of one worker.
type Entry struct {
	Balance     *big.Int
	Locked      bool
	UnlockBlock uint32
}

// IsEmpty returns whether the entry can be treated as absent.
func (e *Entry) IsEmpty() bool {
	return (e.Balance == nil || e.Balance.Sign() == 0) && !e.Locked && e.UnlockBlock == 0
}

// Ledger tracks staked collateral per worker.
type Ledger struct {
	entries  *store.Mapping[audit.Account, *Entry]
	staked   *sortlist.List
	token    token.Ledger
	escrow   audit.Account
	minStake *big.Int
}

// New creates a stake ledger. Deposits are pulled into and paid out of the
// escrow account on the given token ledger.
func New(ctx *store.Context, tok token.Ledger, escrow audit.Account, minStake *big.Int) *Ledger {
	return &Ledger{
		entries:  store.NewMapping[audit.Account, *Entry](ctx, "entries"),
		staked:   sortlist.New(ctx, "staked"),
		token:    tok,
		escrow:   escrow,
		minStake: minStake,
	}
}

// MinStake returns the minimum collateral required for assignments.
func (l *Ledger) MinStake() *big.Int {
	return new(big.Int).Set(l.minStake)
}

// Get returns the collateral record of the account.
func (l *Ledger) Get(acc audit.Account) (*Entry, error) {
	entry, err := l.entries.Get(acc)
	if err != nil {
		return nil, errors.Wrap(err, "get stake entry")
	}
	if entry.Balance == nil {
		entry.Balance = new(big.Int)
	}
	return entry, nil
}

// Deposit pulls amount from the account onto its collateral balance, adding
// the account to the staked index when absent. The account must have approved
// the escrow beforehand.
func (l *Ledger) Deposit(acc audit.Account, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return errNoDeposit
	}
	if err := l.token.TransferFrom(l.escrow, acc, l.escrow, amount); err != nil {
		return err
	}
	entry, err := l.Get(acc)
	if err != nil {
		return err
	}
	entry.Balance = new(big.Int).Add(entry.Balance, amount)
	if err := l.entries.Set(acc, entry); err != nil {
		return err
	}
	if _, err := l.staked.Append(uint64(acc)); err != nil {
		return err
	}
	return nil
}

// Withdraw returns the whole collateral balance to the account and removes it
// from the staked index. Rejected while the stake is locked and the unlock
// block has not been reached.
func (l *Ledger) Withdraw(acc audit.Account, block uint32) (*big.Int, error) {
	entry, err := l.Get(acc)
	if err != nil {
		return nil, err
	}
	if entry.Balance.Sign() == 0 {
		return nil, errNothingStaked
	}
	if entry.Locked && block < entry.UnlockBlock {
		return nil, errStakeLocked
	}
	amount := entry.Balance
	if err := l.token.Transfer(l.escrow, acc, amount); err != nil {
		return nil, err
	}
	if err := l.entries.Delete(acc); err != nil {
		return nil, err
	}
	if _, err := l.staked.Remove(uint64(acc)); err != nil {
		return nil, err
	}
	return amount, nil
}

// Lock marks the stake locked until the given block. Called on every
// assignment so collateral stays slashable while a held job can still fail
// policing.
func (l *Ledger) Lock(acc audit.Account, until uint32) error {
	entry, err := l.Get(acc)
	if err != nil {
		return err
	}
	entry.Locked = true
	entry.UnlockBlock = until
	return l.entries.Set(acc, entry)
}

// Slash forfeits percentage of the minimum stake, clamped to the current
// balance, and transfers it to the beneficiary. A balance hitting zero drops
// the account from the staked index. Returns the slashed amount.
func (l *Ledger) Slash(acc audit.Account, percentage uint32, beneficiary audit.Account) (*big.Int, error) {
	if percentage > 100 {
		return nil, errBadPercentage
	}
	entry, err := l.Get(acc)
	if err != nil {
		return nil, err
	}
	slashed := new(big.Int).Mul(l.minStake, big.NewInt(int64(percentage)))
	slashed.Div(slashed, big.NewInt(100))
	if slashed.Cmp(entry.Balance) > 0 {
		slashed = new(big.Int).Set(entry.Balance)
	}

	entry.Balance = new(big.Int).Sub(entry.Balance, slashed)
	if entry.Balance.Sign() == 0 {
		if err := l.entries.Delete(acc); err != nil {
			return nil, err
		}
		if _, err := l.staked.Remove(uint64(acc)); err != nil {
			return nil, err
		}
	} else if err := l.entries.Set(acc, entry); err != nil {
		return nil, err
	}

	if err := l.token.Transfer(l.escrow, beneficiary, slashed); err != nil {
		return nil, err
	}
	return slashed, nil
}

// HasStake returns whether the account holds at least the minimum stake.
func (l *Ledger) HasStake(acc audit.Account) (bool, error) {
	entry, err := l.Get(acc)
	if err != nil {
		return false, err
	}
	return entry.Balance.Cmp(l.minStake) >= 0, nil
}

// NextStaked walks the staked index after the given account (0 starts at the
// head) and returns the next account whose balance meets the minimum stake,
// or 0 when none is left. Under-staked accounts stay indexed, they are only
// skipped, so lowering the threshold later brings them back.
func (l *Ledger) NextStaked(after audit.Account) (audit.Account, error) {
	cur := uint64(after)
	for {
		next, _, err := l.staked.Adjacent(cur, sortlist.Forward)
		if err != nil {
			return 0, err
		}
		if next == 0 {
			return 0, nil
		}
		ok, err := l.HasStake(audit.Account(next))
		if err != nil {
			return 0, err
		}
		if ok {
			return audit.Account(next), nil
		}
		cur = next
	}
}

// StakedCount returns the number of indexed accounts, under-staked included.
func (l *Ledger) StakedCount() (uint64, error) {
	return l.staked.Len()
}
