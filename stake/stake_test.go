// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/auditmarket/audit"
	"github.com/vechain/auditmarket/kv"
	"github.com/vechain/auditmarket/store"
	"github.com/vechain/auditmarket/token"
)

const (
	escrow  audit.Account = 1
	worker  audit.Account = 2
	worker2 audit.Account = 3
	court   audit.Account = 4
)

var minStake = big.NewInt(1000)

func newTestLedger(t *testing.T) (*Ledger, *token.Token) {
	db, err := kv.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tok := token.New(store.NewContext(db, "token"))
	ledger := New(store.NewContext(db, "stake"), tok, escrow, minStake)

	for _, acc := range []audit.Account{worker, worker2} {
		require.NoError(t, tok.Mint(acc, big.NewInt(10000)))
		require.NoError(t, tok.Approve(acc, escrow, big.NewInt(10000)))
	}
	return ledger, tok
}

func TestDeposit(t *testing.T) {
	ledger, tok := newTestLedger(t)

	require.NoError(t, ledger.Deposit(worker, big.NewInt(1500)))

	entry, err := ledger.Get(worker)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1500), entry.Balance)

	escrowBal, err := tok.BalanceOf(escrow)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1500), escrowBal)

	count, err := ledger.StakedCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	err = ledger.Deposit(worker, big.NewInt(0))
	assert.Error(t, err)
}

func TestDepositWithoutApproval(t *testing.T) {
	db, err := kv.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tok := token.New(store.NewContext(db, "token"))
	ledger := New(store.NewContext(db, "stake"), tok, escrow, minStake)
	require.NoError(t, tok.Mint(worker, big.NewInt(5000)))

	err = ledger.Deposit(worker, big.NewInt(1000))
	assert.True(t, token.IsErrInsufficientAllowance(err))
}

func TestWithdraw(t *testing.T) {
	ledger, tok := newTestLedger(t)
	require.NoError(t, ledger.Deposit(worker, big.NewInt(1500)))

	amount, err := ledger.Withdraw(worker, 10)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1500), amount)

	workerBal, err := tok.BalanceOf(worker)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10000), workerBal)

	count, err := ledger.StakedCount()
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = ledger.Withdraw(worker, 10)
	assert.True(t, IsErrNothingStaked(err))
}

func TestWithdrawLocked(t *testing.T) {
	ledger, _ := newTestLedger(t)
	require.NoError(t, ledger.Deposit(worker, big.NewInt(1500)))
	require.NoError(t, ledger.Lock(worker, 100))

	_, err := ledger.Withdraw(worker, 99)
	assert.True(t, IsErrStakeLocked(err))

	// unlock block reached
	amount, err := ledger.Withdraw(worker, 100)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1500), amount)
}

func TestSlash(t *testing.T) {
	ledger, tok := newTestLedger(t)
	require.NoError(t, ledger.Deposit(worker, big.NewInt(1500)))

	// 20% of the minimum stake
	slashed, err := ledger.Slash(worker, 20, court)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(200), slashed)

	entry, err := ledger.Get(worker)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1300), entry.Balance)

	courtBal, err := tok.BalanceOf(court)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(200), courtBal)

	_, err = ledger.Slash(worker, 101, court)
	assert.Error(t, err)
}

func TestSlashClampsToBalance(t *testing.T) {
	ledger, _ := newTestLedger(t)
	require.NoError(t, ledger.Deposit(worker, big.NewInt(100)))

	slashed, err := ledger.Slash(worker, 100, court)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), slashed)

	// drained stakes leave the index
	count, err := ledger.StakedCount()
	require.NoError(t, err)
	assert.Zero(t, count)

	entry, err := ledger.Get(worker)
	require.NoError(t, err)
	assert.True(t, entry.IsEmpty())
}

func TestHasStake(t *testing.T) {
	ledger, _ := newTestLedger(t)

	ok, err := ledger.HasStake(worker)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, ledger.Deposit(worker, big.NewInt(999)))
	ok, err = ledger.HasStake(worker)
	require.NoError(t, err)
	assert.False(t, ok, "below the minimum stake")

	require.NoError(t, ledger.Deposit(worker, big.NewInt(1)))
	ok, err = ledger.HasStake(worker)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNextStaked(t *testing.T) {
	ledger, _ := newTestLedger(t)

	require.NoError(t, ledger.Deposit(worker, big.NewInt(500))) // under-staked
	require.NoError(t, ledger.Deposit(worker2, big.NewInt(2000)))

	next, err := ledger.NextStaked(0)
	require.NoError(t, err)
	assert.Equal(t, worker2, next, "under-staked accounts are skipped")

	next, err = ledger.NextStaked(worker2)
	require.NoError(t, err)
	assert.Zero(t, next)
}
