// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/auditmarket/audit"
	"github.com/vechain/auditmarket/kv"
	"github.com/vechain/auditmarket/store"
)

const (
	alice audit.Account = 1
	bob   audit.Account = 2
)

func newTestToken(t *testing.T) *Token {
	db, err := kv.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(store.NewContext(db, "token"))
}

func TestMintAndBalance(t *testing.T) {
	tok := newTestToken(t)

	bal, err := tok.BalanceOf(alice)
	require.NoError(t, err)
	assert.Zero(t, bal.Sign())

	require.NoError(t, tok.Mint(alice, big.NewInt(100)))
	bal, err = tok.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), bal)
}

func TestTransfer(t *testing.T) {
	tok := newTestToken(t)
	require.NoError(t, tok.Mint(alice, big.NewInt(100)))

	require.NoError(t, tok.Transfer(alice, bob, big.NewInt(30)))

	aliceBal, err := tok.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(70), aliceBal)

	bobBal, err := tok.BalanceOf(bob)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(30), bobBal)

	err = tok.Transfer(alice, bob, big.NewInt(1000))
	assert.True(t, IsErrInsufficientBalance(err))
}

func TestSelfTransfer(t *testing.T) {
	tok := newTestToken(t)
	require.NoError(t, tok.Mint(alice, big.NewInt(100)))

	require.NoError(t, tok.Transfer(alice, alice, big.NewInt(40)))
	bal, err := tok.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), bal, "self transfer must not change the balance")

	err = tok.Transfer(alice, alice, big.NewInt(1000))
	assert.True(t, IsErrInsufficientBalance(err), "self transfer still checks funds")
}

func TestTransferFrom(t *testing.T) {
	tok := newTestToken(t)
	require.NoError(t, tok.Mint(alice, big.NewInt(100)))

	err := tok.TransferFrom(bob, alice, bob, big.NewInt(10))
	assert.True(t, IsErrInsufficientAllowance(err))

	require.NoError(t, tok.Approve(alice, bob, big.NewInt(50)))
	require.NoError(t, tok.TransferFrom(bob, alice, bob, big.NewInt(30)))

	allowance, err := tok.Allowance(alice, bob)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(20), allowance)

	bobBal, err := tok.BalanceOf(bob)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(30), bobBal)

	err = tok.TransferFrom(bob, alice, bob, big.NewInt(30))
	assert.True(t, IsErrInsufficientAllowance(err))
}
