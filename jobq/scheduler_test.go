// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package jobq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/auditmarket/audit"
	"github.com/vechain/auditmarket/kv"
	"github.com/vechain/auditmarket/store"
)

const (
	requester audit.Account = 1
	registrar audit.Account = 2
	worker    audit.Account = 3
	worker2   audit.Account = 4
)

var testConfig = Config{
	MinJobPrice:     10,
	AuditTimeout:    100,
	PolicingTimeout: 200,
	MaxAssignments:  2,
}

type fakeCollateral struct {
	staked map[audit.Account]bool
	locks  map[audit.Account]uint32
}

func (f *fakeCollateral) HasStake(acc audit.Account) (bool, error) {
	return f.staked[acc], nil
}

func (f *fakeCollateral) Lock(acc audit.Account, until uint32) error {
	f.locks[acc] = until
	return nil
}

func newTestScheduler(t *testing.T) (*Scheduler, *fakeCollateral) {
	db, err := kv.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	collateral := &fakeCollateral{
		staked: map[audit.Account]bool{worker: true, worker2: true},
		locks:  map[audit.Account]uint32{},
	}
	return New(store.NewContext(db, "jobq"), collateral, testConfig), collateral
}

func addRequest(t *testing.T, s *Scheduler, price uint64, block uint32) audit.RequestID {
	id, err := s.Add(requester, registrar, "audit://target", price, 0, block)
	require.NoError(t, err)
	return id
}

func TestAddChecksPrice(t *testing.T) {
	s, _ := newTestScheduler(t)

	_, err := s.Add(requester, registrar, "audit://target", 9, 0, 1)
	assert.True(t, IsErrPriceTooLow(err))

	_, err = s.Add(requester, registrar, "audit://target", 0, 0, 1)
	assert.True(t, IsErrPriceTooLow(err))
}

func TestAddAndQueueStats(t *testing.T) {
	s, _ := newTestScheduler(t)

	addRequest(t, s, 50, 1)
	addRequest(t, s, 20, 1)
	addRequest(t, s, 50, 2)

	length, err := s.QueueLength()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), length)

	stats, err := s.MinPriceStatistics()
	require.NoError(t, err)
	assert.Equal(t, uint64(20), stats.Min)
	assert.Equal(t, uint64(50), stats.Max)
	assert.Equal(t, uint64(2), stats.Tiers)
}

func TestGetUnknownRequest(t *testing.T) {
	s, _ := newTestScheduler(t)

	_, err := s.Get(99)
	assert.True(t, IsErrNotFound(err))
}

func TestNextPrefersHighestPrice(t *testing.T) {
	s, collateral := newTestScheduler(t)

	lowID := addRequest(t, s, 20, 1)
	highID := addRequest(t, s, 50, 1)

	id, req, err := s.Next(worker, 10)
	require.NoError(t, err)
	assert.Equal(t, highID, id)
	assert.Equal(t, uint64(50), req.Price)
	assert.Equal(t, StatusAssigned, req.Status)
	assert.Equal(t, worker, req.Worker)
	assert.Equal(t, uint32(10), req.AssignBlock)

	// stake locked past the policing window of the assignment
	assert.Equal(t, uint32(10+100+200), collateral.locks[worker])

	id, _, err = s.Next(worker, 11)
	require.NoError(t, err)
	assert.Equal(t, lowID, id)

	_, _, err = s.Next(worker2, 12)
	assert.True(t, IsErrQueueEmpty(err))
}

func TestNextFIFOWithinTier(t *testing.T) {
	s, _ := newTestScheduler(t)

	first := addRequest(t, s, 50, 1)
	second := addRequest(t, s, 50, 2)

	id, _, err := s.Next(worker, 10)
	require.NoError(t, err)
	assert.Equal(t, first, id)

	id, _, err = s.Next(worker2, 10)
	require.NoError(t, err)
	assert.Equal(t, second, id)
}

func TestNextRequiresStake(t *testing.T) {
	s, collateral := newTestScheduler(t)
	addRequest(t, s, 50, 1)

	collateral.staked[worker] = false
	_, _, err := s.Next(worker, 10)
	assert.True(t, IsErrInsufficientStake(err))
}

func TestNextAssignmentCap(t *testing.T) {
	s, _ := newTestScheduler(t)
	for i := 0; i < 3; i++ {
		addRequest(t, s, 50, 1)
	}

	_, _, err := s.Next(worker, 10)
	require.NoError(t, err)
	_, _, err = s.Next(worker, 11)
	require.NoError(t, err)

	_, _, err = s.Next(worker, 12)
	assert.True(t, IsErrTooManyAssignments(err))
}

func TestNextHonorsWorkerMinPrice(t *testing.T) {
	s, _ := newTestScheduler(t)
	addRequest(t, s, 50, 1)

	require.NoError(t, s.SetMinPrice(worker, 60))
	_, _, err := s.Next(worker, 10)
	assert.True(t, IsErrUnderpriced(err))

	require.NoError(t, s.SetMinPrice(worker, 50))
	_, _, err = s.Next(worker, 10)
	require.NoError(t, err)
}

func TestSubmitReport(t *testing.T) {
	s, _ := newTestScheduler(t)
	addRequest(t, s, 50, 1)

	id, _, err := s.Next(worker, 10)
	require.NoError(t, err)

	_, err = s.SubmitReport(worker2, id, true, 20)
	assert.True(t, IsErrWrongCaller(err))

	req, err := s.SubmitReport(worker, id, true, 20)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, req.Status)
	assert.Equal(t, uint32(20), req.ReportBlock)

	// the worker slot is free again
	profile, err := s.Profile(worker)
	require.NoError(t, err)
	assert.Zero(t, profile.Assignments)

	_, err = s.SubmitReport(worker, id, true, 21)
	assert.True(t, IsErrWrongState(err))
}

func TestSubmitFailureReport(t *testing.T) {
	s, _ := newTestScheduler(t)
	addRequest(t, s, 50, 1)

	id, _, err := s.Next(worker, 10)
	require.NoError(t, err)

	req, err := s.SubmitReport(worker, id, false, 20)
	require.NoError(t, err)
	assert.Equal(t, StatusError, req.Status)
}

func TestLateReportExpires(t *testing.T) {
	s, _ := newTestScheduler(t)
	addRequest(t, s, 50, 1)

	id, _, err := s.Next(worker, 10)
	require.NoError(t, err)

	// deadline is assign block + audit timeout
	_, err = s.SubmitReport(worker, id, true, 111)
	assert.True(t, IsErrAuditExpired(err))

	req, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, req.Status)

	profile, err := s.Profile(worker)
	require.NoError(t, err)
	assert.Zero(t, profile.Assignments)
}

func TestStaleAssignmentExpiresLazily(t *testing.T) {
	s, _ := newTestScheduler(t)
	stale := addRequest(t, s, 50, 1)
	fresh := addRequest(t, s, 40, 1)

	id, _, err := s.Next(worker, 10)
	require.NoError(t, err)
	assert.Equal(t, stale, id)

	// far past the stale deadline, the next scheduling pass reconciles it
	id, _, err = s.Next(worker2, 300)
	require.NoError(t, err)
	assert.Equal(t, fresh, id)

	req, err := s.Get(stale)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, req.Status)

	profile, err := s.Profile(worker)
	require.NoError(t, err)
	assert.Zero(t, profile.Assignments)
}

func TestRefundQueued(t *testing.T) {
	s, _ := newTestScheduler(t)
	id := addRequest(t, s, 50, 1)

	_, err := s.Refund(worker, id, 2)
	assert.True(t, IsErrWrongCaller(err))

	req, err := s.Refund(requester, id, 2)
	require.NoError(t, err)
	assert.Equal(t, StatusRefunded, req.Status)

	length, err := s.QueueLength()
	require.NoError(t, err)
	assert.Zero(t, length)

	// the price tier is gone as well
	stats, err := s.MinPriceStatistics()
	require.NoError(t, err)
	assert.Zero(t, stats.Tiers)

	_, err = s.Refund(requester, id, 3)
	assert.True(t, IsErrWrongState(err))
}

func TestRefundAssigned(t *testing.T) {
	s, _ := newTestScheduler(t)
	id := addRequest(t, s, 50, 1)

	_, _, err := s.Next(worker, 10)
	require.NoError(t, err)

	_, err = s.Refund(requester, id, 50)
	assert.True(t, IsErrStillAssigned(err))

	req, err := s.Refund(requester, id, 111)
	require.NoError(t, err)
	assert.Equal(t, StatusRefunded, req.Status)

	profile, err := s.Profile(worker)
	require.NoError(t, err)
	assert.Zero(t, profile.Assignments)
}

func TestRefundExpired(t *testing.T) {
	s, _ := newTestScheduler(t)
	id := addRequest(t, s, 50, 1)
	addRequest(t, s, 40, 1)

	_, _, err := s.Next(worker, 10)
	require.NoError(t, err)

	// lazy expiry runs on the next scheduling pass
	_, _, err = s.Next(worker2, 300)
	require.NoError(t, err)

	req, err := s.Refund(requester, id, 301)
	require.NoError(t, err)
	assert.Equal(t, StatusRefunded, req.Status)
}

func TestNextAssignmentTracksOldest(t *testing.T) {
	s, _ := newTestScheduler(t)
	first := addRequest(t, s, 50, 1)
	addRequest(t, s, 40, 1)

	head, err := s.NextAssignment()
	require.NoError(t, err)
	assert.Zero(t, head)

	id, _, err := s.Next(worker, 10)
	require.NoError(t, err)
	assert.Equal(t, first, id)

	_, _, err = s.Next(worker2, 11)
	require.NoError(t, err)

	head, err = s.NextAssignment()
	require.NoError(t, err)
	assert.Equal(t, first, head)

	_, err = s.SubmitReport(worker, first, true, 20)
	require.NoError(t, err)

	head, err = s.NextAssignment()
	require.NoError(t, err)
	assert.NotEqual(t, first, head)
}
