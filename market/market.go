// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package market composes the stake ledger, job scheduler and policing
// workflow into the externally visible audit market operations. Every
// operation runs under one mutex so state transitions observe a single
// global linearization order.
package market

import (
	"bytes"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/log"

	"github.com/vechain/auditmarket/audit"
	"github.com/vechain/auditmarket/jobq"
	"github.com/vechain/auditmarket/kv"
	"github.com/vechain/auditmarket/police"
	"github.com/vechain/auditmarket/reportdb"
	"github.com/vechain/auditmarket/stake"
	"github.com/vechain/auditmarket/store"
	"github.com/vechain/auditmarket/token"
)

var logger = log.New("pkg", "market")

// Market is the orchestrator of the audit marketplace.
type Market struct {
	mu  sync.Mutex
	cfg Config

	token   token.Ledger
	stakes  *stake.Ledger
	sched   *jobq.Scheduler
	police  *police.Workflow
	reports *reportdb.ReportDB
	auth    Authorizer
}

// slasher routes police slashes into the stake ledger, crediting the escrow.
type slasher struct {
	stakes      *stake.Ledger
	beneficiary audit.Account
}

func (s *slasher) Slash(acc audit.Account, percentage uint32) (*big.Int, error) {
	amount, err := s.stakes.Slash(acc, percentage, s.beneficiary)
	if err != nil {
		return nil, err
	}
	metricSlashCounter().Add(1)
	logger.Info("slashed worker", "worker", acc, "amount", amount)
	return amount, nil
}

// New creates the market over the given store, wiring all subsystems under
// their own namespaces.
func New(kvStore kv.GetPutter, tok token.Ledger, reports *reportdb.ReportDB, auth Authorizer, cfg Config) *Market {
	stakes := stake.New(store.NewContext(kvStore, "stake"), tok, cfg.Escrow, cfg.MinStake)
	sched := jobq.New(store.NewContext(kvStore, "jobq"), stakes, jobq.Config{
		MinJobPrice:     cfg.MinJobPrice,
		AuditTimeout:    cfg.AuditTimeout,
		PolicingTimeout: cfg.PolicingTimeout,
		MaxAssignments:  cfg.MaxAssignments,
	})
	pol := police.New(store.NewContext(kvStore, "police"), &slasher{stakes: stakes, beneficiary: cfg.Escrow}, police.Config{
		PoliceCount:     cfg.PoliceCount,
		PolicingTimeout: cfg.PolicingTimeout,
		SlashPercentage: cfg.SlashPercentage,
	})
	return &Market{
		cfg:     cfg,
		token:   tok,
		stakes:  stakes,
		sched:   sched,
		police:  pol,
		reports: reports,
		auth:    auth,
	}
}

// Config returns the market parameters.
func (m *Market) Config() Config {
	return m.cfg
}

func (m *Market) authorize(caller audit.Account) error {
	ok, err := m.auth.Authorized(caller)
	if err != nil {
		return err
	}
	if !ok {
		return errNotAuthorized
	}
	return nil
}

// Stake pulls amount from the caller onto its collateral balance. The caller
// must have approved the escrow on the token ledger.
func (m *Market) Stake(caller audit.Account, amount *big.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	logger.Debug("staking", "worker", caller, "amount", amount)
	if err := m.stakes.Deposit(caller, amount); err != nil {
		logger.Info("stake failed", "worker", caller, "error", err)
		return err
	}
	logger.Info("staked", "worker", caller, "amount", amount)
	return nil
}

// Unstake returns the caller's whole collateral, rejected while the stake is
// locked by an outstanding assignment.
func (m *Market) Unstake(caller audit.Account, block uint32) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	logger.Debug("unstaking", "worker", caller, "block", block)
	amount, err := m.stakes.Withdraw(caller, block)
	if err != nil {
		logger.Info("unstake failed", "worker", caller, "error", err)
		return nil, err
	}
	logger.Info("unstaked", "worker", caller, "amount", amount)
	return amount, nil
}

// SetMinPrice records the minimum price the worker accepts jobs at.
func (m *Market) SetMinPrice(caller audit.Account, price uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sched.SetMinPrice(caller, price)
}

// RequestJob escrows the price and enqueues an audit request on behalf of
// the requester. Only whitelisted registrars may submit requests.
func (m *Market) RequestJob(caller, requester audit.Account, uri string, price, priceHint uint64, block uint32) (audit.RequestID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	logger.Debug("requesting job", "registrar", caller, "requester", requester, "uri", uri, "price", price)
	if err := m.authorize(caller); err != nil {
		return 0, err
	}
	if err := m.sched.CheckPrice(price); err != nil {
		return 0, err
	}
	if err := m.token.TransferFrom(m.cfg.Escrow, requester, m.cfg.Escrow, new(big.Int).SetUint64(price)); err != nil {
		logger.Info("request escrow failed", "requester", requester, "error", err)
		return 0, err
	}
	id, err := m.sched.Add(requester, caller, uri, price, priceHint, block)
	if err != nil {
		return 0, err
	}
	m.updateQueuedGauge()
	logger.Info("job requested", "id", id, "price", price)
	return id, nil
}

// updateQueuedGauge refreshes the queued gauge from the authoritative count.
func (m *Market) updateQueuedGauge() {
	if n, err := m.sched.QueueLength(); err == nil {
		metricQueuedGauge().Set(int64(n))
	}
}

// Refund returns the escrowed price of a queued, expired, or timed out
// assigned request to its requester.
func (m *Market) Refund(caller audit.Account, id audit.RequestID, block uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	logger.Debug("refunding", "caller", caller, "id", id, "block", block)
	req, err := m.sched.Refund(caller, id, block)
	if err != nil {
		logger.Info("refund failed", "id", id, "error", err)
		return err
	}
	if err := m.token.Transfer(m.cfg.Escrow, caller, new(big.Int).SetUint64(req.Price)); err != nil {
		return err
	}
	m.updateQueuedGauge()
	metricRefundCounter().Add(1)
	logger.Info("refunded", "id", id, "amount", req.Price)
	return nil
}

// NextJob assigns the best queued request to the worker.
func (m *Market) NextJob(worker audit.Account, block uint32) (audit.RequestID, *jobq.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	logger.Debug("assigning job", "worker", worker, "block", block)
	id, req, err := m.sched.Next(worker, block)
	if err != nil {
		logger.Info("assignment failed", "worker", worker, "error", err)
		return 0, nil, err
	}
	m.updateQueuedGauge()
	metricAssignedCounter().Add(1)
	logger.Info("job assigned", "id", id, "worker", worker, "price", req.Price)
	return id, req, nil
}

// SubmitReport records the report of an assigned request, stores the
// payload, samples verifiers, registers the worker's pending payout and
// collects the verifier fee out of the escrowed price.
func (m *Market) SubmitReport(worker audit.Account, id audit.RequestID, success bool, payload []byte, block uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	logger.Debug("submitting report", "worker", worker, "id", id, "success", success)
	req, err := m.sched.SubmitReport(worker, id, success, block)
	if err != nil {
		logger.Info("report rejected", "id", id, "error", err)
		return err
	}
	if err := m.reports.Put(id, payload, block); err != nil {
		return err
	}

	verifierCount, err := m.police.VerifierCount()
	if err != nil {
		return err
	}
	fee := uint64(0)
	if m.cfg.FeePercentage > 0 && verifierCount > 0 {
		fee = req.Price * uint64(m.cfg.FeePercentage) / 100
	}
	payout := new(big.Int).SetUint64(req.Price - fee)

	verifiers, err := m.police.Assign(id, worker, payout, block)
	if err != nil {
		return err
	}
	if fee > 0 {
		if err := m.police.SplitFee(new(big.Int).SetUint64(fee), m.payFromEscrow); err != nil {
			return err
		}
	}
	metricReportCounter().AddWithLabel(1, map[string]string{"result": req.Status.String()})
	logger.Info("report submitted", "id", id, "status", req.Status, "verifiers", len(verifiers), "fee", fee)
	return nil
}

// SubmitVerification records a verifier's verdict over a reported request.
// The submitted payload must match the stored report.
func (m *Market) SubmitVerification(verifier, worker audit.Account, id audit.RequestID, payload []byte, valid bool, block uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	logger.Debug("submitting verification", "verifier", verifier, "id", id, "valid", valid)
	stored, err := m.reports.Get(id)
	if err != nil {
		return err
	}
	if !bytes.Equal(stored, payload) {
		return errReportMismatch
	}
	if err := m.police.SubmitVerification(verifier, worker, id, valid, block); err != nil {
		logger.Info("verification rejected", "verifier", verifier, "id", id, "error", err)
		return err
	}
	logger.Info("verification recorded", "verifier", verifier, "id", id, "valid", valid)
	return nil
}

func (m *Market) payFromEscrow(to audit.Account, amount *big.Int) error {
	return m.token.Transfer(m.cfg.Escrow, to, amount)
}

// ClaimReward releases the oldest claimable reward of the worker.
func (m *Market) ClaimReward(worker audit.Account, block uint32) (audit.RequestID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	logger.Debug("claiming reward", "worker", worker, "block", block)
	id, err := m.police.ClaimNext(worker, block, m.payFromEscrow)
	if err != nil {
		logger.Info("claim failed", "worker", worker, "error", err)
		return 0, err
	}
	metricClaimCounter().Add(1)
	logger.Info("reward claimed", "worker", worker, "id", id)
	return id, nil
}

// ClaimRewards releases claimable rewards oldest first within the work
// budget. Returns the claimed ids and whether the pending list was drained.
func (m *Market) ClaimRewards(worker audit.Account, budget int, block uint32) ([]audit.RequestID, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	claimed, done, err := m.police.ClaimAll(worker, block, budget, m.payFromEscrow)
	if err != nil {
		return claimed, done, err
	}
	metricClaimCounter().Add(int64(len(claimed)))
	logger.Info("rewards claimed", "worker", worker, "count", len(claimed), "done", done)
	return claimed, done, nil
}

// AddVerifier registers a verifier. Whitelisted callers only.
func (m *Market) AddVerifier(caller, verifier audit.Account) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.authorize(caller); err != nil {
		return false, err
	}
	added, err := m.police.AddVerifier(verifier)
	if err != nil {
		return false, err
	}
	if added {
		logger.Info("verifier added", "verifier", verifier)
	}
	return added, nil
}

// RemoveVerifier drops a verifier from the roster. Whitelisted callers only.
func (m *Market) RemoveVerifier(caller, verifier audit.Account) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.authorize(caller); err != nil {
		return false, err
	}
	removed, err := m.police.RemoveVerifier(verifier)
	if err != nil {
		return false, err
	}
	if removed {
		logger.Info("verifier removed", "verifier", verifier)
	}
	return removed, nil
}

//
// Read-only queries, pure traversals of the indexes.
//

// GetRequest returns the request record.
func (m *Market) GetRequest(id audit.RequestID) (*jobq.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sched.Get(id)
}

// QueueLength returns the number of queued requests.
func (m *Market) QueueLength() (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sched.QueueLength()
}

// MinPriceStatistics reports the lowest and highest queued price tiers.
func (m *Market) MinPriceStatistics() (*jobq.PriceStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sched.MinPriceStatistics()
}

// NextAssignment returns the oldest outstanding assignment, or 0.
func (m *Market) NextAssignment() (audit.RequestID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sched.NextAssignment()
}

// NextStakedWorker walks the staked index after the given account (0 starts
// at the head) and returns the next adequately staked worker, or 0.
func (m *Market) NextStakedWorker(after audit.Account) (audit.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stakes.NextStaked(after)
}

// StakeOf returns the collateral record of the account.
func (m *Market) StakeOf(acc audit.Account) (*stake.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stakes.Get(acc)
}

// WorkerProfile returns the scheduling profile of the worker.
func (m *Market) WorkerProfile(acc audit.Account) (*jobq.WorkerProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sched.Profile(acc)
}

// PendingPayments lists the unclaimed reward ids of the worker.
func (m *Market) PendingPayments(worker audit.Account) ([]audit.RequestID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.police.PendingPayments(worker)
}

// Verifiers lists the registered verifier roster.
func (m *Market) Verifiers() ([]audit.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.police.Verifiers()
}

// CanClaim returns whether the worker may claim the reward of the request.
func (m *Market) CanClaim(worker audit.Account, id audit.RequestID, block uint32) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.police.CanClaim(worker, id, block)
}

// Verdict returns the policing record of a reported request.
func (m *Market) Verdict(id audit.RequestID) (*police.Verdict, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.police.Verdict(id)
}
