// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package jobq implements the price prioritized audit request queue and its
// assignment rules. Prices form an ascending sorted index; requests of one
// price share a FIFO bucket. Assigned requests are tracked in a global
// assignment-order list whose head is lazily reconciled against the audit
// timeout.
package jobq

import (
	"fmt"

	"github.com/vechain/auditmarket/audit"
	"github.com/vechain/auditmarket/sortlist"
	"github.com/vechain/auditmarket/store"
)

// Config carries the scheduling parameters.
type Config struct {
	MinJobPrice     uint64
	AuditTimeout    uint32
	PolicingTimeout uint32
	MaxAssignments  uint32
}

// Collateral is the stake gate the scheduler checks and locks on assignment.
type Collateral interface {
	HasStake(acc audit.Account) (bool, error)
	Lock(acc audit.Account, until uint32) error
}

// Scheduler is the audit request queue.
type Scheduler struct {
	cfg        Config
	ctx        *store.Context
	collateral Collateral

	requests *store.Mapping[audit.RequestID, *Request]
	workers  *store.Mapping[audit.Account, *WorkerProfile]
	prices   *sortlist.List // ascending price tiers, tail is the maximum
	order    *sortlist.List // assigned requests, oldest first
	idSeq    *store.Uint64
	queued   *store.Uint64
}

// New creates a scheduler on the given context.
func New(ctx *store.Context, collateral Collateral, cfg Config) *Scheduler {
	return &Scheduler{
		cfg:        cfg,
		ctx:        ctx,
		collateral: collateral,
		requests:   store.NewMapping[audit.RequestID, *Request](ctx, "requests"),
		workers:    store.NewMapping[audit.Account, *WorkerProfile](ctx, "workers"),
		prices:     sortlist.New(ctx, "prices"),
		order:      sortlist.New(ctx, "order"),
		idSeq:      store.NewUint64(ctx, "request-id"),
		queued:     store.NewUint64(ctx, "queued"),
	}
}

// bucket returns the FIFO request list of one price tier.
func (s *Scheduler) bucket(price uint64) *sortlist.List {
	return sortlist.New(s.ctx, fmt.Sprintf("bucket.%d", price))
}

// Get returns the request record.
func (s *Scheduler) Get(id audit.RequestID) (*Request, error) {
	req, err := s.requests.Get(id)
	if err != nil {
		return nil, err
	}
	if req.IsEmpty() {
		return nil, errNotFound
	}
	return req, nil
}

// CheckPrice validates a candidate request price against the floor.
func (s *Scheduler) CheckPrice(price uint64) error {
	if price == 0 || price < s.cfg.MinJobPrice {
		return errPriceTooLow
	}
	return nil
}

// Add enqueues a new request at the given price. The price hint, when it
// names an existing tier close to the new price, keeps the sorted insert
// cheap. Returns the allocated request id.
func (s *Scheduler) Add(requester, registrar audit.Account, uri string, price, priceHint uint64, block uint32) (audit.RequestID, error) {
	if err := s.CheckPrice(price); err != nil {
		return 0, err
	}

	seq, err := s.idSeq.Inc()
	if err != nil {
		return 0, err
	}
	id := audit.RequestID(seq)

	exists, err := s.prices.Exists(price)
	if err != nil {
		return 0, err
	}
	if !exists {
		dir := sortlist.Forward
		if hintExists, err := s.prices.Exists(priceHint); err != nil {
			return 0, err
		} else if hintExists && priceHint > price {
			dir = sortlist.Backward
		}
		spot, err := s.prices.SortedSpot(priceHint, price, dir)
		if err != nil {
			return 0, err
		}
		if _, err := s.prices.Insert(spot, price, dir); err != nil {
			return 0, err
		}
	}
	if _, err := s.bucket(price).Append(uint64(id)); err != nil {
		return 0, err
	}
	if _, err := s.queued.Inc(); err != nil {
		return 0, err
	}

	req := &Request{
		Requester:    requester,
		Registrar:    registrar,
		URI:          uri,
		Price:        price,
		RequestBlock: block,
		Status:       StatusQueued,
	}
	if err := s.requests.Set(id, req); err != nil {
		return 0, err
	}
	return id, nil
}

// expireOne reconciles at most one stale entry at the head of the
// assignment-order list. Returns the expired request id, or 0.
func (s *Scheduler) expireOne(block uint32) (audit.RequestID, error) {
	head, _, err := s.order.Adjacent(0, sortlist.Forward)
	if err != nil {
		return 0, err
	}
	if head == 0 {
		return 0, nil
	}
	id := audit.RequestID(head)
	req, err := s.Get(id)
	if err != nil {
		return 0, err
	}
	if block <= req.Deadline(s.cfg.AuditTimeout) {
		return 0, nil
	}
	req.Status = StatusExpired
	if err := s.requests.Set(id, req); err != nil {
		return 0, err
	}
	if _, err := s.order.Remove(head); err != nil {
		return 0, err
	}
	if err := s.releaseWorker(req.Worker); err != nil {
		return 0, err
	}
	return id, nil
}

// Next assigns the best queued request to the worker: the highest price tier
// satisfying the worker's minimum price, oldest request first within the
// tier. The worker's stake is locked until the policing window of the new
// assignment can no longer slash it.
func (s *Scheduler) Next(worker audit.Account, block uint32) (audit.RequestID, *Request, error) {
	if _, err := s.expireOne(block); err != nil {
		return 0, nil, err
	}

	ok, err := s.collateral.HasStake(worker)
	if err != nil {
		return 0, nil, err
	}
	if !ok {
		return 0, nil, errInsufficientStake
	}

	profile, err := s.workers.Get(worker)
	if err != nil {
		return 0, nil, err
	}
	if profile.Assignments >= s.cfg.MaxAssignments {
		return 0, nil, errTooManyAssignments
	}

	top, _, err := s.prices.Adjacent(0, sortlist.Backward)
	if err != nil {
		return 0, nil, err
	}
	if top == 0 {
		return 0, nil, errQueueEmpty
	}
	if top < profile.MinPrice {
		return 0, nil, errUnderpriced
	}

	bucket := s.bucket(top)
	oldest, _, err := bucket.Adjacent(0, sortlist.Forward)
	if err != nil {
		return 0, nil, err
	}
	if _, err := bucket.Remove(oldest); err != nil {
		return 0, nil, err
	}
	if notEmpty, err := bucket.NotEmpty(); err != nil {
		return 0, nil, err
	} else if !notEmpty {
		if _, err := s.prices.Remove(top); err != nil {
			return 0, nil, err
		}
	}

	id := audit.RequestID(oldest)
	req, err := s.Get(id)
	if err != nil {
		return 0, nil, err
	}
	req.Status = StatusAssigned
	req.Worker = worker
	req.AssignBlock = block
	if err := s.requests.Set(id, req); err != nil {
		return 0, nil, err
	}

	profile.Assignments++
	if err := s.workers.Set(worker, profile); err != nil {
		return 0, nil, err
	}
	if _, err := s.order.Append(uint64(id)); err != nil {
		return 0, nil, err
	}
	if _, err := s.queued.Dec(); err != nil {
		return 0, nil, err
	}
	if err := s.collateral.Lock(worker, block+s.cfg.AuditTimeout+s.cfg.PolicingTimeout); err != nil {
		return 0, nil, err
	}
	return id, req, nil
}

// SubmitReport records the report outcome for an assigned request. A report
// arriving past the deadline expires the request instead and is rejected.
func (s *Scheduler) SubmitReport(worker audit.Account, id audit.RequestID, success bool, block uint32) (*Request, error) {
	req, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if req.Status != StatusAssigned {
		return nil, errWrongState
	}
	if req.Worker != worker {
		return nil, errWrongCaller
	}
	if block > req.Deadline(s.cfg.AuditTimeout) {
		req.Status = StatusExpired
		if err := s.requests.Set(id, req); err != nil {
			return nil, err
		}
		if _, err := s.order.Remove(uint64(id)); err != nil {
			return nil, err
		}
		if err := s.releaseWorker(worker); err != nil {
			return nil, err
		}
		return nil, errAuditExpired
	}

	if success {
		req.Status = StatusCompleted
	} else {
		req.Status = StatusError
	}
	req.ReportBlock = block
	if err := s.requests.Set(id, req); err != nil {
		return nil, err
	}
	if _, err := s.order.Remove(uint64(id)); err != nil {
		return nil, err
	}
	if err := s.releaseWorker(worker); err != nil {
		return nil, err
	}
	return req, nil
}

// Refund releases a request back to its requester. Queued and expired
// requests refund immediately; assigned ones only once the audit timeout has
// elapsed without a report.
func (s *Scheduler) Refund(requester audit.Account, id audit.RequestID, block uint32) (*Request, error) {
	req, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if req.Requester != requester {
		return nil, errWrongCaller
	}

	switch req.Status {
	case StatusQueued:
		bucket := s.bucket(req.Price)
		if _, err := bucket.Remove(uint64(id)); err != nil {
			return nil, err
		}
		if notEmpty, err := bucket.NotEmpty(); err != nil {
			return nil, err
		} else if !notEmpty {
			if _, err := s.prices.Remove(req.Price); err != nil {
				return nil, err
			}
		}
		if _, err := s.queued.Dec(); err != nil {
			return nil, err
		}
	case StatusAssigned:
		if block <= req.Deadline(s.cfg.AuditTimeout) {
			return nil, errStillAssigned
		}
		if _, err := s.order.Remove(uint64(id)); err != nil {
			return nil, err
		}
		if err := s.releaseWorker(req.Worker); err != nil {
			return nil, err
		}
	case StatusExpired:
		// already out of all indexes
	default:
		return nil, errWrongState
	}

	req.Status = StatusRefunded
	if err := s.requests.Set(id, req); err != nil {
		return nil, err
	}
	return req, nil
}

// SetMinPrice records the minimum price the worker accepts jobs at.
func (s *Scheduler) SetMinPrice(worker audit.Account, price uint64) error {
	profile, err := s.workers.Get(worker)
	if err != nil {
		return err
	}
	profile.MinPrice = price
	return s.workers.Set(worker, profile)
}

// Profile returns the scheduling profile of the worker.
func (s *Scheduler) Profile(worker audit.Account) (*WorkerProfile, error) {
	return s.workers.Get(worker)
}

func (s *Scheduler) releaseWorker(worker audit.Account) error {
	profile, err := s.workers.Get(worker)
	if err != nil {
		return err
	}
	if profile.Assignments > 0 {
		profile.Assignments--
	}
	return s.workers.Set(worker, profile)
}

// QueueLength returns the number of queued requests across all price tiers.
func (s *Scheduler) QueueLength() (uint64, error) {
	return s.queued.Get()
}

// PriceStats summarizes the price index.
type PriceStats struct {
	Min   uint64 `json:"min"`
	Max   uint64 `json:"max"`
	Tiers uint64 `json:"tiers"`
}

// MinPriceStatistics reports the lowest and highest queued price tiers.
func (s *Scheduler) MinPriceStatistics() (*PriceStats, error) {
	minPrice, _, err := s.prices.Adjacent(0, sortlist.Forward)
	if err != nil {
		return nil, err
	}
	maxPrice, _, err := s.prices.Adjacent(0, sortlist.Backward)
	if err != nil {
		return nil, err
	}
	tiers, err := s.prices.Len()
	if err != nil {
		return nil, err
	}
	return &PriceStats{Min: minPrice, Max: maxPrice, Tiers: tiers}, nil
}

// NextAssignment returns the oldest outstanding assignment, or 0.
func (s *Scheduler) NextAssignment() (audit.RequestID, error) {
	head, _, err := s.order.Adjacent(0, sortlist.Forward)
	if err != nil {
		return 0, err
	}
	return audit.RequestID(head), nil
}
