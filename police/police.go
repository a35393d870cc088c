// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package police runs the verification workflow: sampling verifiers for each
// completed report, collecting verdicts, slashing workers on invalidation and
// gating reward release behind the policing window.
package police

import (
	"fmt"
	"math/big"

	"github.com/vechain/auditmarket/audit"
	"github.com/vechain/auditmarket/sortlist"
	"github.com/vechain/auditmarket/store"
)

// Config carries the policing parameters.
type Config struct {
	// PoliceCount is the number of verifiers sampled per report.
	PoliceCount uint32
	// PolicingTimeout is the verdict window in blocks.
	PolicingTimeout uint32
	// SlashPercentage of the minimum stake forfeited on invalidation.
	SlashPercentage uint32
}

// Slasher executes stake forfeiture on invalidated workers.
type Slasher interface {
	Slash(acc audit.Account, percentage uint32) (*big.Int, error)
}

// PayFunc transfers a reward or fee share. A failing transfer aborts the
// enclosing operation before any record is touched.
type PayFunc func(to audit.Account, amount *big.Int) error

// Workflow is the policing state machine.
type Workflow struct {
	cfg     Config
	ctx     *store.Context
	slasher Slasher

	roster       *sortlist.List // registered verifiers
	lastAssigned *store.Uint64  // round-robin rotation pointer
	verdicts     *store.Mapping[audit.RequestID, *Verdict]
}

// New creates a policing workflow on the given context.
func New(ctx *store.Context, slasher Slasher, cfg Config) *Workflow {
	return &Workflow{
		cfg:          cfg,
		ctx:          ctx,
		slasher:      slasher,
		roster:       sortlist.New(ctx, "roster"),
		lastAssigned: store.NewUint64(ctx, "last-assigned"),
		verdicts:     store.NewMapping[audit.RequestID, *Verdict](ctx, "verdicts"),
	}
}

// verifierJobs returns the open assignments of one verifier.
func (w *Workflow) verifierJobs(acc audit.Account) *sortlist.List {
	return sortlist.New(w.ctx, fmt.Sprintf("vjobs.%d", uint64(acc)))
}

// requestVerifiers returns the verifiers assigned to one request.
func (w *Workflow) requestVerifiers(id audit.RequestID) *sortlist.List {
	return sortlist.New(w.ctx, fmt.Sprintf("rpolice.%d", uint64(id)))
}

// pendingPayments returns the unclaimed rewards of one worker, oldest first.
func (w *Workflow) pendingPayments(acc audit.Account) *sortlist.List {
	return sortlist.New(w.ctx, fmt.Sprintf("pending.%d", uint64(acc)))
}

// AddVerifier registers a verifier at the tail of the roster.
func (w *Workflow) AddVerifier(acc audit.Account) (bool, error) {
	return w.roster.Append(uint64(acc))
}

// RemoveVerifier removes a verifier from the roster. When the rotation
// pointer sits on the removed entry it is redirected to the successor, so
// the round robin stays well-defined after churn.
func (w *Workflow) RemoveVerifier(acc audit.Account) (bool, error) {
	exists, err := w.roster.Exists(uint64(acc))
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	last, err := w.lastAssigned.Get()
	if err != nil {
		return false, err
	}
	if last == uint64(acc) {
		succ, _, err := w.roster.Adjacent(uint64(acc), sortlist.Forward)
		if err != nil {
			return false, err
		}
		if err := w.lastAssigned.Set(succ); err != nil {
			return false, err
		}
	}
	if _, err := w.roster.Remove(uint64(acc)); err != nil {
		return false, err
	}
	return true, nil
}

// Verifiers lists the roster in index order.
func (w *Workflow) Verifiers() ([]audit.Account, error) {
	keys, err := w.roster.Keys()
	if err != nil {
		return nil, err
	}
	accs := make([]audit.Account, 0, len(keys))
	for _, k := range keys {
		accs = append(accs, audit.Account(k))
	}
	return accs, nil
}

// VerifierCount returns the roster size.
func (w *Workflow) VerifierCount() (uint64, error) {
	return w.roster.Len()
}

// Verdict returns the policing record of the request.
func (w *Workflow) Verdict(id audit.RequestID) (*Verdict, error) {
	v, err := w.verdicts.Get(id)
	if err != nil {
		return nil, err
	}
	if v.IsEmpty() {
		return nil, errUnknownRequest
	}
	return v, nil
}

// Assign samples up to PoliceCount verifiers for the reported request by
// round robin from the rotation pointer, registers the worker's pending
// payout and opens the policing window. A request is assigned at most once.
func (w *Workflow) Assign(id audit.RequestID, worker audit.Account, payout *big.Int, block uint32) ([]audit.Account, error) {
	existing, err := w.verdicts.Get(id)
	if err != nil {
		return nil, err
	}
	if existing.Assigned {
		return nil, errAlreadyAssigned
	}

	count, err := w.roster.Len()
	if err != nil {
		return nil, err
	}
	want := uint64(w.cfg.PoliceCount)
	if count < want {
		want = count
	}

	cursor, err := w.lastAssigned.Get()
	if err != nil {
		return nil, err
	}
	selected := make([]audit.Account, 0, want)
	for uint64(len(selected)) < want {
		next, _, err := w.roster.Adjacent(cursor, sortlist.Forward)
		if err != nil {
			return nil, err
		}
		if next == 0 {
			// wrap around past the tail
			next, _, err = w.roster.Adjacent(0, sortlist.Forward)
			if err != nil {
				return nil, err
			}
			if next == 0 {
				break
			}
		}
		selected = append(selected, audit.Account(next))
		cursor = next
	}

	for _, v := range selected {
		if _, err := w.verifierJobs(v).Append(uint64(id)); err != nil {
			return nil, err
		}
		if _, err := w.requestVerifiers(id).Append(uint64(v)); err != nil {
			return nil, err
		}
	}
	if len(selected) > 0 {
		if err := w.lastAssigned.Set(cursor); err != nil {
			return nil, err
		}
	}

	if _, err := w.pendingPayments(worker).Append(uint64(id)); err != nil {
		return nil, err
	}
	verdict := &Verdict{
		Worker:   worker,
		Payout:   payout,
		Deadline: block + w.cfg.PolicingTimeout,
		Result:   ResultUnverified,
		Assigned: true,
	}
	if err := w.verdicts.Set(id, verdict); err != nil {
		return nil, err
	}
	return selected, nil
}

// purgeExpired drops assignments of the verifier whose policing window has
// closed. Returns whether the given request was among the purged ones.
func (w *Workflow) purgeExpired(verifier audit.Account, id audit.RequestID, block uint32) (bool, error) {
	jobs := w.verifierJobs(verifier)
	keys, err := jobs.Keys()
	if err != nil {
		return false, err
	}
	purgedSelf := false
	for _, key := range keys {
		verdict, err := w.verdicts.Get(audit.RequestID(key))
		if err != nil {
			return false, err
		}
		if block <= verdict.Deadline {
			continue
		}
		if _, err := jobs.Remove(key); err != nil {
			return false, err
		}
		if _, err := w.requestVerifiers(audit.RequestID(key)).Remove(uint64(verifier)); err != nil {
			return false, err
		}
		if audit.RequestID(key) == id {
			purgedSelf = true
		}
	}
	return purgedSelf, nil
}

// SubmitVerification records one verifier's verdict. The aggregated result is
// sticky-invalid: the first invalid verdict removes the worker's pending
// payout and slashes its stake, exactly once per request; later verdicts
// cannot restore validity.
func (w *Workflow) SubmitVerification(verifier, worker audit.Account, id audit.RequestID, valid bool, block uint32) error {
	purgedSelf, err := w.purgeExpired(verifier, id, block)
	if err != nil {
		return err
	}
	if purgedSelf {
		return errPeriodExceeded
	}

	jobs := w.verifierJobs(verifier)
	assigned, err := jobs.Exists(uint64(id))
	if err != nil {
		return err
	}
	if !assigned {
		return errNotAssigned
	}

	verdict, err := w.Verdict(id)
	if err != nil {
		return err
	}
	if verdict.Worker != worker {
		return errWorkerMismatch
	}

	if _, err := jobs.Remove(uint64(id)); err != nil {
		return err
	}
	if _, err := w.requestVerifiers(id).Remove(uint64(verifier)); err != nil {
		return err
	}

	if verdict.Result != ResultInvalid {
		if valid {
			verdict.Result = ResultValid
		} else {
			// fresh invalidation: drop the pending payout and slash, once
			if _, err := w.pendingPayments(worker).Remove(uint64(id)); err != nil {
				return err
			}
			if _, err := w.slasher.Slash(worker, w.cfg.SlashPercentage); err != nil {
				return err
			}
			verdict.Result = ResultInvalid
		}
	}
	return w.verdicts.Set(id, verdict)
}

// CanClaim returns whether the worker may claim the reward of the request:
// still pending, policing window closed, not invalidated, not yet claimed.
func (w *Workflow) CanClaim(worker audit.Account, id audit.RequestID, block uint32) (bool, error) {
	if id.IsZero() {
		return false, nil
	}
	verdict, err := w.verdicts.Get(id)
	if err != nil {
		return false, err
	}
	if !verdict.Assigned || verdict.Claimed || verdict.Result == ResultInvalid {
		return false, nil
	}
	if block <= verdict.Deadline {
		return false, nil
	}
	pending, err := w.pendingPayments(worker).Exists(uint64(id))
	if err != nil {
		return false, err
	}
	return pending, nil
}

// ClaimNext releases the oldest claimable reward of the worker. The payment
// runs before any record changes, so a failing transfer leaves all state
// untouched. A record still unverified at claim time is marked expired.
func (w *Workflow) ClaimNext(worker audit.Account, block uint32, pay PayFunc) (audit.RequestID, error) {
	pending := w.pendingPayments(worker)
	keys, err := pending.Keys()
	if err != nil {
		return 0, err
	}
	for _, key := range keys {
		id := audit.RequestID(key)
		ok, err := w.CanClaim(worker, id, block)
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}
		verdict, err := w.Verdict(id)
		if err != nil {
			return 0, err
		}
		if err := pay(worker, verdict.Payout); err != nil {
			return 0, err
		}
		if verdict.Result == ResultUnverified {
			verdict.Result = ResultExpired
		}
		verdict.Claimed = true
		if err := w.verdicts.Set(id, verdict); err != nil {
			return 0, err
		}
		if _, err := pending.Remove(key); err != nil {
			return 0, err
		}
		return id, nil
	}
	return 0, errNothingToClaim
}

// ClaimAll releases claimable rewards oldest first until the pending list is
// exhausted or the work budget runs out. Returns the claimed ids and whether
// the list was fully drained; a partial run resumes safely later since
// claimed entries leave the list.
func (w *Workflow) ClaimAll(worker audit.Account, block uint32, budget int, pay PayFunc) ([]audit.RequestID, bool, error) {
	var claimed []audit.RequestID
	for budget > 0 {
		id, err := w.ClaimNext(worker, block, pay)
		if err != nil {
			if IsErrNothingToClaim(err) {
				return claimed, true, nil
			}
			return claimed, false, err
		}
		claimed = append(claimed, id)
		budget--
	}
	return claimed, false, nil
}

// SplitFee divides the amount evenly among all registered verifiers. The
// integer division remainder goes entirely to the most recently assigned
// verifier (the first one when the rotation never ran), so the sum of the
// payments equals the amount exactly.
func (w *Workflow) SplitFee(amount *big.Int, pay PayFunc) error {
	count, err := w.roster.Len()
	if err != nil {
		return err
	}
	if count == 0 {
		return errNoVerifiers
	}

	share, remainder := new(big.Int).DivMod(amount, new(big.Int).SetUint64(count), new(big.Int))

	designated, err := w.lastAssigned.Get()
	if err != nil {
		return err
	}
	if designated == 0 {
		designated, _, err = w.roster.Adjacent(0, sortlist.Forward)
		if err != nil {
			return err
		}
	}

	verifiers, err := w.roster.Keys()
	if err != nil {
		return err
	}
	for _, v := range verifiers {
		cut := share
		if v == designated {
			cut = new(big.Int).Add(share, remainder)
		}
		if cut.Sign() == 0 {
			continue
		}
		if err := pay(audit.Account(v), cut); err != nil {
			return err
		}
	}
	return nil
}

// PendingPayments lists the unclaimed reward ids of the worker, oldest first.
func (w *Workflow) PendingPayments(worker audit.Account) ([]audit.RequestID, error) {
	keys, err := w.pendingPayments(worker).Keys()
	if err != nil {
		return nil, err
	}
	ids := make([]audit.RequestID, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, audit.RequestID(k))
	}
	return ids, nil
}

// AssignedVerifiers lists the verifiers still assigned to the request.
func (w *Workflow) AssignedVerifiers(id audit.RequestID) ([]audit.Account, error) {
	keys, err := w.requestVerifiers(id).Keys()
	if err != nil {
		return nil, err
	}
	accs := make([]audit.Account, 0, len(keys))
	for _, k := range keys {
		accs = append(accs, audit.Account(k))
	}
	return accs, nil
}
