// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package jobq

import "github.com/pkg/errors"

var (
	errPriceTooLow        = errors.New("price below floor")
	errNotFound           = errors.New("unknown request")
	errWrongState         = errors.New("wrong request state")
	errWrongCaller        = errors.New("caller mismatch")
	errInsufficientStake  = errors.New("insufficient stake")
	errTooManyAssignments = errors.New("too many assignments")
	errQueueEmpty         = errors.New("queue empty")
	errUnderpriced        = errors.New("queue underpriced")
	errStillAssigned      = errors.New("assignment still running")
	errAuditExpired       = errors.New("audit expired")
)

func IsErrPriceTooLow(err error) bool {
	return errors.Cause(err) == errPriceTooLow
}

func IsErrNotFound(err error) bool {
	return errors.Cause(err) == errNotFound
}

func IsErrWrongState(err error) bool {
	return errors.Cause(err) == errWrongState
}

func IsErrWrongCaller(err error) bool {
	return errors.Cause(err) == errWrongCaller
}

func IsErrInsufficientStake(err error) bool {
	return errors.Cause(err) == errInsufficientStake
}

func IsErrTooManyAssignments(err error) bool {
	return errors.Cause(err) == errTooManyAssignments
}

func IsErrQueueEmpty(err error) bool {
	return errors.Cause(err) == errQueueEmpty
}

func IsErrUnderpriced(err error) bool {
	return errors.Cause(err) == errUnderpriced
}

func IsErrStillAssigned(err error) bool {
	return errors.Cause(err) == errStillAssigned
}

func IsErrAuditExpired(err error) bool {
	return errors.Cause(err) == errAuditExpired
}
