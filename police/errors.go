// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package police

import "github.com/pkg/errors"

var (
	errNoVerifiers     = errors.New("no verifiers registered")
	errAlreadyAssigned = errors.New("verifiers already assigned")
	errNotAssigned     = errors.New("verifier not assigned to request")
	errPeriodExceeded  = errors.New("submission period exceeded")
	errWorkerMismatch  = errors.New("worker mismatch")
	errUnknownRequest  = errors.New("unknown request")
	errNothingToClaim  = errors.New("nothing to claim")
)

func IsErrNoVerifiers(err error) bool {
	return errors.Cause(err) == errNoVerifiers
}

func IsErrAlreadyAssigned(err error) bool {
	return errors.Cause(err) == errAlreadyAssigned
}

func IsErrNotAssigned(err error) bool {
	return errors.Cause(err) == errNotAssigned
}

func IsErrPeriodExceeded(err error) bool {
	return errors.Cause(err) == errPeriodExceeded
}

func IsErrWorkerMismatch(err error) bool {
	return errors.Cause(err) == errWorkerMismatch
}

func IsErrUnknownRequest(err error) bool {
	return errors.Cause(err) == errUnknownRequest
}

func IsErrNothingToClaim(err error) bool {
	return errors.Cause(err) == errNothingToClaim
}
