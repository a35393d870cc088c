// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package market

import "github.com/pkg/errors"

var (
	errNotAuthorized  = errors.New("not authorized")
	errReportMismatch = errors.New("report payload mismatch")
)

func IsErrNotAuthorized(err error) bool {
	return errors.Cause(err) == errNotAuthorized
}

func IsErrReportMismatch(err error) bool {
	return errors.Cause(err) == errReportMismatch
}
