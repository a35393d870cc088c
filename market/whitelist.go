// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package market

import (
	"github.com/vechain/auditmarket/audit"
	"github.com/vechain/auditmarket/store"
)

// Authorizer gates privileged market operations. Checked once at the
// operation boundary, never inside the subsystems.
type Authorizer interface {
	Authorized(acc audit.Account) (bool, error)
}

// Whitelist is a storage backed Authorizer.
type Whitelist struct {
	entries *store.Mapping[audit.Account, bool]
}

var _ Authorizer = (*Whitelist)(nil)

// NewWhitelist creates a whitelist on the given context, pre-authorizing the
// listed accounts.
func NewWhitelist(ctx *store.Context, initial ...audit.Account) (*Whitelist, error) {
	w := &Whitelist{entries: store.NewMapping[audit.Account, bool](ctx, "whitelist")}
	for _, acc := range initial {
		if err := w.Add(acc); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Authorized returns whether the account is whitelisted.
func (w *Whitelist) Authorized(acc audit.Account) (bool, error) {
	return w.entries.Get(acc)
}

// Add whitelists the account.
func (w *Whitelist) Add(acc audit.Account) error {
	return w.entries.Set(acc, true)
}

// Remove revokes the account.
func (w *Whitelist) Remove(acc audit.Account) error {
	return w.entries.Delete(acc)
}
