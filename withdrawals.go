// Copyright 2021 Matt Ho
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package txplan

import (
	"context"
	"fmt"

	"github.com/cardanokit/txplan/ouroboros/num"
	"github.com/cardanokit/txplan/txbuilder"
)

// DelegationQuerier supplies reward account state. Satisfied by Client.
type DelegationQuerier interface {
	GetDelegation(ctx context.Context, rewardAddress string) (Delegation, error)
}

// ResolveWithdrawals replaces the "all available rewards" marker (-1) with
// the live reward account balance. The planner requires concrete amounts.
func ResolveWithdrawals(
	ctx context.Context,
	querier DelegationQuerier,
	withdrawals []txbuilder.TxOut,
) ([]txbuilder.TxOut, error) {
	resolved := make([]txbuilder.TxOut, 0, len(withdrawals))
	for _, rec := range withdrawals {
		if rec.Amount.Equal(num.Int64(-1)) {
			delegation, err := querier.GetDelegation(ctx, rec.Address)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve withdrawal for %v: %w", rec.Address, err)
			}
			rec.Amount = delegation.Rewards
		}
		resolved = append(resolved, rec)
	}
	return resolved, nil
}
