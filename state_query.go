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
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/buger/jsonparser"

	"github.com/cardanokit/txplan/ouroboros/num"
	"github.com/cardanokit/txplan/ouroboros/shared"
)

func (c *Client) CurrentEpoch(ctx context.Context) (uint64, error) {
	var (
		payload = makePayload("queryLedgerState/epoch", Map{}, nil)
		content struct{ Result uint64 }
	)

	if err := c.query(ctx, payload, &content); err != nil {
		return 0, err
	}

	return content.Result, nil
}

func (c *Client) BlockHeight(ctx context.Context) (uint64, error) {
	var (
		payload = makePayload("queryNetwork/blockHeight", nil, nil)
		content struct{ Result uint64 }
	)

	if err := c.query(ctx, payload, &content); err != nil {
		return 0, err
	}

	return content.Result, nil
}

func (c *Client) CurrentProtocolParameters(
	ctx context.Context,
) (json.RawMessage, error) {
	var (
		payload = makePayload("queryLedgerState/protocolParameters", Map{}, nil)
		content struct{ Result json.RawMessage }
	)

	if err := c.query(ctx, payload, &content); err != nil {
		return nil, err
	}

	return content.Result, nil
}

// MinChangeValue extracts the constant part of the min utxo deposit from
// the live protocol parameters. The planner uses it as the dust floor for
// change outputs.
func (c *Client) MinChangeValue(ctx context.Context) (num.Int, error) {
	params, err := c.CurrentProtocolParameters(ctx)
	if err != nil {
		return num.Int{}, err
	}

	value, _, _, err := jsonparser.Get(params, "minUtxoDepositConstant", "ada", "lovelace")
	if err != nil {
		return num.Int{}, fmt.Errorf("failed to read minUtxoDepositConstant from protocol parameters: %w", err)
	}

	return num.New(string(value))
}

func (c *Client) UtxosByAddress(
	ctx context.Context,
	addresses ...string,
) ([]shared.Utxo, error) {
	var (
		payload = makePayload(
			"queryLedgerState/utxo",
			Map{"addresses": addresses},
			nil,
		)
		content struct{ Result []shared.Utxo }
	)

	if err := c.query(ctx, payload, &content); err != nil {
		return nil, fmt.Errorf("failed to query utxos by address: %w", err)
	}

	return content.Result, nil
}

func (c *Client) UtxosByTxIn(
	ctx context.Context,
	txIns ...shared.TxInQuery,
) ([]shared.Utxo, error) {
	var (
		payload = makePayload(
			"queryLedgerState/utxo",
			Map{"outputReferences": txIns},
			nil,
		)
		content struct{ Result []shared.Utxo }
	)

	if err := c.query(ctx, payload, &content); err != nil {
		return nil, fmt.Errorf("failed to query utxos by output reference: %w", err)
	}

	return content.Result, nil
}

type Delegation struct {
	PoolID  string  `json:"poolId"`
	Rewards num.Int `json:"rewards"`
}

type delegateInfo struct {
	ID string `json:"id"`
}

type rewardAccountSummary struct {
	Delegate *delegateInfo `json:"delegate,omitempty"`
	Rewards  *shared.Value `json:"rewards,omitempty"`
	Deposit  *shared.Value `json:"deposit,omitempty"`
}

func (c *Client) GetDelegation(
	ctx context.Context,
	rewardAddress string,
) (Delegation, error) {

	_, data, err := bech32.Decode(rewardAddress)
	if err != nil {
		return Delegation{}, fmt.Errorf(
			"failed to decode reward address: %w",
			err,
		)
	}

	decoded_value, _ := bech32.ConvertBits(data, 5, 8, false)

	rewardAddressVfk := hex.EncodeToString(decoded_value[1:])

	var (
		payload = makePayload(
			"queryLedgerState/rewardAccountSummaries",
			Map{"keys": []string{rewardAddress}},
			nil,
		)
		content struct {
			Result map[string]*rewardAccountSummary
		}
	)

	if err := c.query(ctx, payload, &content); err != nil {
		return Delegation{}, fmt.Errorf(
			"failed to query reward account summaries: %w",
			err,
		)
	}

	summary, ok := content.Result[rewardAddressVfk]
	if !ok || summary == nil {
		return Delegation{
				Rewards: num.Int64(0),
			}, fmt.Errorf(
				"reward account not found for reward address: %s",
				rewardAddress,
			)
	}

	delegation := Delegation{
		Rewards: num.Int64(0),
	}

	if summary.Delegate != nil && summary.Delegate.ID != "" {
		delegation.PoolID = summary.Delegate.ID
	}

	if summary.Rewards != nil {
		delegation.Rewards = summary.Rewards.AdaLovelace()
	}

	return delegation, nil
}
