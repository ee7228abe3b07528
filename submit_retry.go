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

	"github.com/cardanokit/txplan/logger"
	"github.com/cardanokit/txplan/ouroboros/shared"
)

type SubmitRetryOptions struct {
	attempts   int
	waitBlocks int
}

type SubmitRetryOption func(*SubmitRetryOptions)

// WithAttempts bounds the number of submissions, initial one included.
func WithAttempts(attempts int) SubmitRetryOption {
	return func(options *SubmitRetryOptions) {
		options.attempts = attempts
	}
}

// WithWaitBlocks sets how many new blocks to wait for between attempts.
func WithWaitBlocks(blocks int) SubmitRetryOption {
	return func(options *SubmitRetryOptions) {
		options.waitBlocks = blocks
	}
}

func buildSubmitRetryOptions(opts ...SubmitRetryOption) SubmitRetryOptions {
	options := SubmitRetryOptions{
		attempts:   20,
		waitBlocks: 2,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// SubmitTxWithRetry submits a signed transaction and resubmits it until it
// is observed on chain. An input is spent once its hash#index can no longer
// be queried from the ledger state, so the first consumed input doubles as
// the confirmation probe. A rejection for spent inputs on a resubmission is
// tolerated: the previous attempt most likely made it into a block.
func (c *Client) SubmitTxWithRetry(
	ctx context.Context,
	data string,
	txIns []shared.TxInQuery,
	opts ...SubmitRetryOption,
) (string, error) {
	options := buildSubmitRetryOptions(opts...)

	if len(txIns) == 0 {
		return "", fmt.Errorf("at least one consumed input is required to confirm submission")
	}

	var (
		txID      string
		submitErr *SubmitTxError
	)
	for attempt := 0; attempt < options.attempts; attempt++ {
		if attempt > 0 {
			c.logger.Info("resubmitting transaction",
				logger.KV("id", txID),
				logger.KV("attempt", fmt.Sprintf("%d", attempt+1)),
			)
		}

		response, err := c.SubmitTx(ctx, data)
		if err != nil {
			return txID, err
		}
		switch {
		case response.Error == nil:
			if txID == "" {
				txID = response.ID
			}
		case attempt == 0 || !response.Error.IndicatesSpentInputs():
			return txID, response.Error
		default:
			// The TX is either on chain already or still in the mempool;
			// keep waiting and let the input probe decide.
			submitErr = response.Error
		}

		if err := c.WaitForNewBlocks(ctx, options.waitBlocks); err != nil {
			return txID, err
		}

		utxos, err := c.UtxosByTxIn(ctx, txIns[0])
		if err != nil {
			return txID, err
		}
		if len(utxos) == 0 {
			// The input is spent; the transaction made it to the chain.
			return txID, nil
		}
	}

	if submitErr != nil {
		return txID, fmt.Errorf("failed to resubmit transaction %v: %w", txID, submitErr)
	}
	return txID, fmt.Errorf("transaction %v didn't make it to the chain after %d attempts", txID, options.attempts)
}
