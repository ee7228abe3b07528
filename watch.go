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
	"time"

	"github.com/cardanokit/txplan/logger"
)

// Cardano's active slot coefficient puts a block roughly every 20s; polling
// well below that keeps the wait responsive without hammering the server.
const defaultPollInterval = 5 * time.Second

// WaitForNewBlocks blocks until the chain has grown by the given number of
// blocks. Transient connection errors are retried on a fresh connection.
func (c *Client) WaitForNewBlocks(ctx context.Context, blocks int) error {
	if blocks <= 0 {
		return nil
	}

	start, err := c.blockHeightWithRetry(ctx)
	if err != nil {
		return err
	}
	target := start + uint64(blocks)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(defaultPollInterval):
		}

		height, err := c.blockHeightWithRetry(ctx)
		if err != nil {
			return err
		}
		if height >= target {
			return nil
		}
	}
}

func (c *Client) blockHeightWithRetry(ctx context.Context) (uint64, error) {
	for {
		height, err := c.BlockHeight(ctx)
		if err == nil {
			return height, nil
		}
		if !isTemporaryError(err) {
			return 0, err
		}

		c.logger.Info("websocket connection error: will retry",
			logger.KV("delay", defaultPollInterval.Round(time.Millisecond).String()),
			logger.KV("err", err.Error()),
		)

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(defaultPollInterval):
		}
	}
}
