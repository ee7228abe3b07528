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

// Package txplan plans balanced Cardano transactions. The root package is
// the Ogmios websocket client that supplies the planner's collaborators:
// utxo queries, protocol parameters, reward balances and tx submission.
package txplan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/cardanokit/txplan/logger"
)

type Map map[string]interface{}

type Options struct {
	endpoint string
	logger   logger.Logger
}

type Option func(*Options)

// WithEndpoint sets the websocket address of the Ogmios server.
func WithEndpoint(endpoint string) Option {
	return func(options *Options) {
		options.endpoint = endpoint
	}
}

func WithLogger(log logger.Logger) Option {
	return func(options *Options) {
		options.logger = log
	}
}

func buildOptions(opts ...Option) Options {
	options := Options{
		endpoint: "ws://127.0.0.1:1337",
		logger:   logger.DefaultLogger,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// Client is a thin JSON-RPC client for Ogmios. Each query dials its own
// connection; the Client itself holds no mutable state.
type Client struct {
	options Options
	logger  logger.Logger
}

func New(opts ...Option) *Client {
	options := buildOptions(opts...)
	return &Client{
		options: options,
		logger:  options.logger,
	}
}

// makePayload wraps a method and its params in a JSON-RPC 2.0 envelope.
func makePayload(method string, params Map, id Map) Map {
	return Map{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
		"id":      id,
	}
}

// query performs a single request/response exchange and decodes the
// response into v.
func (c *Client) query(ctx context.Context, payload Map, v interface{}) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.options.endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to ogmios, %v: %w", c.options.endpoint, err)
	}
	//nolint:errcheck
	defer conn.Close()

	var (
		data []byte
		done = make(chan struct{})
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		// Releases a blocked read when the context expires.
		select {
		case <-groupCtx.Done():
			return conn.Close()
		case <-done:
			return nil
		}
	})
	group.Go(func() error {
		defer close(done)

		if err := conn.WriteJSON(payload); err != nil {
			return fmt.Errorf("failed to write request: %w", err)
		}
		_, message, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}
		data = message
		return nil
	})
	if err := group.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// isTemporaryError reports whether the query is worth retrying on a fresh
// connection.
func isTemporaryError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		return closeErr.Code != websocket.CloseNormalClosure
	}

	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
