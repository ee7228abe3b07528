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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"
)

type SubmitTx struct {
	Cbor string `json:"cbor"`
}

type SubmitTxResponse struct {
	ID    string
	Error *SubmitTxError
}

type SubmitTxError struct {
	Code    int
	Message string
	Data    json.RawMessage
}

func (e *SubmitTxError) Error() string {
	return fmt.Sprintf("submit failed with code %d: %v", e.Code, e.Message)
}

// IndicatesSpentInputs reports whether the submission was rejected because
// an input is unknown or already spent. On resubmission that usually means
// the transaction already made it to the chain.
func (e *SubmitTxError) IndicatesSpentInputs() bool {
	return strings.Contains(e.Message, "BadInputsUTxO") ||
		strings.Contains(e.Message, "unknown or already spent")
}

// SubmitTx submits the CBOR-serialized, signed transaction via ogmios
// https://ogmios.dev/mini-protocols/local-tx-submission/
func (c *Client) SubmitTx(ctx context.Context, data string) (*SubmitTxResponse, error) {
	tx := SubmitTx{
		Cbor: data,
	}
	var (
		payload = makePayload("submitTransaction", Map{"transaction": tx}, Map{})
		raw     json.RawMessage
	)
	if err := c.query(ctx, payload, &raw); err != nil {
		return nil, fmt.Errorf("failed to submit TX: %w", err)
	}

	return readSubmitTx(raw)
}

func readSubmitTx(data []byte) (*SubmitTxResponse, error) {
	e, err1 := readSubmitTxError(data)
	id, err2 := readSubmitTxResult(data)
	if err1 != nil && err2 != nil {
		return nil, fmt.Errorf("could not parse submit tx response; neither error (%w) nor result (%v)", err1, err2)
	}
	if err1 == nil {
		return &SubmitTxResponse{Error: e}, nil
	}
	return &SubmitTxResponse{ID: id}, nil
}

func readSubmitTxError(data []byte) (*SubmitTxError, error) {
	value, _, _, err := jsonparser.Get(data, "error")
	if err != nil {
		return nil, fmt.Errorf("failed to parse SubmitTx error: %w %s", err, data)
	}
	var e SubmitTxError
	if err := json.Unmarshal(value, &e); err != nil {
		return nil, fmt.Errorf("failed to parse SubmitTx error: %w %s", err, data)
	}
	return &e, nil
}

func readSubmitTxResult(data []byte) (string, error) {
	value, dataType, _, err := jsonparser.Get(data, "result")
	if err != nil {
		return "", fmt.Errorf("failed to parse SubmitTx response: %w %s", err, string(data))
	}

	switch dataType {
	case jsonparser.Object:
		var result struct {
			Transaction struct {
				ID string
			}
		}
		if err := json.Unmarshal(value, &result); err != nil {
			return "", fmt.Errorf("failed to parse SubmitTx response: %w", err)
		}
		return result.Transaction.ID, nil
	default:
		return "", fmt.Errorf("unexpected SubmitTx result type: %v", dataType)
	}
}
