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

// Package num provides ledger amounts of arbitrary precision.
package num

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/fxamacker/cbor/v2"
)

// Int is an integer amount as used by the ledger. Token quantities can
// exceed the range of int64, hence the big.Int backing.
type Int big.Int

func Int64(v int64) Int {
	return Int(*big.NewInt(v))
}

func Uint64(v uint64) Int {
	return Int(*new(big.Int).SetUint64(v))
}

// New parses a base-10 amount.
func New(s string) (Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Int{}, fmt.Errorf("unable to parse amount, %v", s)
	}
	return Int(*v), nil
}

func (i Int) BigInt() *big.Int {
	v := big.Int(i)
	return &v
}

func (i Int) Add(y Int) Int {
	return Int(*new(big.Int).Add(i.BigInt(), y.BigInt()))
}

func (i Int) Sub(y Int) Int {
	return Int(*new(big.Int).Sub(i.BigInt(), y.BigInt()))
}

func (i Int) Mul(y Int) Int {
	return Int(*new(big.Int).Mul(i.BigInt(), y.BigInt()))
}

func (i Int) Neg() Int {
	return Int(*new(big.Int).Neg(i.BigInt()))
}

func (i Int) Abs() Int {
	return Int(*new(big.Int).Abs(i.BigInt()))
}

func (i Int) Sign() int {
	return i.BigInt().Sign()
}

func (i Int) Cmp(y Int) int {
	return i.BigInt().Cmp(y.BigInt())
}

func (i Int) Equal(y Int) bool              { return i.Cmp(y) == 0 }
func (i Int) LessThan(y Int) bool           { return i.Cmp(y) < 0 }
func (i Int) LessThanOrEqual(y Int) bool    { return i.Cmp(y) <= 0 }
func (i Int) GreaterThan(y Int) bool        { return i.Cmp(y) > 0 }
func (i Int) GreaterThanOrEqual(y Int) bool { return i.Cmp(y) >= 0 }

// Max returns the larger of i and y.
func Max(i, y Int) Int {
	if i.GreaterThan(y) {
		return i
	}
	return y
}

func (i Int) Int64() int64 {
	return i.BigInt().Int64()
}

func (i Int) Uint64() uint64 {
	return i.BigInt().Uint64()
}

func (i Int) String() string {
	return i.BigInt().String()
}

func (i Int) MarshalJSON() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *Int) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return fmt.Errorf("unable to unmarshal Int, %v", string(data))
	}
	*i = Int(*v)
	return nil
}

func (i Int) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(i.BigInt())
}

func (i *Int) UnmarshalCBOR(data []byte) error {
	var v big.Int
	if err := cbor.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unable to unmarshal Int: %w", err)
	}
	*i = Int(v)
	return nil
}

func (i Int) MarshalDynamoDBAttributeValue(item *dynamodb.AttributeValue) error {
	item.N = aws.String(i.String())
	return nil
}

func (i *Int) UnmarshalDynamoDBAttributeValue(item *dynamodb.AttributeValue) error {
	var s string
	switch {
	case item == nil:
		return nil
	case item.N != nil:
		s = aws.StringValue(item.N)
	case item.S != nil:
		s = aws.StringValue(item.S)
	default:
		return fmt.Errorf("unable to unmarshal Int: attribute is neither number nor string")
	}

	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return fmt.Errorf("unable to unmarshal Int, %v", s)
	}
	*i = Int(*v)
	return nil
}
