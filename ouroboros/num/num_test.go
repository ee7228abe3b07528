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

package num

import (
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/tj/assert"
)

func TestInt_Arithmetic(t *testing.T) {
	assert.EqualValues(t, 5, Int64(2).Add(Int64(3)).Int64())
	assert.EqualValues(t, -1, Int64(2).Sub(Int64(3)).Int64())
	assert.EqualValues(t, 6, Int64(2).Mul(Int64(3)).Int64())
	assert.EqualValues(t, 3, Int64(-3).Abs().Int64())
	assert.EqualValues(t, -2, Int64(2).Neg().Int64())
	assert.Equal(t, -1, Int64(-7).Sign())
	assert.Equal(t, 0, Int64(0).Sign())
}

func TestInt_Compare(t *testing.T) {
	assert.True(t, Int64(1).LessThan(Int64(2)))
	assert.True(t, Int64(2).LessThanOrEqual(Int64(2)))
	assert.True(t, Int64(3).GreaterThan(Int64(2)))
	assert.True(t, Int64(2).GreaterThanOrEqual(Int64(2)))
	assert.True(t, Int64(2).Equal(Int64(2)))
	assert.EqualValues(t, 7, Max(Int64(3), Int64(7)).Int64())
	assert.EqualValues(t, 7, Max(Int64(7), Int64(-3)).Int64())
}

func TestInt_New(t *testing.T) {
	v, err := New("123456789012345678901234567890")
	assert.Nil(t, err)
	assert.Equal(t, "123456789012345678901234567890", v.String())

	_, err = New("blah")
	assert.NotNil(t, err)
}

func TestInt_JSON(t *testing.T) {
	data, err := json.Marshal(Int64(123))
	assert.Nil(t, err)
	assert.Equal(t, `123`, string(data))

	var got Int
	err = json.Unmarshal([]byte(`123`), &got)
	assert.Nil(t, err)
	assert.EqualValues(t, 123, got.Int64())

	// Some servers quote large numbers.
	err = json.Unmarshal([]byte(`"456"`), &got)
	assert.Nil(t, err)
	assert.EqualValues(t, 456, got.Int64())
}

func TestInt_CBOR(t *testing.T) {
	data, err := Int64(-42).MarshalCBOR()
	assert.Nil(t, err)

	var got Int
	err = got.UnmarshalCBOR(data)
	assert.Nil(t, err)
	assert.EqualValues(t, -42, got.Int64())
}

func TestInt_DynamoDB(t *testing.T) {
	var item dynamodb.AttributeValue
	err := Int64(789).MarshalDynamoDBAttributeValue(&item)
	assert.Nil(t, err)
	assert.Equal(t, "789", aws.StringValue(item.N))

	var got Int
	err = got.UnmarshalDynamoDBAttributeValue(&item)
	assert.Nil(t, err)
	assert.EqualValues(t, 789, got.Int64())

	err = got.UnmarshalDynamoDBAttributeValue(&dynamodb.AttributeValue{S: aws.String("321")})
	assert.Nil(t, err)
	assert.EqualValues(t, 321, got.Int64())

	err = got.UnmarshalDynamoDBAttributeValue(&dynamodb.AttributeValue{})
	assert.NotNil(t, err)
}
