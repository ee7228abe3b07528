package shared

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cardanokit/txplan/ouroboros/num"
)

// Value holds per-asset amounts, keyed by policy id and asset name the way
// Ogmios reports them.
type Value map[string]map[string]num.Int

var ErrInsufficientFunds = errors.New("insufficient funds")

func (v Value) clone() Value {
	result := Value{}
	for policyId, assets := range v {
		for assetName, amt := range assets {
			result.set(policyId, assetName, amt)
		}
	}
	return result
}

func (v Value) set(policyId, assetName string, amt num.Int) {
	if _, ok := v[policyId]; !ok {
		v[policyId] = map[string]num.Int{}
	}
	v[policyId][assetName] = amt
}

func Add(a Value, b Value) Value {
	result := a.clone()
	for policyId, assets := range b {
		for assetName, amt := range assets {
			result.set(policyId, assetName, result[policyId][assetName].Add(amt))
		}
	}
	return result
}

func Subtract(a Value, b Value) Value {
	result := a.clone()
	for policyId, assets := range b {
		for assetName, amt := range assets {
			result.set(policyId, assetName, result[policyId][assetName].Sub(amt))
		}
	}
	return result
}

func Enough(have Value, want Value) (bool, error) {
	for policyId, assets := range want {
		for assetName, amt := range assets {
			if have.amount(policyId, assetName).LessThan(amt) {
				return false, fmt.Errorf("not enough %v (%v) to meet demand (%v): %w",
					assetName, have.amount(policyId, assetName).String(), amt.String(), ErrInsufficientFunds)
			}
		}
	}
	return true, nil
}

// LessThanOrEqual reports whether every amount in a is covered by b.
func LessThanOrEqual(a, b Value) bool {
	for policyId, assets := range a {
		for assetName, amt := range assets {
			if amt.GreaterThan(b.amount(policyId, assetName)) {
				return false
			}
		}
	}
	return true
}

// GreaterThanOrEqual reports whether every amount in b is covered by a.
func GreaterThanOrEqual(a, b Value) bool {
	return LessThanOrEqual(b, a)
}

func Equal(a, b Value) bool {
	return LessThanOrEqual(a, b) && LessThanOrEqual(b, a)
}

func (v Value) amount(policyId, assetName string) num.Int {
	if assets, ok := v[policyId]; ok {
		return assets[assetName]
	}
	return num.Int64(0)
}

func (v *Value) AddAsset(coins ...Coin) {
	// As a courtesy, initialize Value if necessary.
	if *v == nil {
		*v = Value{}
	}

	for _, coin := range coins {
		policyId := coin.AssetId.PolicyID()
		assetName := coin.AssetId.AssetName()
		(*v).set(policyId, assetName, (*v)[policyId][assetName].Add(coin.Amount))
	}
}

func (v Value) AdaLovelace() num.Int {
	return v.AssetAmount(AdaAssetID)
}

func (v Value) AssetAmount(asset AssetID) num.Int {
	return v.amount(asset.PolicyID(), asset.AssetName())
}

func (v Value) AssetsExceptAda() Value {
	result := Value{}
	for policyId, assets := range v {
		if policyId == AdaPolicy {
			continue
		}
		for assetName, amt := range assets {
			result.set(policyId, assetName, amt)
		}
	}
	return result
}

func (v Value) AssetsExceptAdaCount() uint32 {
	var count uint32
	for policyId, assets := range v {
		if policyId == AdaPolicy {
			continue
		}
		count += uint32(len(assets))
	}
	return count
}

func (v Value) IsAdaPresent() bool {
	return v.AdaLovelace().GreaterThan(num.Int64(0))
}

// Flatten expands the value into one Coin per asset, ordered by asset id so
// callers iterate deterministically.
func (v Value) Flatten() []Coin {
	var coins []Coin
	for policyId, assets := range v {
		for assetName, amt := range assets {
			coins = append(coins, Coin{
				AssetId: FromSeparate(policyId, assetName),
				Amount:  amt,
			})
		}
	}
	sort.Slice(coins, func(i, j int) bool {
		return coins[i].AssetId < coins[j].AssetId
	})
	return coins
}

type Coin struct {
	AssetId AssetID
	Amount  num.Int
}

func CreateAdaCoin(amt num.Int) Coin {
	return Coin{AssetId: AdaAssetID, Amount: amt}
}

func ValueFromCoins(coins ...Coin) Value {
	value := Value{}
	value.AddAsset(coins...)
	return value
}

func CreateAdaValue(amt int64) Value {
	value := Value{}
	value.AddAsset(CreateAdaCoin(num.Int64(amt)))
	return value
}
