package txbuilder

import (
	"sort"

	"github.com/cardanokit/txplan/ouroboros/num"
	"github.com/cardanokit/txplan/ouroboros/shared"
)

// The organize* helpers reshape input and output rows into the lookups the
// selection engine and balancer work from. They are pure and preserve every
// row they are given.

func organizeTxOutsByCoin(txOuts []TxOut) map[shared.AssetID][]TxOut {
	db := map[shared.AssetID][]TxOut{}
	for _, txOut := range txOuts {
		coin := txOut.coin()
		db[coin] = append(db[coin], txOut)
	}
	return db
}

func organizeUtxosByCoin(rows []shared.UtxoRow) map[shared.AssetID][]shared.UtxoRow {
	db := map[shared.AssetID][]shared.UtxoRow{}
	for _, row := range rows {
		db[row.Coin] = append(db[row.Coin], row)
	}
	return db
}

func organizeUtxosByID(rows []shared.UtxoRow) map[shared.UtxoID][]shared.UtxoRow {
	db := map[shared.UtxoID][]shared.UtxoRow{}
	for _, row := range rows {
		db[row.ID] = append(db[row.ID], row)
	}
	return db
}

// organizeUtxosByCoinAndID sums amounts for repeated (coin, id) pairs so no
// value is lost to key collisions.
func organizeUtxosByCoinAndID(rows []shared.UtxoRow) map[shared.AssetID]map[shared.UtxoID]num.Int {
	db := map[shared.AssetID]map[shared.UtxoID]num.Int{}
	for _, row := range rows {
		byID, ok := db[row.Coin]
		if !ok {
			byID = map[shared.UtxoID]num.Int{}
			db[row.Coin] = byID
		}
		byID[row.ID] = byID[row.ID].Add(row.Amount)
	}
	return db
}

// sortedUtxoIDs returns the set's ids in ascending order. Map iteration is
// randomized, so every scan over a set goes through this.
func sortedUtxoIDs(set map[shared.UtxoID]bool) []shared.UtxoID {
	ids := make([]shared.UtxoID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortedCoins(set map[shared.AssetID]bool) []shared.AssetID {
	coins := make([]shared.AssetID, 0, len(set))
	for coin := range set {
		coins = append(coins, coin)
	}
	sort.Slice(coins, func(i, j int) bool { return coins[i] < coins[j] })
	return coins
}
