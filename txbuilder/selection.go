package txbuilder

import (
	"sort"

	"github.com/cardanokit/txplan/logger"
	"github.com/cardanokit/txplan/ouroboros/num"
	"github.com/cardanokit/txplan/ouroboros/shared"
)

// The selection engine picks, per asset, which unspent outputs to consume.
// It prefers outputs that earlier assets already pulled in (they come for
// free), then falls back to defragmentation: sweep up to ten of the
// smallest candidates, and past that take whichever candidate lands closest
// to the remaining need. Hitting the target exactly stops a scan
// immediately so no change output has to be created for the asset.

type utxoAmount struct {
	ID     shared.UtxoID
	Amount num.Int
}

// pickFromAlreadySelected accumulates the current asset's holdings of
// outputs that were already selected for other assets. Those outputs are in
// the transaction regardless, so the returned pick set is always empty;
// only the accumulated amount and the met flag matter. The scan runs in
// ascending id order to stay deterministic.
func pickFromAlreadySelected(
	coinTxIns map[shared.UtxoID]num.Int,
	alreadySelected map[shared.UtxoID]bool,
	targetAmount num.Int,
	targetWithChange num.Int,
) (map[shared.UtxoID]bool, num.Int, bool) {
	picked := map[shared.UtxoID]bool{}
	accumulated := num.Int64(0)

	for _, id := range sortedUtxoIDs(alreadySelected) {
		amount, ok := coinTxIns[id]
		if !ok {
			continue
		}
		accumulated = accumulated.Add(amount)

		// Collecting the exact amount means no change is needed.
		if accumulated.Equal(targetAmount) {
			return picked, accumulated, true
		}
		// Otherwise the change must clear the dust floor.
		if accumulated.GreaterThanOrEqual(targetWithChange) {
			return picked, accumulated, true
		}
	}

	return picked, accumulated, false
}

// pickWithDefragmentation selects from not-yet-selected candidates. Step 1
// consumes up to the 10 smallest to reduce utxo fragmentation; step 2
// repeatedly takes the candidate closest to the remaining need. Candidates
// are ordered by (amount, id) ascending, and equidistant closest-fit ties
// go to the earlier candidate in that order.
func pickWithDefragmentation(
	utxos []utxoAmount,
	targetAmount num.Int,
	targetWithChange num.Int,
	accumulated num.Int,
) (map[shared.UtxoID]bool, num.Int, bool) {
	sorted := make([]utxoAmount, len(utxos))
	copy(sorted, utxos)
	sort.Slice(sorted, func(i, j int) bool {
		if c := sorted[i].Amount.Cmp(sorted[j].Amount); c != 0 {
			return c < 0
		}
		return sorted[i].ID < sorted[j].ID
	})

	picked := map[shared.UtxoID]bool{}
	selected := map[int]bool{}

	// Step 1: consume up to 10 of the smallest candidates.
	for i := 0; i < len(sorted) && i < 10; i++ {
		picked[sorted[i].ID] = true
		selected[i] = true
		accumulated = accumulated.Add(sorted[i].Amount)

		if accumulated.Equal(targetAmount) {
			return picked, accumulated, true
		}
		if accumulated.GreaterThanOrEqual(targetWithChange) {
			return picked, accumulated, true
		}
	}

	// Step 2: take the candidate closest to the remaining amount.
	for accumulated.LessThan(targetWithChange) {
		if accumulated.Equal(targetAmount) {
			return picked, accumulated, true
		}

		// Target the exact amount; once past it, the leftover must still
		// cover the dust floor.
		var remaining num.Int
		if accumulated.GreaterThan(targetAmount) {
			remaining = targetWithChange.Sub(accumulated)
		} else {
			remaining = targetAmount.Sub(accumulated)
		}

		closest := -1
		var closestDistance num.Int
		for i, utxo := range sorted {
			if selected[i] {
				continue
			}
			distance := utxo.Amount.Sub(remaining).Abs()
			if closest < 0 || distance.LessThan(closestDistance) {
				closest = i
				closestDistance = distance
			}
		}
		if closest < 0 {
			// Candidates exhausted; the target was not met.
			return picked, accumulated, false
		}

		picked[sorted[closest].ID] = true
		selected[closest] = true
		accumulated = accumulated.Add(sorted[closest].Amount)
	}

	return picked, accumulated, true
}

// selectPerCoin combines the two phases for a single asset. An unmet target
// is logged, not raised; the balancer is the authority that turns missing
// value into an error.
func selectPerCoin(
	coinTxIns map[shared.UtxoID]num.Int,
	coin shared.AssetID,
	targetAmount num.Int,
	targetWithChange num.Int,
	alreadySelected map[shared.UtxoID]bool,
	log logger.Logger,
) map[shared.UtxoID]bool {
	picked, accumulated, met := pickFromAlreadySelected(coinTxIns, alreadySelected, targetAmount, targetWithChange)

	if !met {
		var remaining []utxoAmount
		for id, amount := range coinTxIns {
			if alreadySelected[id] {
				continue
			}
			remaining = append(remaining, utxoAmount{ID: id, Amount: amount})
		}

		var more map[shared.UtxoID]bool
		more, _, met = pickWithDefragmentation(remaining, targetAmount, targetWithChange, accumulated)
		for id := range more {
			picked[id] = true
		}
	}

	if !met {
		log.Warn("could not meet target amount with the given utxos",
			logger.KV("coin", coin.String()),
			logger.KV("target", targetAmount.String()),
		)
	}

	return picked
}

// SelectUtxos returns the ids of unspent outputs that together satisfy all
// requested outputs, the fee, deposits and the treasury donation for every
// asset. Withdrawals reduce the base-asset need but can never replace the
// fee input; minted amounts reduce (or eliminate) a token's need.
func SelectUtxos(
	txInsByCoinAndID map[shared.AssetID]map[shared.UtxoID]num.Int,
	txOutsByCoin map[shared.AssetID][]TxOut,
	mintByCoin map[shared.AssetID][]TxOut,
	fee num.Int,
	deposit num.Int,
	treasuryDonation num.Int,
	withdrawals []TxOut,
	minChangeValue num.Int,
	log logger.Logger,
) map[shared.UtxoID]bool {
	utxoIDs := map[shared.UtxoID]bool{}

	coins := map[shared.AssetID]bool{}
	for coin := range txInsByCoinAndID {
		coins[coin] = true
	}
	for coin := range txOutsByCoin {
		coins[coin] = true
	}
	for coin := range mintByCoin {
		coins[coin] = true
	}

	for _, coin := range sortedCoins(coins) {
		coinTxIns := txInsByCoinAndID[coin]
		coinTxOuts := txOutsByCoin[coin]

		var targetAmount, targetWithChange num.Int
		if coin == shared.AdaAssetID {
			if hasSendAll(coinTxOuts) {
				// "All remaining funds" sweeps every candidate.
				for id := range coinTxIns {
					utxoIDs[id] = true
				}
				continue
			}

			txFee := num.Max(num.Int64(1), fee)
			fundsNeeded := sumTxOuts(coinTxOuts).Add(txFee).Add(deposit).Add(treasuryDonation)
			// The fee needs an input, even if withdrawals would cover all
			// needed funds.
			targetAmount = num.Max(fundsNeeded.Sub(sumTxOuts(withdrawals)), txFee)
			// The dust floor applies only to the base asset.
			targetWithChange = targetAmount.Add(minChangeValue)
		} else {
			totalMinted := sumTxOuts(mintByCoin[coin])
			// Burning makes totalMinted negative: enough inputs are needed
			// for both the burn and the transfers.
			targetAmount = sumTxOuts(coinTxOuts).Sub(totalMinted)
			targetWithChange = targetAmount
		}

		if targetAmount.Sign() <= 0 {
			// Minting alone covers the outputs; never select for a
			// non-positive target.
			continue
		}

		picked := selectPerCoin(coinTxIns, coin, targetAmount, targetWithChange, utxoIDs, log)
		for id := range picked {
			utxoIDs[id] = true
		}
	}

	return utxoIDs
}

func hasSendAll(txOuts []TxOut) bool {
	for _, txOut := range txOuts {
		if txOut.isSendAll() {
			return true
		}
	}
	return false
}
