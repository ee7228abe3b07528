package txbuilder

import (
	"fmt"

	"github.com/cardanokit/txplan/ouroboros/num"
	"github.com/cardanokit/txplan/ouroboros/shared"
)

// BalanceTxOuts adds a change output for every asset whose selected inputs
// exceed its obligations. The requested outputs come back with non-positive
// amounts stripped and the send-all marker resolved to a concrete amount at
// its own address. A negative balance for any asset is a ShortfallError;
// balancing is the single place where "not enough was selected" becomes a
// hard failure.
func BalanceTxOuts(
	changeAddress string,
	txOuts []TxOut,
	txInsByCoin map[shared.AssetID][]shared.UtxoRow,
	txOutsByCoin map[shared.AssetID][]TxOut,
	mintByCoin map[shared.AssetID][]TxOut,
	fee num.Int,
	withdrawals []TxOut,
	deposit num.Int,
	treasuryDonation num.Int,
	skipAssetBalancing bool,
) ([]TxOut, error) {
	// Burning tokens must be expressed through minting, never as a
	// negative requested output.
	for _, txOut := range txOuts {
		if txOut.coin() != shared.AdaAssetID && txOut.Amount.Sign() < 0 {
			return nil, fmt.Errorf("token burning is not allowed in txouts, %v %v to %v: %w",
				txOut.Amount, txOut.coin(), txOut.Address, ErrBadRequest)
		}
	}

	var result []TxOut
	for _, txOut := range txOuts {
		if txOut.Amount.Sign() > 0 {
			result = append(result, txOut)
		}
	}

	if skipAssetBalancing {
		// Balancing is done elsewhere, by the external build command.
		return result, nil
	}

	coins := map[shared.AssetID]bool{}
	for coin := range txInsByCoin {
		coins[coin] = true
	}
	for coin := range txOutsByCoin {
		coins[coin] = true
	}
	for coin := range mintByCoin {
		coins[coin] = true
	}

	for _, coin := range sortedCoins(coins) {
		maxAddress := ""

		totalInput := num.Int64(0)
		for _, row := range txInsByCoin[coin] {
			totalInput = totalInput.Add(row.Amount)
		}

		var change, available, needed num.Int
		if coin == shared.AdaAssetID {
			coinTxOuts := make([]TxOut, 0, len(txOutsByCoin[coin]))
			for _, txOut := range txOutsByCoin[coin] {
				if txOut.isSendAll() {
					if maxAddress != "" {
						return nil, fmt.Errorf("cannot send all remaining funds to more than one address: %w", ErrBadRequest)
					}
					maxAddress = txOut.Address
					continue
				}
				coinTxOuts = append(coinTxOuts, txOut)
			}

			txFee := num.Max(num.Int64(0), fee)
			available = totalInput.Add(sumTxOuts(withdrawals))
			needed = sumTxOuts(coinTxOuts).Add(txFee).Add(deposit).Add(treasuryDonation)
			change = available.Sub(needed)
		} else {
			totalMinted := sumTxOuts(mintByCoin[coin])
			available = totalInput.Add(totalMinted)
			needed = sumTxOuts(txOutsByCoin[coin])
			change = available.Sub(needed)
		}

		if change.Sign() < 0 {
			return nil, &ShortfallError{Coin: coin, Available: available, Needed: needed}
		}

		if change.Sign() > 0 {
			address := changeAddress
			if maxAddress != "" {
				address = maxAddress
			}
			result = append(result, TxOut{Address: address, Coin: coin, Amount: change})
		}
	}

	return result, nil
}
