// Package txbuilder assembles and balances a transaction plan against a
// multi-asset utxo set: it picks inputs that cover every requested output,
// fee, deposit and donation, then synthesizes per-asset change outputs so
// inputs and outputs balance exactly.
package txbuilder

import (
	"github.com/cardanokit/txplan/ouroboros/num"
	"github.com/cardanokit/txplan/ouroboros/shared"
)

// TxOut is a single requested output row: one asset amount headed to one
// address. An amount of -1 on the base asset means "all remaining funds".
type TxOut struct {
	Address string         `json:"address"`
	Coin    shared.AssetID `json:"coin,omitempty"`
	Amount  num.Int        `json:"amount"`
}

func NewTxOut(address string, coin shared.AssetID, amount int64) TxOut {
	return TxOut{
		Address: address,
		Coin:    coin,
		Amount:  num.Int64(amount),
	}
}

func AdaTxOut(address string, amount int64) TxOut {
	return NewTxOut(address, shared.AdaAssetID, amount)
}

// SendAllTxOut requests that all remaining base-asset funds be sent to the
// address after every other obligation is met.
func SendAllTxOut(address string) TxOut {
	return AdaTxOut(address, -1)
}

// coin normalizes an unset asset id to the base asset.
func (t TxOut) coin() shared.AssetID {
	if t.Coin.IsZero() {
		return shared.AdaAssetID
	}
	return t.Coin
}

func (t TxOut) isSendAll() bool {
	return t.coin() == shared.AdaAssetID && t.Amount.Equal(num.Int64(-1))
}

func sumTxOuts(txOuts []TxOut) num.Int {
	total := num.Int64(0)
	for _, txOut := range txOuts {
		total = total.Add(txOut.Amount)
	}
	return total
}

// Plan is the finalized (inputs, outputs) pair returned by the builder.
type Plan struct {
	TxIns  []shared.UtxoRow `json:"txIns"`
	TxOuts []TxOut          `json:"txOuts"`
}
