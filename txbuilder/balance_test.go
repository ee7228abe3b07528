package txbuilder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cardanokit/txplan/ouroboros/num"
	"github.com/cardanokit/txplan/ouroboros/shared"
)

func row(id string, coin shared.AssetID, amount int64) shared.UtxoRow {
	return shared.UtxoRow{
		ID:      shared.UtxoID(id),
		Address: addrSrc,
		Coin:    coin,
		Amount:  num.Int64(amount),
	}
}

func Test_BalanceTxOuts(t *testing.T) {
	t.Run("change goes to the change address", func(t *testing.T) {
		txOuts := []TxOut{AdaTxOut(addrDst, 1_000_000)}
		txIns := organizeUtxosByCoin([]shared.UtxoRow{row("aa#0", shared.AdaAssetID, 5_000_000)})

		balanced, err := BalanceTxOuts(addrSrc, txOuts, txIns, organizeTxOutsByCoin(txOuts), nil,
			num.Int64(200_000), nil, num.Int64(0), num.Int64(0), false)
		assert.Nil(t, err)
		assert.Equal(t, []TxOut{
			AdaTxOut(addrDst, 1_000_000),
			{Address: addrSrc, Coin: shared.AdaAssetID, Amount: num.Int64(3_800_000)},
		}, balanced)
	})

	t.Run("send-all resolves to a concrete amount", func(t *testing.T) {
		txOuts := []TxOut{SendAllTxOut(addrDst)}
		txIns := organizeUtxosByCoin([]shared.UtxoRow{
			row("aa#0", shared.AdaAssetID, 2_000_000),
			row("bb#0", shared.AdaAssetID, 3_000_000),
		})

		balanced, err := BalanceTxOuts(addrSrc, txOuts, txIns, organizeTxOutsByCoin(txOuts), nil,
			num.Int64(170_000), nil, num.Int64(0), num.Int64(0), false)
		assert.Nil(t, err)
		assert.Equal(t, []TxOut{
			{Address: addrDst, Coin: shared.AdaAssetID, Amount: num.Int64(4_830_000)},
		}, balanced)
	})

	t.Run("two send-all outputs are rejected", func(t *testing.T) {
		txOuts := []TxOut{SendAllTxOut(addrDst), SendAllTxOut(addrSrc)}
		txIns := organizeUtxosByCoin([]shared.UtxoRow{row("aa#0", shared.AdaAssetID, 2_000_000)})

		_, err := BalanceTxOuts(addrSrc, txOuts, txIns, organizeTxOutsByCoin(txOuts), nil,
			num.Int64(0), nil, num.Int64(0), num.Int64(0), false)
		assert.True(t, errors.Is(err, ErrBadRequest))
	})

	t.Run("negative token output is rejected", func(t *testing.T) {
		txOuts := []TxOut{NewTxOut(addrDst, tokenLQ, -5)}

		_, err := BalanceTxOuts(addrSrc, txOuts, nil, organizeTxOutsByCoin(txOuts), nil,
			num.Int64(0), nil, num.Int64(0), num.Int64(0), false)
		assert.True(t, errors.Is(err, ErrBadRequest))
		assert.Contains(t, err.Error(), "token burning is not allowed")
	})

	t.Run("shortfall names the asset and both sides", func(t *testing.T) {
		txOuts := []TxOut{AdaTxOut(addrDst, 10_000_000)}
		txIns := organizeUtxosByCoin([]shared.UtxoRow{row("aa#0", shared.AdaAssetID, 5_000_000)})

		_, err := BalanceTxOuts(addrSrc, txOuts, txIns, organizeTxOutsByCoin(txOuts), nil,
			num.Int64(200_000), nil, num.Int64(0), num.Int64(0), false)

		var shortfall *ShortfallError
		assert.True(t, errors.As(err, &shortfall))
		assert.Equal(t, shared.AdaAssetID, shortfall.Coin)
		assert.True(t, shortfall.Available.Equal(num.Int64(5_000_000)))
		assert.True(t, shortfall.Needed.Equal(num.Int64(10_200_000)))
		assert.True(t, errors.Is(err, shared.ErrInsufficientFunds))
	})

	t.Run("minted tokens balance without token inputs", func(t *testing.T) {
		txOuts := []TxOut{AdaTxOut(addrDst, 1_000_000), NewTxOut(addrDst, tokenLQ, 50)}
		mint := []TxOut{NewTxOut(addrDst, tokenLQ, 50)}
		txIns := organizeUtxosByCoin([]shared.UtxoRow{row("aa#0", shared.AdaAssetID, 1_200_000)})

		balanced, err := BalanceTxOuts(addrSrc, txOuts, txIns, organizeTxOutsByCoin(txOuts),
			organizeTxOutsByCoin(mint), num.Int64(200_000), nil, num.Int64(0), num.Int64(0), false)
		assert.Nil(t, err)
		// Exact balance on both assets, so no change output at all.
		assert.Equal(t, txOuts, balanced)
	})

	t.Run("burn consumes token inputs exactly", func(t *testing.T) {
		mint := []TxOut{NewTxOut(addrDst, tokenLQ, -75)}
		txIns := organizeUtxosByCoin([]shared.UtxoRow{
			row("aa#0", shared.AdaAssetID, 1_000_000),
			row("bb#0", tokenLQ, 75),
		})

		balanced, err := BalanceTxOuts(addrSrc, nil, txIns, nil,
			organizeTxOutsByCoin(mint), num.Int64(1_000_000), nil, num.Int64(0), num.Int64(0), false)
		assert.Nil(t, err)
		assert.Empty(t, balanced)
	})

	t.Run("withdrawals and deposits enter the base balance", func(t *testing.T) {
		txOuts := []TxOut{AdaTxOut(addrDst, 3_000_000)}
		txIns := organizeUtxosByCoin([]shared.UtxoRow{row("aa#0", shared.AdaAssetID, 2_000_000)})
		withdrawals := []TxOut{AdaTxOut(addrSrc, 4_000_000)}

		balanced, err := BalanceTxOuts(addrSrc, txOuts, txIns, organizeTxOutsByCoin(txOuts), nil,
			num.Int64(200_000), withdrawals, num.Int64(2_000_000), num.Int64(100_000), false)
		assert.Nil(t, err)
		// 2M inputs + 4M withdrawn - 3M out - 200k fee - 2M deposit - 100k donation
		assert.Equal(t, []TxOut{
			AdaTxOut(addrDst, 3_000_000),
			{Address: addrSrc, Coin: shared.AdaAssetID, Amount: num.Int64(700_000)},
		}, balanced)
	})

	t.Run("negative fee is treated as zero", func(t *testing.T) {
		txOuts := []TxOut{AdaTxOut(addrDst, 1_000_000)}
		txIns := organizeUtxosByCoin([]shared.UtxoRow{row("aa#0", shared.AdaAssetID, 1_500_000)})

		balanced, err := BalanceTxOuts(addrSrc, txOuts, txIns, organizeTxOutsByCoin(txOuts), nil,
			num.Int64(-1), nil, num.Int64(0), num.Int64(0), false)
		assert.Nil(t, err)
		assert.Equal(t, []TxOut{
			AdaTxOut(addrDst, 1_000_000),
			{Address: addrSrc, Coin: shared.AdaAssetID, Amount: num.Int64(500_000)},
		}, balanced)
	})

	t.Run("skip mode only strips non-positive outputs", func(t *testing.T) {
		txOuts := []TxOut{
			AdaTxOut(addrDst, 1_000_000),
			AdaTxOut(addrSrc, 0),
			SendAllTxOut(addrSrc),
		}

		balanced, err := BalanceTxOuts(addrSrc, txOuts, nil, organizeTxOutsByCoin(txOuts), nil,
			num.Int64(0), nil, num.Int64(0), num.Int64(0), true)
		assert.Nil(t, err)
		assert.Equal(t, []TxOut{AdaTxOut(addrDst, 1_000_000)}, balanced)
	})

	t.Run("balancing is deterministic", func(t *testing.T) {
		txOuts := []TxOut{AdaTxOut(addrDst, 1_000_000), NewTxOut(addrDst, tokenLQ, 10)}
		txIns := organizeUtxosByCoin([]shared.UtxoRow{
			row("aa#0", shared.AdaAssetID, 5_000_000),
			row("aa#0", tokenLQ, 25),
		})

		first, err := BalanceTxOuts(addrSrc, txOuts, txIns, organizeTxOutsByCoin(txOuts), nil,
			num.Int64(200_000), nil, num.Int64(0), num.Int64(0), false)
		assert.Nil(t, err)
		second, err := BalanceTxOuts(addrSrc, txOuts, txIns, organizeTxOutsByCoin(txOuts), nil,
			num.Int64(200_000), nil, num.Int64(0), num.Int64(0), false)
		assert.Nil(t, err)
		assert.Equal(t, first, second)
	})
}
