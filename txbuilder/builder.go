package txbuilder

import (
	"context"
	"fmt"

	"github.com/cardanokit/txplan/logger"
	"github.com/cardanokit/txplan/ouroboros/num"
	"github.com/cardanokit/txplan/ouroboros/shared"
)

// UtxoQuerier supplies the unspent outputs of an address. Satisfied by the
// root package Client.
type UtxoQuerier interface {
	UtxosByAddress(ctx context.Context, addresses ...string) ([]shared.Utxo, error)
}

// Builder plans balanced transactions. It holds no per-transaction state;
// one Builder may serve concurrent calls over disjoint utxo snapshots.
type Builder struct {
	querier        UtxoQuerier
	logger         logger.Logger
	minChangeValue num.Int
}

type BuilderOption func(*Builder)

func WithLogger(log logger.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = log
	}
}

// WithMinChangeValue sets the dust floor for change outputs; source it from
// the live protocol parameters.
func WithMinChangeValue(v num.Int) BuilderOption {
	return func(b *Builder) {
		b.minChangeValue = v
	}
}

func NewBuilder(querier UtxoQuerier, opts ...BuilderOption) *Builder {
	builder := &Builder{
		querier: querier,
		logger:  logger.DefaultLogger,
		// Conservative lovelace dust floor, overridden via WithMinChangeValue.
		minChangeValue: num.Int64(2_000_000),
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder
}

// BuildParams carries everything a single plan needs. All amounts must be
// resolved before the call: withdrawals concrete, deposits summed per
// certificate, the mint rows signed (negative = burn).
type BuildParams struct {
	// SrcAddress funds the fee and, when TxIns is empty, supplies the
	// candidate inputs.
	SrcAddress string

	// ChangeAddress receives change outputs; defaults to SrcAddress.
	// Invalid in combination with a send-all output.
	ChangeAddress string

	// TxIns, when non-empty, are used verbatim: no selection, no datum
	// filtering. Script-driven transactions need that exact control.
	TxIns []shared.UtxoRow

	TxOuts     []TxOut
	MintTxOuts []TxOut

	Fee              num.Int
	Deposit          num.Int
	TreasuryDonation num.Int

	// Withdrawals are resolved reward amounts; they augment available
	// base-asset funds.
	Withdrawals []TxOut

	// SrcAddrUtxos is an optional pre-fetched snapshot; when nil the
	// querier is asked.
	SrcAddrUtxos []shared.Utxo

	// SkipAssetBalancing leaves change computation to an external build
	// command.
	SkipAssetBalancing bool
}

// BuildBalancedPlan selects inputs and balances outputs so that, per asset,
// the sum of inputs plus minted value plus withdrawals equals the sum of
// outputs plus fee, deposit and donation.
func (b *Builder) BuildBalancedPlan(ctx context.Context, params BuildParams) (Plan, error) {
	changeAddress := params.ChangeAddress
	if changeAddress == "" {
		changeAddress = params.SrcAddress
	} else if hasSendAll(params.TxOuts) {
		return Plan{}, fmt.Errorf("cannot combine a send-all output with an explicit change address: %w", ErrBadRequest)
	}

	txOutsByCoin := organizeTxOutsByCoin(params.TxOuts)
	mintByCoin := organizeTxOutsByCoin(params.MintTxOuts)

	// All output coins, plus the base asset for the fee.
	outCoinsAll := map[shared.AssetID]bool{shared.AdaAssetID: true}
	for coin := range txOutsByCoin {
		outCoinsAll[coin] = true
	}
	for coin := range mintByCoin {
		outCoinsAll[coin] = true
	}

	txInsAll := params.TxIns
	if len(txInsAll) == 0 {
		utxos := params.SrcAddrUtxos
		if utxos == nil {
			var err error
			utxos, err = b.querier.UtxosByAddress(ctx, params.SrcAddress)
			if err != nil {
				return Plan{}, fmt.Errorf("failed to query utxos for %v: %w", params.SrcAddress, err)
			}
		}
		if len(utxos) == 0 {
			return Plan{}, fmt.Errorf("no utxo returned for %v: %w", params.SrcAddress, ErrBadRequest)
		}

		var err error
		txInsAll, err = usableUtxos(shared.FlattenUtxos(utxos), outCoinsAll)
		if err != nil {
			return Plan{}, err
		}
	}
	if len(txInsAll) == 0 {
		return Plan{}, fmt.Errorf("no input utxo: %w", ErrBadRequest)
	}

	txInsByCoinAndID := organizeUtxosByCoinAndID(txInsAll)

	// Every required coin that isn't minted by this transaction must be
	// present in the inputs. The base asset is always required: the fee has
	// to be funded from an input.
	for coin := range outCoinsAll {
		if _, minted := mintByCoin[coin]; minted {
			continue
		}
		if _, ok := txInsByCoinAndID[coin]; !ok {
			return Plan{}, fmt.Errorf("output coin %v is not present in input utxos: %w", coin, ErrBadRequest)
		}
	}

	var txInsFiltered []shared.UtxoRow
	if len(params.TxIns) > 0 {
		// Inputs passed by the caller are not touched.
		txInsFiltered = txInsAll
	} else {
		selected := SelectUtxos(
			txInsByCoinAndID,
			txOutsByCoin,
			mintByCoin,
			params.Fee,
			params.Deposit,
			params.TreasuryDonation,
			params.Withdrawals,
			b.minChangeValue,
			b.logger,
		)

		txInsByID := organizeUtxosByID(txInsAll)
		for _, id := range sortedUtxoIDs(selected) {
			txInsFiltered = append(txInsFiltered, txInsByID[id]...)
		}
	}
	if len(txInsFiltered) == 0 {
		return Plan{}, fmt.Errorf("cannot build transaction, empty txins: %w", ErrBadRequest)
	}

	txOuts, err := BalanceTxOuts(
		changeAddress,
		params.TxOuts,
		organizeUtxosByCoin(txInsFiltered),
		txOutsByCoin,
		mintByCoin,
		params.Fee,
		params.Withdrawals,
		params.Deposit,
		params.TreasuryDonation,
		params.SkipAssetBalancing,
	)
	if err != nil {
		return Plan{}, err
	}

	return Plan{TxIns: txInsFiltered, TxOuts: txOuts}, nil
}

// usableUtxos keeps the utxos that hold any of the required coins and are
// not datum locked. A datum-locked output requires explicit caller opt-in
// through BuildParams.TxIns; if the only matching outputs carry a datum,
// that is an error rather than a silent skip.
func usableUtxos(rows []shared.UtxoRow, coins map[shared.AssetID]bool) ([]shared.UtxoRow, error) {
	rowsByID := organizeUtxosByID(rows)

	var usable []shared.UtxoRow
	seen := map[shared.UtxoID]bool{}
	matchingWithDatum := false
	for _, row := range rows {
		if !coins[row.Coin] || seen[row.ID] {
			continue
		}
		if row.DatumLocked {
			matchingWithDatum = true
			continue
		}
		seen[row.ID] = true
		usable = append(usable, rowsByID[row.ID]...)
	}

	if len(usable) == 0 && matchingWithDatum {
		return nil, fmt.Errorf("the only matching utxos have datum: %w", ErrBadRequest)
	}
	return usable, nil
}
