package shared

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/cardanokit/txplan/ouroboros/num"
)

type UtxoTxID struct {
	ID string `json:"id"`
}

type Utxo struct {
	// TxOut "ref" fields.
	Transaction UtxoTxID `json:"transaction"`
	Index       uint32   `json:"index"`

	// TxOut fields.
	Address   string          `json:"address"`
	Value     Value           `json:"value"`
	DatumHash string          `json:"datumHash,omitempty"`
	Datum     string          `json:"datum,omitempty"`
	Script    json.RawMessage `json:"script,omitempty"`
}

// UtxoID is the canonical "txHash#index" identity of an unspent output.
type UtxoID string

func NewUtxoID(txHash string, index uint32) UtxoID {
	return UtxoID(txHash + "#" + strconv.FormatUint(uint64(index), 10))
}

func (id UtxoID) String() string {
	return string(id)
}

func (id UtxoID) TxHash() string {
	if index := strings.Index(string(id), "#"); index > 0 {
		return string(id[:index])
	}
	return ""
}

func (id UtxoID) Index() int {
	if index := strings.Index(string(id), "#"); index > 0 {
		if v, err := strconv.Atoi(string(id[index+1:])); err == nil {
			return v
		}
	}
	return -1
}

func (u Utxo) ID() UtxoID {
	return NewUtxoID(u.Transaction.ID, u.Index)
}

// HasDatum reports whether the output is locked by a datum hash or an
// inline datum. Such outputs are never auto-selected.
func (u Utxo) HasDatum() bool {
	return u.DatumHash != "" || u.Datum != ""
}

// UtxoRow is a single (utxo, asset, amount) triple. A multi-asset Utxo
// flattens into one row per asset, all sharing the same ID.
type UtxoRow struct {
	ID          UtxoID
	Address     string
	Coin        AssetID
	Amount      num.Int
	DatumLocked bool
}

// Rows flattens the utxo into per-asset rows.
func (u Utxo) Rows() []UtxoRow {
	var rows []UtxoRow
	for _, coin := range u.Value.Flatten() {
		rows = append(rows, UtxoRow{
			ID:          u.ID(),
			Address:     u.Address,
			Coin:        coin.AssetId,
			Amount:      coin.Amount,
			DatumLocked: u.HasDatum(),
		})
	}
	return rows
}

// FlattenUtxos expands every utxo into rows, preserving order.
func FlattenUtxos(utxos []Utxo) []UtxoRow {
	var rows []UtxoRow
	for _, utxo := range utxos {
		rows = append(rows, utxo.Rows()...)
	}
	return rows
}

// TxInQuery identifies an output reference for ledger state queries.
type TxInQuery struct {
	Transaction UtxoTxID `json:"transaction"`
	Index       uint32   `json:"index"`
}

func (t TxInQuery) UtxoID() UtxoID {
	return NewUtxoID(t.Transaction.ID, t.Index)
}
