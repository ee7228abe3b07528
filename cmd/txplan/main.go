// Command txplan plans, balances and submits Cardano transactions against
// a running Ogmios server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/cardanokit/txplan"
	"github.com/cardanokit/txplan/ouroboros/num"
	"github.com/cardanokit/txplan/ouroboros/shared"
	"github.com/cardanokit/txplan/txbuilder"
)

func main() {
	app := &cli.App{
		Name:  "txplan",
		Usage: "plan balanced Cardano transactions via Ogmios",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "ogmios",
				Usage:   "websocket endpoint of the Ogmios server",
				Value:   "ws://127.0.0.1:1337",
				EnvVars: []string{"OGMIOS"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "tip",
				Usage:  "print the current block height and epoch",
				Action: tipAction,
			},
			{
				Name:      "utxos",
				Usage:     "list the unspent outputs of an address",
				ArgsUsage: "ADDRESS",
				Action:    utxosAction,
			},
			{
				Name:  "plan",
				Usage: "select inputs and balance outputs for a payment",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "from",
						Usage:    "source address funding the transaction",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  "txout",
						Usage: "requested output, ADDRESS:AMOUNT[:POLICY.ASSET]; amount -1 sends all remaining funds",
					},
					&cli.StringFlag{
						Name:  "change",
						Usage: "address receiving change, defaults to the source address",
					},
					&cli.Int64Flag{
						Name:  "fee",
						Usage: "transaction fee in lovelace",
					},
				},
				Action: planAction,
			},
			{
				Name:      "submit",
				Usage:     "submit a signed transaction and wait for it to appear on chain",
				ArgsUsage: "CBOR_HEX",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "txin",
						Usage:    "consumed input, TXHASH#INDEX; used to confirm the submission",
						Required: true,
					},
				},
				Action: submitAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newClient(c *cli.Context) *txplan.Client {
	return txplan.New(txplan.WithEndpoint(c.String("ogmios")))
}

func tipAction(c *cli.Context) error {
	client := newClient(c)

	height, err := client.BlockHeight(c.Context)
	if err != nil {
		return err
	}
	epoch, err := client.CurrentEpoch(c.Context)
	if err != nil {
		return err
	}

	fmt.Printf("height=%d epoch=%d\n", height, epoch)
	return nil
}

func utxosAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one address")
	}

	client := newClient(c)
	utxos, err := client.UtxosByAddress(c.Context, c.Args().First())
	if err != nil {
		return err
	}

	return printJSON(utxos)
}

func planAction(c *cli.Context) error {
	txOuts, err := parseTxOuts(c.StringSlice("txout"))
	if err != nil {
		return err
	}

	client := newClient(c)
	minChangeValue, err := client.MinChangeValue(c.Context)
	if err != nil {
		return err
	}

	builder := txbuilder.NewBuilder(client, txbuilder.WithMinChangeValue(minChangeValue))
	plan, err := builder.BuildBalancedPlan(c.Context, txbuilder.BuildParams{
		SrcAddress:    c.String("from"),
		ChangeAddress: c.String("change"),
		TxOuts:        txOuts,
		Fee:           num.Int64(c.Int64("fee")),
	})
	if err != nil {
		return err
	}

	return printJSON(plan)
}

func submitAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected the CBOR-serialized transaction as hex")
	}

	txIns, err := parseTxIns(c.StringSlice("txin"))
	if err != nil {
		return err
	}

	client := newClient(c)
	txID, err := client.SubmitTxWithRetry(context.Background(), c.Args().First(), txIns)
	if err != nil {
		return err
	}

	fmt.Println(txID)
	return nil
}

// parseTxOuts parses ADDRESS:AMOUNT[:POLICY.ASSET] rows.
func parseTxOuts(rows []string) ([]txbuilder.TxOut, error) {
	var txOuts []txbuilder.TxOut
	for _, row := range rows {
		parts := strings.SplitN(row, ":", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("invalid txout %q, want ADDRESS:AMOUNT[:POLICY.ASSET]", row)
		}

		amount, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid txout amount %q: %w", parts[1], err)
		}

		coin := shared.AdaAssetID
		if len(parts) == 3 {
			coin = shared.AssetID(parts[2])
		}
		txOuts = append(txOuts, txbuilder.NewTxOut(parts[0], coin, amount))
	}
	return txOuts, nil
}

// parseTxIns parses TXHASH#INDEX references.
func parseTxIns(rows []string) ([]shared.TxInQuery, error) {
	var txIns []shared.TxInQuery
	for _, row := range rows {
		id := shared.UtxoID(row)
		if id.TxHash() == "" || id.Index() < 0 {
			return nil, fmt.Errorf("invalid txin %q, want TXHASH#INDEX", row)
		}
		txIns = append(txIns, shared.TxInQuery{
			Transaction: shared.UtxoTxID{ID: id.TxHash()},
			Index:       uint32(id.Index()),
		})
	}
	return txIns, nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
