package txplan

import (
	"encoding/json"
	"testing"

	"github.com/nsf/jsondiff"
)

func TestMakePayload(t *testing.T) {
	payload := makePayload("queryLedgerState/utxo", Map{"addresses": []string{"addr_test1xyz"}}, Map{})

	got, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("got %v; want nil", err)
	}

	want := `{
		"jsonrpc": "2.0",
		"method": "queryLedgerState/utxo",
		"params": {"addresses": ["addr_test1xyz"]},
		"id": {}
	}`

	opts := jsondiff.DefaultConsoleOptions()
	diff, report := jsondiff.Compare(got, []byte(want), &opts)
	if diff != jsondiff.FullMatch {
		t.Fatalf("got %v; want FullMatch: %v", diff, report)
	}
}
