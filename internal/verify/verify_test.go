package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmagro/eth-gas-report/internal/rpc"
)

// mockNode serves eth_chainId and eth_getBlockByNumber for a node whose head
// sits at head. It records every block argument it is asked for.
func mockNode(t *testing.T, name string, head uint64) (*rpc.Client, *[]string) {
	t.Helper()

	var asked []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpc.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("%s: bad request: %v", name, err)
			return
		}

		switch req.Method {
		case "eth_chainId":
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"result":"0x1"}`, req.ID)
		case "eth_getBlockByNumber":
			arg, _ := req.Params[0].(string)
			asked = append(asked, arg)

			num := head
			if arg != "latest" {
				n, err := rpc.ParseHexUint64(arg)
				if err != nil {
					t.Errorf("%s: bad block arg %q", name, arg)
					return
				}
				num = n
			}
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"result":{
				"number":"0x%x","hash":"0xh%d","parentHash":"0xp%d",
				"stateRoot":"0xs","receiptsRoot":"0xr","transactionsRoot":"0xt",
				"timestamp":"0x6553f2e0","gasUsed":"0x0","gasLimit":"0x1c9c380"
			}}`, req.ID, num, num, num)
		default:
			t.Errorf("%s: unexpected method %s", name, req.Method)
		}
	}))
	t.Cleanup(srv.Close)

	client := rpc.NewClient(rpc.ClientConfig{
		Name:           name,
		URL:            srv.URL,
		Timeout:        2 * time.Second,
		MaxRetries:     1,
		BackoffInitial: time.Millisecond,
		BackoffMax:     5 * time.Millisecond,
	})
	return client, &asked
}

// A "latest" argument must resolve on the primary and reach the secondary as
// that concrete number, even when the secondary's own head is already ahead.
func TestFetchBlockBundlesResolvesTagOnPrimary(t *testing.T) {
	primary, _ := mockNode(t, "primary", 0x100)
	secondary, secondaryAsked := mockNode(t, "secondary", 0x101)

	a, b, err := FetchBlockBundles(context.Background(), primary, secondary, "latest")
	require.NoError(t, err)

	assert.Equal(t, []string{"0x100"}, *secondaryAsked,
		"secondary must be asked for the primary-resolved number, never the tag")
	assert.Equal(t, uint64(0x100), a.Number)
	assert.Equal(t, uint64(0x100), b.Number)
	assert.True(t, AllMatch(CompareBlocks(a, b)), "honest nodes at the same height must agree")
}

func TestFetchBlockBundlesConcreteNumber(t *testing.T) {
	primary, primaryAsked := mockNode(t, "primary", 0x200)
	secondary, secondaryAsked := mockNode(t, "secondary", 0x200)

	a, b, err := FetchBlockBundles(context.Background(), primary, secondary, "0x1fe")
	require.NoError(t, err)

	assert.Equal(t, []string{"0x1fe"}, *primaryAsked)
	assert.Equal(t, []string{"0x1fe"}, *secondaryAsked)
	assert.Equal(t, a.Number, b.Number)
}

func TestCompareTx(t *testing.T) {
	a := &TxBundle{ChainID: 1, BlockNumber: 100, Status: 1, GasUsed: 64231, Commitment: "0xaa"}
	b := &TxBundle{ChainID: 1, BlockNumber: 100, Status: 1, GasUsed: 64231, Commitment: "0xaa"}

	cmp := CompareTx(a, b)
	assert.True(t, AllMatch(cmp))

	b.GasUsed = 64232
	b.Commitment = "0xbb"
	cmp = CompareTx(a, b)
	assert.False(t, AllMatch(cmp))
	assert.False(t, cmp["gasUsed"])
	assert.False(t, cmp["commitment"])
	assert.True(t, cmp["blockNumber"])
}

func TestCompareBlocks(t *testing.T) {
	a := &BlockBundle{ChainID: 1, Number: 100, Hash: "0x1", ParentHash: "0x2", Timestamp: 5, Commitment: "0xaa"}
	b := &BlockBundle{ChainID: 1, Number: 100, Hash: "0x1", ParentHash: "0x2", Timestamp: 5, Commitment: "0xaa"}

	assert.True(t, AllMatch(CompareBlocks(a, b)))

	b.Hash = "0xdiff"
	cmp := CompareBlocks(a, b)
	assert.False(t, cmp["hash"])
	assert.True(t, cmp["parentHash"])
}

func TestSortedKeys(t *testing.T) {
	cmp := map[string]bool{"b": true, "a": false, "c": true}
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(cmp))
}

func TestAllMatchEmpty(t *testing.T) {
	assert.True(t, AllMatch(map[string]bool{}), "nothing compared means nothing mismatched")
}
