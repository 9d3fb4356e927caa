package bindgen

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
)

// TestGroupABIBySelectorExpandsTuples ensures function selectors hash the canonical signature with tuple parameters
// expanded to their parenthesized component list.
func TestGroupABIBySelectorExpandsTuples(t *testing.T) {
	t.Parallel()

	rawAbi := []json.RawMessage{
		json.RawMessage(`{"type":"function","name":"settle","inputs":[{"type":"tuple","internalType":"struct Exchange.Order","components":[{"type":"address"},{"type":"uint256"}]},{"type":"bool"}]}`),
		json.RawMessage(`{"type":"constructor","inputs":[]}`),
		json.RawMessage(`{"type":"error","name":"Rejected","inputs":[]}`),
	}

	groups, err := groupABIBySelector(rawAbi, false)
	assert.NoError(t, err)

	selector := hex.EncodeToString(crypto.Keccak256([]byte("settle((address,uint256),bool)"))[:4])
	assert.Contains(t, groups, selector)
	assert.Contains(t, groups, "constructor")
	// Error entries index through their declarations instead.
	assert.EqualValues(t, 2, len(groups))
}

// TestGroupABIBySelectorLibraryInternalTypes ensures library function selectors hash against internal types, with
// struct, enum, and contract parameters rendered by declaration name the way solc dispatches library calls.
func TestGroupABIBySelectorLibraryInternalTypes(t *testing.T) {
	t.Parallel()

	rawAbi := []json.RawMessage{
		json.RawMessage(`{"type":"function","name":"insert","inputs":[{"type":"tuple","internalType":"struct Heap.Data","components":[{"type":"uint256"}]},{"type":"uint8","internalType":"enum Heap.Color"},{"type":"address","internalType":"contract IToken"},{"type":"uint256","internalType":"uint256"}]}`),
	}

	groups, err := groupABIBySelector(rawAbi, true)
	assert.NoError(t, err)

	internal := hex.EncodeToString(crypto.Keccak256([]byte("insert(Heap.Data,Heap.Color,IToken,uint256)"))[:4])
	external := hex.EncodeToString(crypto.Keccak256([]byte("insert((uint256),uint8,address,uint256)"))[:4])
	assert.Contains(t, groups, internal)
	assert.NotContains(t, groups, external)
}
