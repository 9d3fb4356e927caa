package bindgen

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"strings"

	"github.com/Icontee/wake/compilation/abiutils"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// contractEntry locates one generated contract binding inside the output module tree.
type contractEntry struct {
	Module string `json:"module"`
	Name   string `json:"name"`
}

// symbolEntry attributes a selector to one declaration. The same selector can legitimately resolve to several
// declarations, one per contract whose ABI carries it.
type symbolEntry struct {
	Contract string `json:"contract"`
	Module   string `json:"module"`
	Name     string `json:"name"`
}

// metadataEntry attributes one 53-byte compiler metadata tail to the contract whose deployed bytecode carries it,
// alongside the bytecode hash embedded in the tail's CBOR payload when one decodes.
type metadataEntry struct {
	Contract     string `json:"contract"`
	BytecodeHash string `json:"bytecodeHash,omitempty"`
}

// segmentEntry describes a contract's deployment bytecode split at library placeholders: the fingerprints of the
// fixed segments and the fully qualified names of the libraries filling the gaps, in bytecode order.
type segmentEntry struct {
	Fingerprints []string `json:"fingerprints"`
	Libraries    []string `json:"libraries,omitempty"`
}

// manifest is the machine-readable companion of a generation run, written next to the generated sources.
type manifest struct {
	Version     string                    `json:"version"`
	Contracts   map[string]contractEntry  `json:"contracts"`
	Errors      map[string][]symbolEntry  `json:"errors"`
	Events      map[string][]symbolEntry  `json:"events"`
	Inheritance map[string][]string       `json:"inheritance"`
	RevertSites map[string][]int          `json:"revertSites"`
	Metadata    map[string]metadataEntry  `json:"metadata"`
	Segments    map[string]segmentEntry   `json:"segments"`
}

// indexBuilder accumulates the cross-unit lookup indexes while units are generated and serializes them into the
// manifest once the run completes.
type indexBuilder struct {
	contracts   map[string]contractEntry
	errors      map[string][]symbolEntry
	events      map[string][]symbolEntry
	inheritance map[string][]string
	revertSites map[string][]int
	metadata    map[string]metadataEntry
	segments    map[string]segmentEntry
}

// newIndexBuilder creates an empty index set, pre-seeded with the language-level Error(string) and Panic(uint256)
// reverts under an empty contract name. Those two can surface from any contract without being declared anywhere.
func newIndexBuilder() *indexBuilder {
	builder := &indexBuilder{
		contracts:   make(map[string]contractEntry),
		errors:      make(map[string][]symbolEntry),
		events:      make(map[string][]symbolEntry),
		inheritance: make(map[string][]string),
		revertSites: make(map[string][]int),
		metadata:    make(map[string]metadataEntry),
		segments:    make(map[string]segmentEntry),
	}
	builder.addError(abiutils.BuiltinErrorSelector(), "", "", "Error")
	builder.addError(abiutils.BuiltinPanicSelector(), "", "", "Panic")
	return builder
}

func (b *indexBuilder) addContract(fqn string, module string, name string) {
	b.contracts[fqn] = contractEntry{Module: module, Name: name}
}

func (b *indexBuilder) addError(selector []byte, contractFqn string, module string, name string) {
	key := hexKey(selector)
	b.errors[key] = append(b.errors[key], symbolEntry{Contract: contractFqn, Module: module, Name: name})
}

func (b *indexBuilder) addEvent(selector []byte, contractFqn string, module string, name string) {
	key := hexKey(selector)
	b.events[key] = append(b.events[key], symbolEntry{Contract: contractFqn, Module: module, Name: name})
}

func (b *indexBuilder) addInheritance(fqn string, linearizedBases []string) {
	b.inheritance[fqn] = linearizedBases
}

func (b *indexBuilder) addRevertSite(fqn string, pc int) {
	b.revertSites[fqn] = append(b.revertSites[fqn], pc)
}

func (b *indexBuilder) addMetadata(metadataHex string, fqn string, bytecodeHash string) {
	b.metadata[metadataHex] = metadataEntry{Contract: fqn, BytecodeHash: bytecodeHash}
}

func (b *indexBuilder) addSegments(fqn string, fingerprints []string, libraries []string) {
	b.segments[fqn] = segmentEntry{Fingerprints: fingerprints, Libraries: libraries}
}

// writeManifest finalizes the indexes and writes them as indented JSON. Entry lists and program counters are
// sorted so the manifest is byte-identical across runs over the same build.
func (b *indexBuilder) writeManifest(path string, version string) error {
	for _, entries := range b.errors {
		sortSymbolEntries(entries)
	}
	for _, entries := range b.events {
		sortSymbolEntries(entries)
	}
	for _, sites := range b.revertSites {
		slices.Sort(sites)
	}

	document := manifest{
		Version:     version,
		Contracts:   b.contracts,
		Errors:      b.errors,
		Events:      b.events,
		Inheritance: b.inheritance,
		RevertSites: b.revertSites,
		Metadata:    b.metadata,
		Segments:    b.segments,
	}
	encoded, err := json.MarshalIndent(document, "", "\t")
	if err != nil {
		return errors.WithStack(err)
	}
	if err = os.WriteFile(path, encoded, 0644); err != nil {
		return errors.Wrap(err, "could not write generation manifest")
	}
	return nil
}

func sortSymbolEntries(entries []symbolEntry) {
	slices.SortFunc(entries, func(a symbolEntry, b symbolEntry) int {
		if a.Contract != b.Contract {
			return strings.Compare(a.Contract, b.Contract)
		}
		return strings.Compare(a.Name, b.Name)
	})
}

func hexKey(selector []byte) string {
	return hex.EncodeToString(selector)
}
