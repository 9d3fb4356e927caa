package bindgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Icontee/wake/utils"
)

// ImportRegistry accumulates the imports one generated unit requires, split into four disjoint sets: host-language
// imports (stdlib and runtime packages) and the contract, struct, and enum imports referencing other generated
// units. The registry is reset before each unit is emitted.
type ImportRegistry struct {
	host      map[string]struct{}
	contracts map[string]string
	structs   map[string]string
	enums     map[string]string
}

// NewImportRegistry returns an empty import registry.
func NewImportRegistry() *ImportRegistry {
	registry := &ImportRegistry{}
	registry.Reset()
	return registry
}

// Reset clears all four import sets. Invoked once per compilation unit before emission starts.
func (r *ImportRegistry) Reset() {
	r.host = make(map[string]struct{})
	r.contracts = make(map[string]string)
	r.structs = make(map[string]string)
	r.enums = make(map[string]string)
}

// AddHost registers a host-language import by package path, e.g. "math/big".
func (r *ImportRegistry) AddHost(path string) {
	r.host[path] = struct{}{}
}

// AddContract registers an import of the generated package of the unit declaring a referenced contract.
func (r *ImportRegistry) AddContract(unitName string, path string) {
	r.contracts[unitName] = path
}

// AddStruct registers an import of the generated package of the unit declaring a referenced struct.
func (r *ImportRegistry) AddStruct(unitName string, path string) {
	r.structs[unitName] = path
}

// AddEnum registers an import of the generated package of the unit declaring a referenced enum.
func (r *ImportRegistry) AddEnum(unitName string, path string) {
	r.enums[unitName] = path
}

// UnitAlias derives the package alias a generated file uses when referencing another generated unit. The alias is a
// function of the unit name alone, so every generated file qualifies a given unit identically.
func UnitAlias(unitName string) string {
	alphanumeric := utils.MakePathAlphanumeric(utils.GetFilePathWithoutExtension(unitName))
	return "u_" + strings.ReplaceAll(alphanumeric, "/", "_")
}

// Render returns the unit's import statements as deterministically ordered source lines, host imports first, then
// the generated-unit imports merged from the contract, struct, and enum sets with duplicates removed.
func (r *ImportRegistry) Render() []string {
	var lines []string

	hostPaths := make([]string, 0, len(r.host))
	for path := range r.host {
		hostPaths = append(hostPaths, path)
	}
	sort.Strings(hostPaths)
	for _, path := range hostPaths {
		lines = append(lines, fmt.Sprintf("%q", path))
	}

	// A unit referenced for any of contracts, structs, or enums is imported once under its shared alias.
	merged := make(map[string]string)
	for _, set := range []map[string]string{r.contracts, r.structs, r.enums} {
		for unitName, path := range set {
			merged[unitName] = path
		}
	}
	unitNames := make([]string, 0, len(merged))
	for unitName := range merged {
		unitNames = append(unitNames, unitName)
	}
	sort.Strings(unitNames)
	for _, unitName := range unitNames {
		lines = append(lines, fmt.Sprintf("%s %q", UnitAlias(unitName), merged[unitName]))
	}

	return lines
}
