package bindgen

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/Icontee/wake/compilation/abiutils"
	"github.com/Icontee/wake/compilation/types"
	"github.com/Icontee/wake/logging"
	"github.com/Icontee/wake/utils"
	"github.com/Icontee/wake/version"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Generator emits typed Go bindings and the cross-cutting index manifest for one compiled build. A Generator runs
// single-threaded: the sanitizer, import registry, and emitter carry unit-scoped state which is reset between units
// rather than isolated per task.
type Generator struct {
	config    *GenerationConfig
	logger    *logging.Logger
	sanitizer *Sanitizer
	imports   *ImportRegistry
	mapper    *typeMapper
	indexes   *indexBuilder
	overloads OverloadSet

	build       *types.Build
	currentUnit *types.SourceUnit

	// generated guards against double emission: within one unit via base-first recursion, and across units as the
	// fatal duplicate fully-qualified-name fault.
	generated map[string]string
}

// NewGenerator returns a Generator using the provided configuration. Each run is tagged with a correlation
// identifier on its logger; the identifier never reaches output files, which stay deterministic.
func NewGenerator(config *GenerationConfig) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := logging.GlobalLogger.NewSubLogger("module", logging.BINDGEN_SERVICE).NewSubLogger("run", uuid.New().String())
	sanitizer := NewSanitizer()
	imports := NewImportRegistry()
	return &Generator{
		config:    config,
		logger:    logger,
		sanitizer: sanitizer,
		imports:   imports,
		mapper: &typeMapper{
			config:    config,
			sanitizer: sanitizer,
			imports:   imports,
		},
		indexes:   newIndexBuilder(),
		generated: make(map[string]string),
	}, nil
}

// Generate emits bindings for every compilation unit of the build, then writes the index manifest. The output
// directory is deleted and recreated once at the start; concurrent runs against the same directory must be
// serialized by the caller.
func (g *Generator) Generate(build *types.Build) error {
	g.build = build
	g.overloads = ResolveOverloads(build)

	if err := utils.DeleteDirectory(g.config.OutputDirectory); err != nil {
		return err
	}
	if err := utils.MakeDirectory(g.config.OutputDirectory); err != nil {
		return err
	}

	if err := g.writeBuiltins(); err != nil {
		return err
	}

	scheduler := newUnitScheduler(build.Units)
	if err := scheduler.run(g.generateUnit); err != nil {
		return err
	}
	g.warnCycles(scheduler.cycles)

	manifestPath := filepath.Join(g.config.OutputDirectory, "manifest.json")
	if err := g.indexes.writeManifest(manifestPath, version.GetInfo().Short()); err != nil {
		return err
	}

	g.logger.Info("Generated bindings for ", len(build.Units), " units into ", g.config.OutputDirectory)
	return nil
}

// writeBuiltins emits the record types of the language-level Error(string) and Panic(uint256) reverts at the
// output root. These two can surface from any contract without being declared anywhere, so every generated module
// shares one definition of them.
func (g *Generator) writeBuiltins() error {
	emitter := newUnitEmitter()
	emitter.line("// Code generated by wake gentypes. DO NOT EDIT.")
	emitter.blank()
	emitter.line("package %s", path.Base(g.config.PackagePrefix))
	emitter.blank()
	emitter.line("import (")
	emitter.push()
	emitter.line("%q", "math/big")
	emitter.pop()
	emitter.line(")")
	emitter.blank()
	emitter.line("// Error mirrors the language-level revert `Error(string)`, raised by require and revert with a reason string.")
	emitter.line("type Error struct {")
	emitter.push()
	emitter.line("param1 string")
	emitter.pop()
	emitter.line("}")
	emitter.blank()
	emitter.line("// Selector returns the 4-byte selector of Error.")
	emitter.line("func (Error) Selector() [4]byte { return %s }", byteArrayLiteral(abiutils.BuiltinErrorSelector()))
	emitter.blank()
	emitter.line("// ABIEntry returns the raw ABI entry of Error for runtime decoding.")
	emitter.line("func (Error) ABIEntry() string { return `%s` }", string(abiutils.BuiltinErrorABIEntry()))
	emitter.blank()
	emitter.line("// Panic mirrors the language-level revert `Panic(uint256)`, raised by failed assertions and checked arithmetic.")
	emitter.line("type Panic struct {")
	emitter.push()
	emitter.line("param1 *big.Int")
	emitter.pop()
	emitter.line("}")
	emitter.blank()
	emitter.line("// Selector returns the 4-byte selector of Panic.")
	emitter.line("func (Panic) Selector() [4]byte { return %s }", byteArrayLiteral(abiutils.BuiltinPanicSelector()))
	emitter.blank()
	emitter.line("// ABIEntry returns the raw ABI entry of Panic for runtime decoding.")
	emitter.line("func (Panic) ABIEntry() string { return `%s` }", string(abiutils.BuiltinPanicABIEntry()))
	emitter.blank()

	file, err := utils.CreateFile(g.config.OutputDirectory, "builtins.go")
	if err != nil {
		return err
	}
	if _, err = file.WriteString(emitter.String()); err != nil {
		file.Close()
		return errors.Wrap(err, "could not write builtin revert records")
	}
	return errors.WithStack(file.Close())
}

// warnCycles emits one consolidated warning enumerating every detected import cycle.
func (g *Generator) warnCycles(cycles [][]string) {
	if len(cycles) == 0 {
		return
	}
	descriptions := make([]string, len(cycles))
	for i, cycle := range cycles {
		descriptions[i] = "{" + strings.Join(cycle, ", ") + "}"
	}
	g.logger.Warn("Cyclic imports detected, generation proceeded with best-effort ordering: ", strings.Join(descriptions, "; "))
}

// generateUnit emits one compilation unit's bindings file. Unit-scoped state (global rename table, import
// registry) is reset before emission starts.
func (g *Generator) generateUnit(unitName string) error {
	unit := g.build.UnitByName(unitName)
	if unit == nil {
		return errors.Errorf("scheduler flushed unknown unit %q", unitName)
	}
	g.currentUnit = unit
	g.mapper.currentUnit = unit
	g.sanitizer.ResetGlobalScope()
	g.imports.Reset()

	g.logger.Debug("Generating unit ", unit.Name)

	emitter := newUnitEmitter()
	for _, structDef := range unit.Structs {
		if err := g.emitStruct(emitter, structDef); err != nil {
			return err
		}
	}
	for _, enumDef := range unit.Enums {
		if err := g.emitEnum(emitter, enumDef); err != nil {
			return err
		}
	}
	for _, errorDef := range unit.Errors {
		if err := g.emitError(emitter, errorDef); err != nil {
			return err
		}
	}
	for _, contract := range unit.Contracts {
		if err := g.emitContract(emitter, contract); err != nil {
			return err
		}
	}

	return g.flushUnit(unit, emitter)
}

// flushUnit assembles the unit's file (header comment, package clause, imports, body) and writes it under the
// output root at the unit's derived path.
func (g *Generator) flushUnit(unit *types.SourceUnit, emitter *unitEmitter) error {
	relativePath := utils.MakePathAlphanumeric(utils.GetFilePathWithoutExtension(unit.Name))

	header := newUnitEmitter()
	header.line("// Code generated by wake gentypes. DO NOT EDIT.")
	header.line("// Source unit: %s", unit.Name)
	header.blank()
	header.line("package %s", generatedPackageName(g.config, relativePath))
	header.blank()
	importLines := g.imports.Render()
	if len(importLines) > 0 {
		header.line("import (")
		header.push()
		for _, line := range importLines {
			header.line("%s", line)
		}
		header.pop()
		header.line(")")
		header.blank()
	}

	outputDir := g.config.OutputDirectory
	if dir := path.Dir(relativePath); dir != "." && dir != "" {
		outputDir = filepath.Join(outputDir, dir)
	}
	file, err := utils.CreateFile(outputDir, path.Base(relativePath)+".go")
	if err != nil {
		return err
	}
	if _, err = file.WriteString(header.String() + emitter.String()); err != nil {
		file.Close()
		return errors.Wrapf(err, "could not write generated unit %s", unit.Name)
	}
	return errors.WithStack(file.Close())
}

// generatedPackageName derives the package clause for a unit's generated file: the last directory segment of its
// derived path, or the prefix's base for units at the output root.
func generatedPackageName(config *GenerationConfig, relativePath string) string {
	dir := path.Dir(relativePath)
	if dir == "." || dir == "" {
		return path.Base(config.PackagePrefix)
	}
	return path.Base(dir)
}

// modulePathOf returns the manifest module path of a unit's generated bindings.
func modulePathOf(unit *types.SourceUnit) string {
	return utils.MakePathAlphanumeric(utils.GetFilePathWithoutExtension(unit.Name))
}
