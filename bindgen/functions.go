package bindgen

import (
	"fmt"
	"strings"

	"github.com/Icontee/wake/compilation/types"
)

// paramSpec describes one parameter of a generated signature.
type paramSpec struct {
	name     string
	hostType HostType
	solType  string
}

// returnSpec describes one return value of a generated signature.
type returnSpec struct {
	name     string
	hostType HostType
	solType  string
}

// requestMode describes one of the fixed request modes every function wrapper set covers.
type requestMode struct {
	// suffix is appended to the function's generated name for this mode's wrapper.
	suffix string
	// runtimeMethod is the embedded runtime.Contract method servicing the mode.
	runtimeMethod string
	// runtimeMode is the mode constant the dispatcher defaults to when this is the function's natural mode.
	runtimeMode string
}

var (
	modeCall       = requestMode{suffix: "_call", runtimeMethod: "Call", runtimeMode: "runtime.ModeCall"}
	modeEstimate   = requestMode{suffix: "_estimate", runtimeMethod: "Estimate", runtimeMode: "runtime.ModeEstimate"}
	modeAccessList = requestMode{suffix: "_accessList", runtimeMethod: "AccessList", runtimeMode: "runtime.ModeAccessList"}
	modeSend       = requestMode{suffix: "_send", runtimeMethod: "Send", runtimeMode: "runtime.ModeSend"}
)

// emitFunction emits the per-request-mode wrapper set and the dispatching implementation for one public or
// external function.
func (g *Generator) emitFunction(emitter *unitEmitter, contract *types.ContractDefinition, contractName string, function *types.FunctionDefinition) error {
	baseName, err := g.sanitizer.Sanitize(function)
	if err != nil {
		return err
	}
	if g.overloads.Contains(contract, function) {
		baseName = baseName + overloadSuffix(function)
	}

	params, err := g.buildParameters(function.Parameters)
	if err != nil {
		return err
	}
	returns, err := g.buildReturns(function.ReturnParameters)
	if err != nil {
		return err
	}

	defaultMode := modeSend
	if function.IsViewOrPure() {
		defaultMode = modeCall
	}

	g.emitSignatureDoc(emitter, baseName, function, params, returns)
	g.emitWrapperSet(emitter, contractName, baseName, function.Selector, params, returns, defaultMode)
	return nil
}

// emitGetter synthesizes and emits the wrapper set for a public state variable's auto-generated getter. Index and
// key parameters are derived by unwrapping the variable's container layers.
func (g *Generator) emitGetter(emitter *unitEmitter, contractName string, variable *types.VariableDeclaration) error {
	baseName, err := g.sanitizer.Sanitize(variable)
	if err != nil {
		return err
	}

	params, returns, err := g.getterSignature(variable.Type)
	if err != nil {
		return err
	}

	emitter.line("// %s reads the public state variable `%s %s`.", baseName, variable.TypeString, variable.Name)
	g.emitWrapperSet(emitter, contractName, baseName, variable.Selector, params, returns, modeCall)
	return nil
}

// getterSignature derives a getter's parameters and return values from a state variable's type: each array layer
// contributes one index parameter, each mapping layer one key parameter, and the first non-container layer becomes
// the return. A terminal struct returns whole only when none of its members is itself a container; otherwise the
// getter returns the non-container members as a synthesized multi-value result.
func (g *Generator) getterSignature(descriptor *types.TypeDescriptor) ([]paramSpec, []returnSpec, error) {
	var params []paramSpec
	indexCount, keyCount := 0, 0

	for descriptor.IsCompound() {
		switch descriptor.Tag {
		case types.TypeTagArray:
			g.imports.AddHost("math/big")
			params = append(params, paramSpec{
				name:     fmt.Sprintf("index%d", indexCount),
				hostType: HostType{Expr: "*big.Int"},
				solType:  "uint256",
			})
			indexCount++
		case types.TypeTagMapping:
			keyType, err := g.mapper.mapType(descriptor.Key, ContextParameter)
			if err != nil {
				return nil, nil, err
			}
			params = append(params, paramSpec{
				name:     fmt.Sprintf("key%d", keyCount),
				hostType: keyType,
				solType:  descriptor.Key.TypeString,
			})
			keyCount++
		}
		descriptor = descriptor.Elem
	}

	if descriptor.Tag == types.TypeTagStruct {
		returns, err := g.structGetterReturns(descriptor)
		if err != nil {
			return nil, nil, err
		}
		return params, returns, nil
	}

	returnType, err := g.mapper.mapType(descriptor, ContextReturn)
	if err != nil {
		return nil, nil, err
	}
	return params, []returnSpec{{hostType: returnType, solType: descriptor.TypeString}}, nil
}

// structGetterReturns applies the partial-exposure rule for struct-typed getters: the whole struct when every
// member is scalar, otherwise only the non-container members, since container members never cross the getter wire
// format.
func (g *Generator) structGetterReturns(descriptor *types.TypeDescriptor) ([]returnSpec, error) {
	wholeStruct := true
	for _, member := range descriptor.Struct.Members {
		if member.Type.IsCompound() {
			wholeStruct = false
			break
		}
	}

	if wholeStruct {
		returnType, err := g.mapper.mapType(descriptor, ContextReturn)
		if err != nil {
			return nil, err
		}
		return []returnSpec{{hostType: returnType, solType: descriptor.TypeString}}, nil
	}

	var returns []returnSpec
	for _, member := range descriptor.Struct.Members {
		if member.Type.IsCompound() {
			continue
		}
		memberName, err := g.sanitizer.Sanitize(member)
		if err != nil {
			return nil, err
		}
		memberType, err := g.mapper.mapType(member.Type, ContextReturn)
		if err != nil {
			return nil, err
		}
		returns = append(returns, returnSpec{name: memberName, hostType: memberType, solType: member.TypeString})
	}
	return returns, nil
}

// buildParameters maps a parameter list into generated parameter specs, synthesizing positional names for unnamed
// parameters.
func (g *Generator) buildParameters(list *types.ParameterList) ([]paramSpec, error) {
	params := make([]paramSpec, 0, len(list.Parameters))
	for i, parameter := range list.Parameters {
		name, err := g.parameterName(parameter, i, "arg")
		if err != nil {
			return nil, err
		}
		hostType, err := g.mapper.mapType(parameter.Type, ContextParameter)
		if err != nil {
			return nil, err
		}
		params = append(params, paramSpec{name: name, hostType: hostType, solType: parameter.TypeString})
	}
	return params, nil
}

// buildReturns maps a return parameter list into generated return specs.
func (g *Generator) buildReturns(list *types.ParameterList) ([]returnSpec, error) {
	returns := make([]returnSpec, 0, len(list.Parameters))
	for _, parameter := range list.Parameters {
		hostType, err := g.mapper.mapType(parameter.Type, ContextReturn)
		if err != nil {
			return nil, err
		}
		returns = append(returns, returnSpec{name: parameter.Name, hostType: hostType, solType: parameter.TypeString})
	}
	return returns, nil
}

// emitSignatureDoc writes the documentation comment of a function's wrapper set, listing the original source type
// strings of its parameters and returns.
func (g *Generator) emitSignatureDoc(emitter *unitEmitter, baseName string, function *types.FunctionDefinition, params []paramSpec, returns []returnSpec) {
	emitter.line("// %s corresponds to the Solidity function `%s`.", baseName, function.Name)
	if len(params) > 0 {
		emitter.line("// Parameters:")
		for _, param := range params {
			emitter.line("//   %s: %s", param.name, param.solType)
		}
	}
	if len(returns) > 0 {
		emitter.line("// Returns:")
		for _, ret := range returns {
			if ret.name != "" {
				emitter.line("//   %s: %s", ret.name, ret.solType)
			} else {
				emitter.line("//   %s", ret.solType)
			}
		}
	}
}

// emitWrapperSet emits the four request-mode wrappers and the dispatching implementation shared by functions and
// getters. All five share one parameter list plus the trailing transaction-control options.
func (g *Generator) emitWrapperSet(emitter *unitEmitter, contractName string, baseName string, selector []byte, params []paramSpec, returns []returnSpec, defaultMode requestMode) {
	g.imports.AddHost(g.config.RuntimePackage)
	paramList := renderParams(params)
	argList := renderArgs(params)
	selectorLiteral := "runtime.Selector" + strings.TrimPrefix(byteArrayLiteral(selector), "[4]byte")

	// The concrete implementation: dispatches the selector with the function's natural mode unless the options
	// override it.
	emitter.line("func (c *%s) %s(%sopts *runtime.TxOptions) ([]any, error) {", contractName, baseName, paramList)
	emitter.push()
	emitter.line("return c.Execute(%s, []any{%s}, runtime.DefaultMode(opts, %s))", selectorLiteral, argList, defaultMode.runtimeMode)
	emitter.pop()
	emitter.line("}")
	emitter.blank()

	// Read-only call wrapper, with typed decoded returns.
	emitter.line("// %s%s performs %s as a read-only call.", baseName, modeCall.suffix, baseName)
	emitter.line("func (c *%s) %s%s(%sopts *runtime.TxOptions) (%serr error) {", contractName, baseName, modeCall.suffix, paramList, renderNamedReturns(returns))
	emitter.push()
	if len(returns) == 0 {
		emitter.line("_, err = c.Execute(%s, []any{%s}, runtime.WithMode(opts, %s))", selectorLiteral, argList, modeCall.runtimeMode)
		emitter.line("return")
	} else {
		emitter.line("out, err := c.Execute(%s, []any{%s}, runtime.WithMode(opts, %s))", selectorLiteral, argList, modeCall.runtimeMode)
		emitter.line("if err != nil {")
		emitter.push()
		emitter.line("return")
		emitter.pop()
		emitter.line("}")
		for i, ret := range returns {
			emitter.line("ret%d = out[%d].(%s)", i, i, ret.hostType.Expr)
		}
		emitter.line("return")
	}
	emitter.pop()
	emitter.line("}")
	emitter.blank()

	// Gas estimation wrapper.
	emitter.line("// %s%s estimates the gas %s would consume.", baseName, modeEstimate.suffix, baseName)
	emitter.line("func (c *%s) %s%s(%sopts *runtime.TxOptions) (uint64, error) {", contractName, baseName, modeEstimate.suffix, paramList)
	emitter.push()
	emitter.line("return c.%s(%s, []any{%s}, opts)", modeEstimate.runtimeMethod, selectorLiteral, argList)
	emitter.pop()
	emitter.line("}")
	emitter.blank()

	// Access-list simulation wrapper.
	emitter.line("// %s%s simulates %s and returns the touched state access list.", baseName, modeAccessList.suffix, baseName)
	emitter.line("func (c *%s) %s%s(%sopts *runtime.TxOptions) (*runtime.AccessList, error) {", contractName, baseName, modeAccessList.suffix, paramList)
	emitter.push()
	emitter.line("return c.%s(%s, []any{%s}, opts)", modeAccessList.runtimeMethod, selectorLiteral, argList)
	emitter.pop()
	emitter.line("}")
	emitter.blank()

	// State-changing submission wrapper.
	emitter.line("// %s%s submits %s as a state-changing transaction.", baseName, modeSend.suffix, baseName)
	emitter.line("func (c *%s) %s%s(%sopts *runtime.TxOptions) (*runtime.Transaction, error) {", contractName, baseName, modeSend.suffix, paramList)
	emitter.push()
	emitter.line("return c.%s(%s, []any{%s}, opts)", modeSend.runtimeMethod, selectorLiteral, argList)
	emitter.pop()
	emitter.line("}")
	emitter.blank()
}

// renderParams renders "name type, " pairs for a generated signature, with a trailing separator when non-empty.
func renderParams(params []paramSpec) string {
	var rendered strings.Builder
	for _, param := range params {
		rendered.WriteString(param.name)
		rendered.WriteByte(' ')
		rendered.WriteString(param.hostType.Expr)
		rendered.WriteString(", ")
	}
	return rendered.String()
}

// renderArgs renders the argument forwarding list of a generated wrapper body.
func renderArgs(params []paramSpec) string {
	names := make([]string, len(params))
	for i, param := range params {
		names[i] = param.name
	}
	return strings.Join(names, ", ")
}

// renderNamedReturns renders the named typed return values of a call wrapper, with a trailing separator when
// non-empty. Naming them keeps their zero values implicit on the error path.
func renderNamedReturns(returns []returnSpec) string {
	var rendered strings.Builder
	for i, ret := range returns {
		fmt.Fprintf(&rendered, "ret%d %s, ", i, ret.hostType.Expr)
	}
	return rendered.String()
}

// overloadSuffix derives the parameter-type suffix distinguishing the members of an overload set.
func overloadSuffix(function *types.FunctionDefinition) string {
	if len(function.Parameters.Parameters) == 0 {
		return "_"
	}
	parts := make([]string, len(function.Parameters.Parameters))
	for i, parameter := range function.Parameters.Parameters {
		parts[i] = typeSuffix(parameter.Type)
	}
	return "_" + strings.Join(parts, "_")
}

// typeSuffix renders a type descriptor as an identifier fragment for overload-distinguishing names.
func typeSuffix(descriptor *types.TypeDescriptor) string {
	switch descriptor.Tag {
	case types.TypeTagAddress, types.TypeTagContract:
		return "address"
	case types.TypeTagBool:
		return "bool"
	case types.TypeTagString:
		return "string"
	case types.TypeTagBytes:
		return "bytes"
	case types.TypeTagFixedBytes:
		return fmt.Sprintf("bytes%d", descriptor.ByteCount)
	case types.TypeTagInt:
		return fmt.Sprintf("int%d", integerBits(descriptor.Bits))
	case types.TypeTagUInt:
		return fmt.Sprintf("uint%d", integerBits(descriptor.Bits))
	case types.TypeTagArray:
		return typeSuffix(descriptor.Elem) + "_arr"
	case types.TypeTagEnum:
		return "uint8"
	case types.TypeTagStruct:
		return descriptor.Struct.Name
	case types.TypeTagUserDefinedValue:
		return typeSuffix(descriptor.Elem)
	case types.TypeTagFunction:
		return "function"
	default:
		return string(descriptor.Tag)
	}
}

func integerBits(bits int) int {
	if bits == 0 {
		return 256
	}
	return bits
}

// visibleFunction reports whether a function gets generated wrappers: selector-bearing, public or external, and
// not the constructor (which is serviced by the deploy helpers).
func visibleFunction(function *types.FunctionDefinition) bool {
	if function.Name == "constructor" || len(function.Selector) == 0 {
		return false
	}
	return function.Visibility == types.VisibilityPublic || function.Visibility == types.VisibilityExternal
}

// publicVariable reports whether a state variable gets a generated getter.
func publicVariable(variable *types.VariableDeclaration) bool {
	return variable.Visibility == types.VisibilityPublic && len(variable.Selector) > 0
}
