package bindgen

import (
	"fmt"
	"strings"

	"github.com/Icontee/wake/compilation/types"
)

// emitDeployHelpers emits the free deploy functions of a contract: the linked deployment-code helper, the default
// deploy dispatcher, and the per-request-mode deploy variants. Abstract contracts and interfaces get a single
// helper that raises at runtime, so referencing it is not a compile error in consumer code.
func (g *Generator) emitDeployHelpers(emitter *unitEmitter, contract *types.ContractDefinition, name string) error {
	fqn := contract.FullyQualifiedName()
	deployable := !contract.Abstract &&
		contract.Kind != types.ContractKindInterface &&
		contract.Artifact != nil &&
		contract.Artifact.InitBytecode != ""

	if !deployable {
		emitter.line("// %s_deploy reports that `%s` cannot be deployed directly.", name, fqn)
		emitter.line("func %s_deploy(opts *runtime.TxOptions) (*%s, error) {", name, name)
		emitter.push()
		emitter.line("return nil, runtime.DeployUnsupported(%q)", fqn)
		emitter.pop()
		emitter.line("}")
		emitter.blank()
		return nil
	}

	segments, err := types.SplitBytecodeSegments(strings.TrimPrefix(contract.Artifact.InitBytecode, "0x"))
	if err != nil {
		return err
	}
	libraries := make([]*types.ContractDefinition, len(segments.Placeholders))
	for i, placeholder := range segments.Placeholders {
		if libraries[i], err = g.resolveLibrary(placeholder); err != nil {
			return err
		}
	}
	libraryParams := ""
	libraryArgs := ""
	for i := range libraries {
		libraryParams += fmt.Sprintf("library%d common.Address, ", i)
		libraryArgs += fmt.Sprintf("library%d, ", i)
	}
	if len(libraries) > 0 {
		g.imports.AddHost("github.com/ethereum/go-ethereum/common")
	}

	emitter.line("// %s_deploymentCode returns the contract's deployment bytecode with library placeholders linked.", name)
	for i, library := range libraries {
		emitter.line("// library%d is the deployed address of `%s`.", i, library.FullyQualifiedName())
	}
	emitter.line("func %s_deploymentCode(%s) ([]byte, error) {", name, strings.TrimSuffix(libraryParams, ", "))
	emitter.push()
	if len(libraries) == 0 {
		emitter.line("return runtime.LinkDeploymentCode(%s_deploymentHex, nil)", name)
	} else {
		emitter.line("return runtime.LinkDeploymentCode(%s_deploymentHex, []runtime.LinkReference{", name)
		emitter.push()
		for i, placeholder := range segments.Placeholders {
			emitter.line("{Placeholder: %q, Address: library%d},", placeholder, i)
		}
		emitter.pop()
		emitter.line("})")
	}
	emitter.pop()
	emitter.line("}")
	emitter.blank()

	var params []paramSpec
	if constructor := contract.Constructor(); constructor != nil {
		if params, err = g.buildParameters(constructor.Parameters); err != nil {
			return err
		}
	}
	signature := renderParams(params) + libraryParams
	argList := renderArgs(params)

	emitter.line("// %s_deploy deploys `%s` and binds the new instance.", name, fqn)
	for _, param := range params {
		emitter.line("//   %s: %s", param.name, param.solType)
	}
	emitter.line("func %s_deploy(%sopts *runtime.TxOptions) (*%s, error) {", name, signature, name)
	emitter.push()
	emitter.line("code, err := %s_deploymentCode(%s)", name, strings.TrimSuffix(libraryArgs, ", "))
	emitter.line("if err != nil {")
	emitter.push()
	emitter.line("return nil, err")
	emitter.pop()
	emitter.line("}")
	emitter.line("instance, err := runtime.Deploy(code, %s_abi[\"constructor\"], []any{%s}, opts)", name, argList)
	emitter.line("if err != nil {")
	emitter.push()
	emitter.line("return nil, err")
	emitter.pop()
	emitter.line("}")
	emitter.line("return &%s{Contract: instance}, nil", name)
	emitter.pop()
	emitter.line("}")
	emitter.blank()

	deployModes := []struct {
		suffix        string
		returnType    string
		zeroReturn    string
		runtimeDeploy string
	}{
		{suffix: "_estimate", returnType: "uint64", zeroReturn: "0", runtimeDeploy: "runtime.EstimateDeploy"},
		{suffix: "_accessList", returnType: "*runtime.AccessList", zeroReturn: "nil", runtimeDeploy: "runtime.AccessListDeploy"},
		{suffix: "_send", returnType: "*runtime.Transaction", zeroReturn: "nil", runtimeDeploy: "runtime.SendDeploy"},
	}
	for _, mode := range deployModes {
		emitter.line("func %s_deploy%s(%sopts *runtime.TxOptions) (%s, error) {", name, mode.suffix, signature, mode.returnType)
		emitter.push()
		emitter.line("code, err := %s_deploymentCode(%s)", name, strings.TrimSuffix(libraryArgs, ", "))
		emitter.line("if err != nil {")
		emitter.push()
		emitter.line("return %s, err", mode.zeroReturn)
		emitter.pop()
		emitter.line("}")
		emitter.line("return %s(code, %s_abi[\"constructor\"], []any{%s}, opts)", mode.runtimeDeploy, name, argList)
		emitter.pop()
		emitter.line("}")
		emitter.blank()
	}

	if g.config.ReturnTransaction {
		allArgs := argList
		if allArgs != "" && libraryArgs != "" {
			allArgs += ", "
		}
		allArgs += strings.TrimSuffix(libraryArgs, ", ")
		emitter.line("// %s_deploy_tx deploys without waiting for inclusion and returns the pending transaction.", name)
		emitter.line("func %s_deploy_tx(%sopts *runtime.TxOptions) (*runtime.Transaction, error) {", name, signature)
		emitter.push()
		if allArgs == "" {
			emitter.line("return %s_deploy_send(opts)", name)
		} else {
			emitter.line("return %s_deploy_send(%s, opts)", name, allArgs)
		}
		emitter.pop()
		emitter.line("}")
		emitter.blank()
	}

	return nil
}
