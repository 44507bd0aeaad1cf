package extractor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uisema/pkg/ir"
	"github.com/gnana997/uisema/pkg/parser"
)

// setupExtractor creates an extractor for testing
func setupExtractor(_ *testing.T) *Extractor {
	pm := parser.NewManager(nil)
	return NewExtractor(pm, nil, nil)
}

func extractSource(t *testing.T, source string) *ir.DeclarationFile {
	t.Helper()
	ex := setupExtractor(t)
	file, err := ex.ExtractFile("test.ts", []byte(source))
	require.NoError(t, err)
	require.NotNil(t, file)
	return file
}

func TestExtractFile_CounterSample(t *testing.T) {
	ex := setupExtractor(t)

	filePath := filepath.Join("testdata", "counter.ts")
	sourceCode, err := os.ReadFile(filePath)
	require.NoError(t, err)

	file, err := ex.ExtractFile(filePath, sourceCode)
	require.NoError(t, err)
	require.NotNil(t, file)

	// Imports: named, namespace, bare.
	require.Len(t, file.Imports, 3)
	assert.Equal(t, "package:ui/widgets.ts", file.Imports[0].URI)
	assert.Equal(t, []string{"Text", "Column", "Container"}, file.Imports[0].Show)
	assert.Equal(t, "models", file.Imports[1].Prefix)
	assert.Equal(t, "sdk:math", file.Imports[2].URI)
	assert.Empty(t, file.Imports[2].Show)

	// Exported classes produce export directives alongside the classes.
	require.Len(t, file.Exports, 2)
	assert.Equal(t, []string{"CounterWidget"}, file.Exports[0].Show)
	assert.Equal(t, []string{"CounterState"}, file.Exports[1].Show)

	require.Len(t, file.Classes, 2)

	widget := file.ClassNamed("CounterWidget")
	require.NotNil(t, widget)
	require.NotNil(t, widget.Component)
	assert.Equal(t, ir.ComponentKindStateful, widget.Component.Kind)
	assert.Equal(t, ir.TierReturnType, widget.Component.Tier)

	initial := widget.FieldNamed("initial")
	require.NotNil(t, initial)
	assert.True(t, initial.IsFinal)
	assert.Equal(t, "int", initial.DeclType.Name)

	require.Len(t, widget.Constructors, 1)
	assert.Contains(t, widget.Constructors[0].FieldInits, "initial")

	createState := widget.MethodNamed("createState")
	require.NotNil(t, createState)
	require.NotNil(t, createState.ReturnType)
	assert.Equal(t, "CounterState", createState.ReturnType.Name)
}

func TestExtractFile_StateAnalysis(t *testing.T) {
	ex := setupExtractor(t)

	filePath := filepath.Join("testdata", "counter.ts")
	sourceCode, err := os.ReadFile(filePath)
	require.NoError(t, err)

	file, err := ex.ExtractFile(filePath, sourceCode)
	require.NoError(t, err)

	state := file.ClassNamed("CounterState")
	require.NotNil(t, state)
	require.NotNil(t, state.State, "State subclass should carry state analysis")

	info := state.State
	assert.True(t, info.HasInitState)
	assert.True(t, info.InitCallsSuper)
	assert.False(t, info.InitIsAsync)
	assert.False(t, info.HasDispose)

	require.Len(t, info.DisposableFields, 1)
	assert.Equal(t, "_ticker", info.DisposableFields[0].FieldName)
	assert.Equal(t, "Timer", info.DisposableFields[0].ResourceType)

	require.Len(t, info.SetStateCalls, 1)
	call := info.SetStateCalls[0]
	assert.False(t, call.InBuild)
	assert.False(t, call.InLoop)
	assert.False(t, call.IsAsync)
	assert.Equal(t, []string{"count"}, call.TouchedFields)

	// The build method yields a structural widget tree.
	require.NotNil(t, state.Component)
	widget := state.Component.Widget
	require.NotNil(t, widget)
	assert.Equal(t, "Column", widget.Name)
	require.Len(t, widget.Children, 2)
	assert.Equal(t, "Text", widget.Children[0].Name)
	assert.Equal(t, "Container", widget.Children[1].Name)
	assert.Contains(t, widget.Children[1].Props, "padding")
}

func TestExtractFile_SetStateContext(t *testing.T) {
	file := extractSource(t, `
class SyncState extends State<SyncWidget> {
  items: List = null;

  build(context: BuildContext): Widget {
    this.setState(() => {});
    return new Text({});
  }

  async refresh(): void {
    for (const item of this.items) {
      this.setState(() => {});
    }
  }
}
`)

	cls := file.ClassNamed("SyncState")
	require.NotNil(t, cls)
	require.NotNil(t, cls.State)
	require.Len(t, cls.State.SetStateCalls, 2)

	var inBuild, inLoop int
	for _, call := range cls.State.SetStateCalls {
		if call.InBuild {
			inBuild++
			assert.False(t, call.InLoop)
		}
		if call.InLoop {
			inLoop++
			assert.True(t, call.IsAsync, "loop call sits in an async method")
		}
	}
	assert.Equal(t, 1, inBuild)
	assert.Equal(t, 1, inLoop)
}

func TestExtractFile_Directives(t *testing.T) {
	file := extractSource(t, `
/// <reference path="package:app/app.ts" />
import { Cart as Basket } from './cart.ts';
export { Basket, helper } from './helpers.ts';

const maxItems: int = 3;
`)

	require.Len(t, file.Parts, 1)
	assert.Equal(t, "package:app/app.ts", file.Parts[0].URI)

	require.Len(t, file.Imports, 1)
	assert.Equal(t, []string{"Basket"}, file.Imports[0].Show, "alias is the local binding")

	require.Len(t, file.Exports, 1)
	assert.Equal(t, "./helpers.ts", file.Exports[0].URI)
	assert.Equal(t, []string{"Basket", "helper"}, file.Exports[0].Show)

	require.Len(t, file.Variables, 1)
	assert.Equal(t, "maxItems", file.Variables[0].Name)
	assert.True(t, file.Variables[0].IsConst)
	intLit, ok := file.Variables[0].Init.(*ir.IntLit)
	require.True(t, ok)
	assert.Equal(t, int64(3), intLit.Value)
}

func TestExtractFile_BuilderFunction(t *testing.T) {
	file := extractSource(t, `
function buildHeader(title: String): Widget {
  return new Row({ children: [new Text({ data: title })] });
}

function formatPrice(value: double): String {
  return value.toFixed(2);
}
`)

	require.Len(t, file.Functions, 2)

	header := file.Functions[0]
	assert.Equal(t, "buildHeader", header.Name)
	require.NotNil(t, header.Component)
	assert.Equal(t, ir.ComponentKindBuilder, header.Component.Kind)
	assert.Equal(t, ir.TierReturnType, header.Component.Tier, "Widget return beats name heuristic")
	require.NotNil(t, header.Component.Widget)
	assert.Equal(t, "Row", header.Component.Widget.Name)

	assert.Nil(t, file.Functions[1].Component)
	require.Len(t, file.Functions[1].Params, 1)
	assert.Equal(t, "double", file.Functions[1].Params[0].DeclType.Name)
}

func TestExtractFile_StatementLowering(t *testing.T) {
	file := extractSource(t, `
function classify(n: int): String {
  let label: String = "none";
  if (n > 10) {
    label = "big";
  } else {
    for (let i = 0; i < n; i++) {
      label = label + "x";
    }
  }
  switch (label) {
    case "big":
      return label;
    default:
      break;
  }
  try {
    risky();
  } catch (err) {
    throw err;
  } finally {
    cleanup();
  }
  return Colors.red.toString();
}
`)

	require.Len(t, file.Functions, 1)
	body := file.Functions[0].Body
	require.NotNil(t, body)
	require.Len(t, body.Statements, 5)

	_, ok := body.Statements[0].(*ir.VarDeclStmt)
	assert.True(t, ok)
	ifStmt, ok := body.Statements[1].(*ir.IfStmt)
	require.True(t, ok)
	require.NotNil(t, ifStmt.Else)

	elseBlock, ok := ifStmt.Else.(*ir.BlockStmt)
	require.True(t, ok)
	require.Len(t, elseBlock.Stmts, 1)
	_, ok = elseBlock.Stmts[0].(*ir.ForStmt)
	assert.True(t, ok)

	sw, ok := body.Statements[2].(*ir.SwitchStmt)
	require.True(t, ok)
	require.Len(t, sw.Cases, 2)
	assert.True(t, sw.Cases[1].IsDefault)

	try, ok := body.Statements[3].(*ir.TryStmt)
	require.True(t, ok)
	require.Len(t, try.Catches, 1)
	assert.Equal(t, "err", try.Catches[0].Param)
	require.NotNil(t, try.Finally)

	// Capitalized member access lowers to an enum reference.
	ret, ok := body.Statements[4].(*ir.ReturnStmt)
	require.True(t, ok)
	mc, ok := ret.Value.(*ir.MethodCall)
	require.True(t, ok)
	enum, ok := mc.Target.(*ir.EnumAccess)
	require.True(t, ok)
	assert.Equal(t, "Colors", enum.EnumName)
	assert.Equal(t, "red", enum.Member)
}

func TestExtractFile_TemplateEscapeFolding(t *testing.T) {
	file := extractSource(t, "const label = `a\\n${x}`;\nconst plain = `c\\n`;\nconst quoted = 'c\\n';\n")

	require.Len(t, file.Variables, 3)

	// Escapes fold to the same value whether or not the template carries a
	// substitution.
	interp, ok := file.Variables[0].Init.(*ir.StringInterp)
	require.True(t, ok)
	var text strings.Builder
	for _, p := range interp.Parts {
		if lit, ok := p.(*ir.StringLit); ok {
			text.WriteString(lit.Value)
		}
	}
	assert.Equal(t, "a\n", text.String())

	plain, ok := file.Variables[1].Init.(*ir.StringLit)
	require.True(t, ok)
	quoted, ok := file.Variables[2].Init.(*ir.StringLit)
	require.True(t, ok)
	assert.Equal(t, "c\n", plain.Value)
	assert.Equal(t, quoted.Value, plain.Value)
}

func TestExtractFile_MixinHeritage(t *testing.T) {
	file := extractSource(t, `
class CartModel extends Observable(BaseModel) implements Serializable {
  total: double = 0.0;
}
`)

	cls := file.ClassNamed("CartModel")
	require.NotNil(t, cls)
	require.NotNil(t, cls.Superclass)
	assert.Equal(t, "BaseModel", cls.Superclass.Name)
	require.Len(t, cls.Mixins, 1)
	assert.Equal(t, "Observable", cls.Mixins[0].Name)
	require.Len(t, cls.Interfaces, 1)
	assert.Equal(t, "Serializable", cls.Interfaces[0].Name)
}

func TestExtractFile_UnsupportedLanguage(t *testing.T) {
	ex := setupExtractor(t)

	file, err := ex.ExtractFile("file.txt", []byte("some text"))
	assert.Error(t, err)
	assert.Nil(t, file)
	assert.Contains(t, err.Error(), "unsupported language")
}

func TestExtractFile_InvalidSyntaxIsPartial(t *testing.T) {
	ex := setupExtractor(t)

	file, err := ex.ExtractFile("broken.ts", []byte("class Half { build( {"))
	require.NoError(t, err, "partial trees still extract")
	require.NotNil(t, file)
	t.Logf("partial extraction produced %d classes, %d diagnostics",
		len(file.Classes), len(file.Diagnostics))
}

func BenchmarkExtractFile(b *testing.B) {
	ex := setupExtractor(&testing.T{})

	filePath := filepath.Join("testdata", "counter.ts")
	sourceCode, err := os.ReadFile(filePath)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := ex.ExtractFile(filePath, sourceCode)
		if err != nil {
			b.Fatal(err)
		}
	}
}
