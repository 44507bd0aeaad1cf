package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uisema/pkg/extractor"
	"github.com/gnana997/uisema/pkg/ir"
	"github.com/gnana997/uisema/pkg/parser"
)

// extractAll parses and extracts a path -> source map into declaration
// files, in the order given.
func extractAll(t *testing.T, sources map[string]string) []*ir.DeclarationFile {
	t.Helper()
	ex := extractor.NewExtractor(parser.NewManager(nil), nil, nil)
	var files []*ir.DeclarationFile
	for path, src := range sources {
		f, err := ex.ExtractFile(path, []byte(src))
		require.NoError(t, err)
		files = append(files, f)
	}
	return files
}

func issuesByCategory(snap *ir.ResolutionSnapshot, category string) []ir.Diagnostic {
	var out []ir.Diagnostic
	for _, d := range snap.Issues {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}

func TestResolveAll_RegistryAndDuplicates(t *testing.T) {
	files := extractAll(t, map[string]string{
		"/proj/lib/models/cart.ts": `
export class Cart {
  total: double = 0.0;
}
class Cart {
  total: double = 1.0;
}
`,
	})

	snap := NewResolver(nil).ResolveAll(files, "/proj")

	// First writer wins, second registration is diagnosed.
	decl, ok := snap.Registry["models.cart.Cart"]
	require.True(t, ok)
	cls, ok := decl.(*ir.ClassDecl)
	require.True(t, ok)
	dbl, ok := cls.Fields[0].Init.(*ir.DoubleLit)
	require.True(t, ok)
	assert.Equal(t, 0.0, dbl.Value)

	dups := issuesByCategory(snap, ir.CategoryDuplicateSymbol)
	require.Len(t, dups, 1)
	assert.Equal(t, ir.SeverityError, dups[0].Severity)
}

func TestResolveAll_ImportTable(t *testing.T) {
	files := extractAll(t, map[string]string{
		"/proj/lib/models/cart.ts": `
export class Cart {}
`,
		"/proj/lib/main.ts": `
import { Cart } from 'package:app/models/cart.ts';
import 'sdk:math';
import { hash } from 'crypto-lib';
import { Gone } from './missing.ts';
`,
	})

	snap := NewResolver(nil).ResolveAll(files, "/proj")

	pkg, ok := snap.ImportTable[ir.BindingKey("/proj/lib/main.ts", "package:app/models/cart.ts", "")]
	require.True(t, ok)
	assert.Equal(t, "/proj/lib/models/cart.ts", pkg.ResolvedPath)
	assert.True(t, pkg.Visible["Cart"])

	// Built-in and external imports get opaque bindings, never an error.
	sdk, ok := snap.ImportTable[ir.BindingKey("/proj/lib/main.ts", "sdk:math", "")]
	require.True(t, ok)
	assert.Empty(t, sdk.ResolvedPath)
	_, ok = snap.ImportTable[ir.BindingKey("/proj/lib/main.ts", "crypto-lib", "")]
	assert.True(t, ok)

	// The unresolved relative import is diagnosed and gets no entry.
	_, ok = snap.ImportTable[ir.BindingKey("/proj/lib/main.ts", "./missing.ts", "")]
	assert.False(t, ok)
	invalid := issuesByCategory(snap, ir.CategoryInvalidImport)
	require.Len(t, invalid, 1)
	assert.Contains(t, invalid[0].Message, "./missing.ts")
}

func TestResolveAll_ExportResolution(t *testing.T) {
	files := extractAll(t, map[string]string{
		"/proj/lib/models/cart.ts": `
export class Cart {}
export class Order {}
`,
		"/proj/lib/models/index.ts": `
export * from './cart.ts';
export { Cart as Basket } from './cart.ts';
export { clamp } from 'sdk:math';
`,
		"/proj/lib/api.ts": `
export * from './models/index.ts';
export { Gone } from './missing.ts';
`,
	})

	snap := NewResolver(nil).ResolveAll(files, "/proj")

	// export * folds the target's set in; named re-exports add their alias
	// and opaque re-exports are taken on faith.
	index := snap.ExportedSymbols["/proj/lib/models/index.ts"]
	assert.True(t, index["Cart"])
	assert.True(t, index["Order"])
	assert.True(t, index["Basket"])
	assert.True(t, index["clamp"])

	// Chained export * settles transitively.
	api := snap.ExportedSymbols["/proj/lib/api.ts"]
	assert.True(t, api["Cart"])
	assert.True(t, api["Basket"])

	// The dangling export URI is a hard error, like a dangling import.
	invalid := issuesByCategory(snap, ir.CategoryInvalidImport)
	require.Len(t, invalid, 1)
	assert.Equal(t, ir.SeverityError, invalid[0].Severity)
	assert.Contains(t, invalid[0].Message, "./missing.ts")
}

func TestResolveAll_StatePairing(t *testing.T) {
	files := extractAll(t, map[string]string{
		"/proj/lib/counter_state.ts": `
export class CounterState extends State<CounterWidget> {
  count: int = 0;
}
`,
		"/proj/lib/counter.ts": `
import { CounterState } from './counter_state.ts';

export class CounterWidget extends StatefulWidget {
  createState(): CounterState {
    return new CounterState();
  }
}
`,
	})

	snap := NewResolver(nil).ResolveAll(files, "/proj")

	require.Len(t, snap.StatePairs, 1)
	assert.Equal(t, "counter_state.CounterState", snap.StatePairs["counter.CounterWidget"])

	// Every file shares the same snapshot by reference.
	for _, f := range files {
		assert.Same(t, snap, f.Resolution)
	}
}

func TestResolveAll_StatePairingThroughIntermediateBase(t *testing.T) {
	files := extractAll(t, map[string]string{
		"/proj/lib/base.ts": `
export class TrackedWidget extends StatefulWidget {
}
`,
		"/proj/lib/counter.ts": `
import { TrackedWidget } from './base.ts';

export class Counter extends TrackedWidget {
  createState(): CounterState {
    return new CounterState();
  }
}

export class CounterState extends State<Counter> {
  count: int = 0;
}
`,
	})

	snap := NewResolver(nil).ResolveAll(files, "/proj")

	// The chain Counter -> TrackedWidget -> StatefulWidget crosses a file
	// boundary and still pairs; the intermediate base itself has no
	// createState and stays unpaired.
	require.Len(t, snap.StatePairs, 1)
	assert.Equal(t, "counter.CounterState", snap.StatePairs["counter.Counter"])
}

func TestResolveAll_UnpairedWidgetIsNotDiagnosed(t *testing.T) {
	files := extractAll(t, map[string]string{
		"/proj/lib/widget.ts": `
export class OrphanWidget extends StatefulWidget {
  createState(): MissingState {
    return new MissingState();
  }
}
`,
	})

	snap := NewResolver(nil).ResolveAll(files, "/proj")
	assert.Empty(t, snap.StatePairs)
	assert.Empty(t, issuesByCategory(snap, ir.CategoryDuplicateSymbol))
}

func TestResolveAll_ProviderClassification(t *testing.T) {
	files := extractAll(t, map[string]string{
		"/proj/lib/models.ts": `
export class CartModel extends ChangeNotifier {
  total: double = 0.0;
}
export class ThemeModel extends ValueNotifier {
}
export class SessionStore extends Observable(BaseStore) {
}
export class BaseStore {
}
`,
	})

	snap := NewResolver(nil).ResolveAll(files, "/proj")

	require.Len(t, snap.Providers, 3)
	assert.Equal(t, ir.ProviderKindNotifier, snap.Providers["models.CartModel"].Kind)
	assert.Equal(t, ir.ProviderKindValueNotifier, snap.Providers["models.ThemeModel"].Kind)
	assert.Equal(t, ir.ProviderKindStore, snap.Providers["models.SessionStore"].Kind)
}

func TestResolveAll_TypeResolution(t *testing.T) {
	files := extractAll(t, map[string]string{
		"/proj/lib/models/cart.ts": `
export class Cart {}
`,
		"/proj/lib/main.ts": `
import { Cart } from './models/cart.ts';

function checkout(cart: Cart, ctx: BuildContext): Receipt {
  return null;
}
`,
	})

	snap := NewResolver(nil).ResolveAll(files, "/proj")

	var checkout *ir.FunctionDecl
	for _, f := range files {
		for _, fn := range f.Functions {
			if fn.Name == "checkout" {
				checkout = fn
			}
		}
	}
	require.NotNil(t, checkout)

	assert.True(t, checkout.Params[0].DeclType.Resolved, "imported type resolves")
	assert.True(t, checkout.Params[1].DeclType.Resolved, "framework type is built-in")
	assert.False(t, checkout.ReturnType.Resolved, "unknown type stays untouched")

	unresolved := issuesByCategory(snap, ir.CategoryUnresolvedType)
	require.Len(t, unresolved, 1)
	assert.Equal(t, ir.SeverityWarning, unresolved[0].Severity)
	assert.Contains(t, unresolved[0].Message, "Receipt")
}

func TestResolveAll_Idempotent(t *testing.T) {
	sources := map[string]string{
		"/proj/lib/a.ts": `
import { B } from './b.ts';
export class A extends StatefulWidget {
  createState(): B { return new B(); }
}
`,
		"/proj/lib/b.ts": `
export class B extends State<A> {}
`,
	}

	files := extractAll(t, sources)
	r := NewResolver(nil)
	first := r.ResolveAll(files, "/proj")
	second := r.ResolveAll(files, "/proj")

	assert.Equal(t, len(first.Registry), len(second.Registry))
	assert.Equal(t, len(first.StatePairs), len(second.StatePairs))
	assert.Equal(t, len(first.Issues), len(second.Issues))
	for _, f := range files {
		assert.Same(t, second, f.Resolution)
	}
}
