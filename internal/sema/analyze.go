package sema

import (
	"curv/internal/ast"
	"curv/internal/diag"
	"curv/internal/ir"
	"curv/internal/source"
)

// AnalyzeModule compiles a source file (a module phrase) against the
// builtin environment into a module-target executable.
func AnalyzeModule(mod *ast.Module, builtins Env) (*Executable, error) {
	root := NewRootEnv(builtins)
	exec := &Executable{ModuleSlot: root.MakeSlot()}
	sc := NewRecursiveScope(root, exec)
	if err := sc.Analyze(compoundFromItems(mod.Items, true, mod.Sp)); err != nil {
		return nil, err
	}
	exec.NSlots = root.FrameMax()
	return exec, nil
}

// AnalyzeExpr compiles a single expression against the builtin
// environment. The returned slot count sizes the frame the operation
// must run in.
func AnalyzeExpr(ph ast.Phrase, builtins Env) (ir.Operation, uint32, error) {
	root := NewRootEnv(builtins)
	op, err := analyzeOp(ph, root)
	if err != nil {
		return nil, 0, err
	}
	return op, root.FrameMax(), nil
}

// analyzeOp compiles one expression phrase in env.
func analyzeOp(ph ast.Phrase, env Env) (ir.Operation, error) {
	switch p := ph.(type) {
	case *ast.Ident:
		return Lookup(env, p)

	case *ast.Numeral:
		return &ir.Constant{Sp: p.Sp, Val: ir.Num(p.Val)}, nil

	case *ast.Str:
		return &ir.Constant{Sp: p.Sp, Val: ir.Str(p.Val)}, nil

	case *ast.Paren:
		return analyzeOp(p.X, env)

	case *ast.ParenList:
		return nil, errAt(diag.SemaBadPhrase, p.Sp,
			"parenthesized list is only valid as a parameter list")

	case *ast.Unary:
		x, err := analyzeOp(p.X, env)
		if err != nil {
			return nil, err
		}
		return &ir.Unary{Sp: p.Sp, Op: p.Op, X: x}, nil

	case *ast.Binary:
		x, err := analyzeOp(p.X, env)
		if err != nil {
			return nil, err
		}
		y, err := analyzeOp(p.Y, env)
		if err != nil {
			return nil, err
		}
		return &ir.Binary{Sp: p.Sp, Op: p.Op, X: x, Y: y}, nil

	case *ast.Cond:
		cond, err := analyzeOp(p.Cond, env)
		if err != nil {
			return nil, err
		}
		then, err := analyzeOp(p.Then, env)
		if err != nil {
			return nil, err
		}
		els, err := analyzeOp(p.Else, env)
		if err != nil {
			return nil, err
		}
		return &ir.Cond{Sp: p.Sp, Cond: cond, Then: then, Else: els}, nil

	case *ast.Call:
		fn, err := analyzeOp(p.Fn, env)
		if err != nil {
			return nil, err
		}
		args := make([]ir.Operation, len(p.Args))
		for i, a := range p.Args {
			if args[i], err = analyzeOp(a, env); err != nil {
				return nil, err
			}
		}
		return &ir.Call{Sp: p.Sp, Fn: fn, Args: args}, nil

	case *ast.Lambda:
		return analyzeAnonLambda(p, env)

	case *ast.Block:
		return analyzeBlock(p, env)

	case *ast.Module:
		return analyzeModuleLiteral(p, env)
	}
	return nil, errAt(diag.SemaBadPhrase, ph.Span(), "phrase is not an expression")
}

// analyzeBlock compiles `let … in body` / `letrec … in body`. Block
// bindings live in the enclosing frame, initialized by the scope's
// emitted setters before the body runs.
func analyzeBlock(blk *ast.Block, env Env) (ir.Operation, error) {
	exec := &Executable{ModuleSlot: ir.NoSlot}
	cd := compoundFromItems(blk.Items, blk.Kind == ast.BlockLetrec, blk.Sp)

	var sc Scope
	if blk.Kind == ast.BlockLetrec {
		rsc := NewRecursiveScope(env, exec)
		if err := rsc.Analyze(cd); err != nil {
			return nil, err
		}
		sc = rsc
	} else {
		ssc := NewSequentialScope(env, exec)
		if err := ssc.Analyze(cd); err != nil {
			return nil, err
		}
		sc = ssc
	}

	body, err := analyzeOp(blk.Body, sc)
	if err != nil {
		return nil, err
	}
	// The body may have allocated more slots in the shared frame.
	env.GrowFrame(sc.FrameSlots())
	return &ir.BlockExpr{Sp: blk.Sp, Ops: exec.Ops, Body: body}, nil
}

// analyzeModuleLiteral compiles a brace module `{ … }`. The module
// value occupies a slot of the enclosing frame while its fields
// initialize; references between members go through that slot.
func analyzeModuleLiteral(mod *ast.Module, env Env) (ir.Operation, error) {
	slot := env.MakeSlot()
	exec := &Executable{ModuleSlot: slot}
	sc := NewRecursiveScope(env, exec)
	if err := sc.Analyze(compoundFromItems(mod.Items, true, mod.Sp)); err != nil {
		return nil, err
	}
	return &ir.ModuleExpr{Sp: mod.Sp, Slot: slot, Dict: exec.Module, Ops: exec.Ops}, nil
}

// analyzeSharedLambda compiles the lambda of a recursively-bound
// function definition. env is the FunctionEnviron of the definition's
// unit, so every nonlocal the body touches lands in the unit's shared
// capture list.
func analyzeSharedLambda(lam *ast.Lambda, env Env, name string) (*ir.Lambda, error) {
	ps, err := newParamScope(env, lam.Params)
	if err != nil {
		return nil, err
	}
	body, err := analyzeOp(lam.Body, ps)
	if err != nil {
		return nil, err
	}
	return &ir.Lambda{
		Body:   body,
		NArgs:  uint32(len(lam.Params)),
		NSlots: ps.FrameMax(),
		Name:   name,
	}, nil
}

// analyzeAnonLambda compiles a lambda expression. It captures its own
// nonlocals through a private environ and closes over a private record
// built where the lambda expression evaluates.
func analyzeAnonLambda(lam *ast.Lambda, env Env) (ir.Operation, error) {
	ce := newCaptureEnv(env)
	ps, err := newParamScope(ce, lam.Params)
	if err != nil {
		return nil, err
	}
	body, err := analyzeOp(lam.Body, ps)
	if err != nil {
		return nil, err
	}
	dict := ir.NewDictionary()
	fields := make([]ir.Operation, 0, len(ce.nonlocals))
	for _, c := range ce.nonlocals {
		dict.Add(c.atom)
		fields = append(fields, c.op)
	}
	return &ir.LambdaExpr{
		Sp: lam.Sp,
		Lambda: &ir.Lambda{
			Body:   body,
			NArgs:  uint32(len(lam.Params)),
			NSlots: ps.FrameMax(),
		},
		Caps: &ir.RecordExpr{Sp: lam.Sp, Dict: dict, Fields: fields},
	}, nil
}

// captureEnv collects the free variables of an anonymous lambda. Like
// FunctionEnviron it resolves fully through the enclosing chain and
// terminates the chain itself; unlike it, the capture list is private
// to the one lambda.
type captureEnv struct {
	baseEnv
	inner     Env
	nonlocals []capture
	nlIndex   map[source.StringID]int
}

func newCaptureEnv(inner Env) *captureEnv {
	return &captureEnv{
		baseEnv: baseEnv{frameNSlots: inner.FrameSlots(), frameMaxSlots: inner.FrameSlots()},
		inner:   inner,
		nlIndex: make(map[source.StringID]int),
	}
}

func (e *captureEnv) SingleLookup(id *ast.Ident) (ir.Operation, error) {
	op, err := Lookup(e.inner, id)
	if err != nil {
		return nil, err
	}
	if c, ok := op.(*ir.Constant); ok {
		return &ir.Constant{Sp: id.Sp, Val: c.Val}, nil
	}
	if _, seen := e.nlIndex[id.Atom]; !seen {
		e.nlIndex[id.Atom] = len(e.nonlocals)
		e.nonlocals = append(e.nonlocals, capture{atom: id.Atom, name: id.Text, op: op})
	}
	return &ir.SymbolicRef{Sp: id.Sp, Atom: id.Atom, Name: id.Text}, nil
}
