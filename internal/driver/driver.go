package driver

import (
	"fmt"

	"curv/internal/ast"
	"curv/internal/diag"
	"curv/internal/ir"
	"curv/internal/observ"
	"curv/internal/parser"
	"curv/internal/sema"
	"curv/internal/source"
)

// DefaultMaxDiagnostics bounds the diagnostics collected per file.
const DefaultMaxDiagnostics = 64

// Result holds everything produced by analyzing one source file. Files,
// Names and Bag are private to this result; nothing is shared between
// results, which is what makes directory analysis trivially parallel.
type Result struct {
	Path   string
	FileID source.FileID
	Files  *source.FileSet
	Names  *source.Interner
	Module *ast.Module
	Exec   *sema.Executable // nil when diagnostics contain errors
	Bag    *diag.Bag
	Timing observ.Report
}

// HasErrors reports whether any phase produced an error diagnostic.
func (r *Result) HasErrors() bool { return r.Bag.HasErrors() }

// AnalyzeSource runs lex, parse and bind over an in-memory buffer.
func AnalyzeSource(name string, src []byte, maxDiagnostics int) *Result {
	files := source.NewFileSet()
	id := files.AddVirtual(name, src)
	return analyze(files, id, maxDiagnostics)
}

// AnalyzeFile runs lex, parse and bind over one file on disk.
func AnalyzeFile(path string, maxDiagnostics int) (*Result, error) {
	files := source.NewFileSet()
	id, err := files.Load(path)
	if err != nil {
		return nil, err
	}
	return analyze(files, id, maxDiagnostics), nil
}

func analyze(files *source.FileSet, id source.FileID, maxDiagnostics int) *Result {
	if maxDiagnostics <= 0 {
		maxDiagnostics = DefaultMaxDiagnostics
	}
	file := files.Get(id)
	res := &Result{
		Path:   file.Path,
		FileID: id,
		Files:  files,
		Names:  source.NewInterner(),
		Bag:    diag.NewBag(maxDiagnostics),
	}
	timer := observ.NewTimer()

	parsePhase := timer.Begin("parse")
	res.Module = parser.File(file, res.Names, diag.BagReporter{Bag: res.Bag})
	timer.End(parsePhase, fmt.Sprintf("%d items", len(res.Module.Items)))

	if !res.Bag.HasErrors() {
		bindPhase := timer.Begin("bind")
		exec, err := sema.AnalyzeModule(res.Module, sema.NewBuiltinEnv(res.Names))
		if err != nil {
			addAnalysisError(res.Bag, err)
		} else {
			res.Exec = exec
		}
		timer.End(bindPhase, "")
	}
	res.Timing = timer.Report()
	return res
}

// EvalSource analyzes a buffer and, when analysis is clean, evaluates
// the module. Evaluation failures are added to the result's Bag.
func EvalSource(name string, src []byte, maxDiagnostics int) (*ir.Module, *Result) {
	res := AnalyzeSource(name, src, maxDiagnostics)
	if res.Exec == nil {
		return nil, res
	}
	m, err := res.Exec.EvalModule()
	if err != nil {
		addEvalError(res.Bag, err)
		return nil, res
	}
	return m, res
}

// EvalFile is EvalSource over a file on disk.
func EvalFile(path string, maxDiagnostics int) (*ir.Module, *Result, error) {
	res, err := AnalyzeFile(path, maxDiagnostics)
	if err != nil {
		return nil, nil, err
	}
	if res.Exec == nil {
		return nil, res, nil
	}
	m, evalErr := res.Exec.EvalModule()
	if evalErr != nil {
		addEvalError(res.Bag, evalErr)
		return nil, res, nil
	}
	return m, res, nil
}

func addAnalysisError(bag *diag.Bag, err error) {
	if serr, ok := err.(*sema.Error); ok {
		bag.Add(serr.Diagnostic())
		return
	}
	bag.Add(diag.NewError(diag.UnknownCode, source.Span{}, err.Error()))
}

func addEvalError(bag *diag.Bag, err error) {
	if everr, ok := err.(*ir.EvalError); ok {
		bag.Add(diag.NewError(diag.EvalError, everr.Sp, everr.Msg))
		return
	}
	bag.Add(diag.NewError(diag.EvalError, source.Span{}, err.Error()))
}
