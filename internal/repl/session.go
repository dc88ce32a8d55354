package repl

import (
	"strings"

	"curv/internal/ast"
	"curv/internal/diag"
	"curv/internal/diagfmt"
	"curv/internal/driver"
	"curv/internal/parser"
	"curv/internal/source"
)

// Session is the evaluation state behind the interactive loop.
// Definitions accumulate into a persistent module source; expressions
// evaluate against the module built from everything accepted so far.
// Keeping the state as source text means each input replays the whole
// module, which keeps recursive groups and dependency order exact.
type Session struct {
	defs []string
}

func NewSession() *Session { return &Session{} }

// Defs returns the accepted definitions in submission order.
func (s *Session) Defs() []string { return s.defs }

// Submit processes one line of input. It returns the text to show and
// whether the input was accepted (definitions are only retained when
// the resulting module still analyzes cleanly).
func (s *Session) Submit(input string) (string, bool) {
	input = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(input), ";"))
	if input == "" {
		return "", true
	}

	def, diags := classify(input)
	if diags != "" {
		return diags, false
	}

	if def != nil {
		candidate := append(append([]string{}, s.defs...), input)
		if diags := analyzeOnly(candidate); diags != "" {
			return diags, false
		}
		s.defs = candidate
		return def.Name.Text + " defined", true
	}

	// Expression or bare statement: bind it to a scratch name and read
	// the value back out of the evaluated module.
	lines := append(append([]string{}, s.defs...), "it = ("+input+")")
	m, res := driver.EvalSource("repl", []byte(strings.Join(lines, ";\n")), 0)
	if m == nil {
		return renderBag(res), false
	}
	v, ok := m.Field(res.Names.Intern("it"))
	if !ok || v == nil {
		return "no value", false
	}
	return v.String(), true
}

// classify parses one input line as a definition or statement.
func classify(input string) (*ast.Def, string) {
	files := source.NewFileSet()
	id := files.AddVirtual("repl", []byte(input))
	names := source.NewInterner()
	bag := diag.NewBag(driver.DefaultMaxDiagnostics)
	item, isDef := parser.Item(files.Get(id), names, diag.BagReporter{Bag: bag})
	if bag.HasErrors() {
		return nil, renderBagWith(bag, files)
	}
	if !isDef {
		return nil, ""
	}
	return item.Def, ""
}

func analyzeOnly(defs []string) string {
	res := driver.AnalyzeSource("repl", []byte(strings.Join(defs, ";\n")), 0)
	if res.HasErrors() {
		return renderBag(res)
	}
	return ""
}

func renderBag(res *driver.Result) string {
	return renderBagWith(res.Bag, res.Files)
}

func renderBagWith(bag *diag.Bag, files *source.FileSet) string {
	bag.Sort()
	var b strings.Builder
	diagfmt.Pretty(&b, bag, files, diagfmt.PrettyOpts{ShowNotes: true})
	return strings.TrimRight(b.String(), "\n")
}
