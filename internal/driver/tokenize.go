package driver

import (
	"curv/internal/diag"
	"curv/internal/lexer"
	"curv/internal/source"
	"curv/internal/token"
)

// TokenizeResult holds the token stream of one file.
type TokenizeResult struct {
	Path   string
	FileID source.FileID
	Files  *source.FileSet
	Tokens []token.Token
	Bag    *diag.Bag
}

// Tokenize lexes one file on disk, EOF token included.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	if maxDiagnostics <= 0 {
		maxDiagnostics = DefaultMaxDiagnostics
	}
	files := source.NewFileSet()
	id, err := files.Load(path)
	if err != nil {
		return nil, err
	}
	bag := diag.NewBag(maxDiagnostics)
	toks := lexer.Tokenize(files.Get(id), diag.BagReporter{Bag: bag})
	return &TokenizeResult{
		Path:   path,
		FileID: id,
		Files:  files,
		Tokens: toks,
		Bag:    bag,
	}, nil
}
