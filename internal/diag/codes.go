package diag

import (
	"fmt"
)

// Code identifies one diagnostic category. Ranges: 1xxx lexical,
// 2xxx syntactic, 3xxx binding/semantic, 4xxx evaluation.
type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003

	// Syntactic
	SynUnexpectedToken Code = 2001
	SynExpectSemicolon Code = 2002
	SynExpectParam     Code = 2003
	SynUnclosedParen   Code = 2004
	SynUnclosedBrace   Code = 2005
	SynExpectIn        Code = 2006

	// Binding / semantic
	SemaUnresolvedName   Code = 3001
	BindMultiplyDefined  Code = 3002
	BindIllegalRecursion Code = 3003
	SemaBadPhrase        Code = 3004
	// BindRecursiveData flags a multi-member SCC group containing a
	// non-function unit. Unreachable while the cycle checks hold.
	BindRecursiveData Code = 3901
	// BindInvalidSetter flags a setter request for a function unit
	// outside the grouped-setter path.
	BindInvalidSetter Code = 3902

	// Evaluation
	EvalError     Code = 4001
	EvalAssertion Code = 4002
)

var codeNames = map[Code]string{
	UnknownCode:           "Unknown",
	LexUnknownChar:        "LexUnknownChar",
	LexUnterminatedString: "LexUnterminatedString",
	LexBadNumber:          "LexBadNumber",
	SynUnexpectedToken:    "SynUnexpectedToken",
	SynExpectSemicolon:    "SynExpectSemicolon",
	SynExpectParam:        "SynExpectParam",
	SynUnclosedParen:      "SynUnclosedParen",
	SynUnclosedBrace:      "SynUnclosedBrace",
	SynExpectIn:           "SynExpectIn",
	SemaUnresolvedName:    "SemaUnresolvedName",
	SemaBadPhrase:         "SemaBadPhrase",
	BindMultiplyDefined:   "BindMultiplyDefined",
	BindIllegalRecursion:  "BindIllegalRecursion",
	BindRecursiveData:     "BindRecursiveData",
	BindInvalidSetter:     "BindInvalidSetter",
	EvalError:             "EvalError",
	EvalAssertion:         "EvalAssertion",
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Code(%d)", uint16(c))
}

// Internal reports whether the code marks an analyzer invariant
// violation rather than an error in the user's source. Internal codes
// are presented as internal errors, not source errors.
func (c Code) Internal() bool {
	return c == BindRecursiveData || c == BindInvalidSetter
}
