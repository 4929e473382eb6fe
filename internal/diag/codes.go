package diag

import "fmt"

// Code is a stable diagnostic identifier; the thousands digit selects the phase.
type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo        Code = 1000
	LexUnknownChar Code = 1001
	LexBadNumber   Code = 1004

	// Синтаксические
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynExpectExpression  Code = 2002
	SynTooManyErrors     Code = 2003
	SynExpectIdentifier  Code = 2004
	SynUnclosedParen     Code = 2006
	SynUnclosedBrace     Code = 2007

	// Семантические
	SemaInfo              Code = 3000
	SemaUndeclaredVar     Code = 3001
	SemaReturnOutsideFunc Code = 3002
	SemaDuplicateParam    Code = 3003

	IOLoadFileError Code = 4001

	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	LexInfo:               "Lexical information",
	LexUnknownChar:        "Unknown character",
	LexBadNumber:          "Integer literal out of range",
	SynInfo:               "Syntax information",
	SynUnexpectedToken:    "Unexpected token",
	SynExpectExpression:   "Expected expression",
	SynTooManyErrors:      "Too many syntax errors",
	SynExpectIdentifier:   "Expected identifier",
	SynUnclosedParen:      "Unclosed parenthesis",
	SynUnclosedBrace:      "Unclosed brace",
	SemaInfo:              "Semantic information",
	SemaUndeclaredVar:     "Undeclared variable",
	SemaReturnOutsideFunc: "Return outside of function",
	SemaDuplicateParam:    "Duplicate parameter",
	IOLoadFileError:       "I/O error",
	ObsInfo:               "Observability information",
	ObsTimings:            "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
