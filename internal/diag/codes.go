package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Синтаксис выражений
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynExpectExpression  Code = 2002
	SynUnclosedDelimiter Code = 2003
	SynBadNumber         Code = 2004
	SynUnterminatedStr   Code = 2005
	SynUnknownChar       Code = 2006
	SynTrailingInput     Code = 2007

	// Элаборация
	ElabInfo                 Code = 3000
	ElabUnresolvedIdentifier Code = 3001
	ElabNonConstantSelect    Code = 3002
	ElabOutOfOrderRange      Code = 3003
	ElabNegativeRepeat       Code = 3004
	ElabUndefinedRepeat      Code = 3005
	ElabZeroRepeat           Code = 3006
	ElabZeroWidthConcat      Code = 3007
	ElabIndefiniteWidth      Code = 3008
	ElabMissingConcatElement Code = 3009
	ElabDomainMismatch       Code = 3010
	ElabRealOperand          Code = 3011
	ElabOutOfRangeSelect     Code = 3012
	ElabMissingArgument      Code = 3013
	ElabArityMismatch        Code = 3014
	ElabUnknownFunction      Code = 3015
	ElabMissingReturn        Code = 3016
	ElabArrayNeedsIndex      Code = 3017
	ElabArrayRangeIndex      Code = 3018
	ElabSelectTooWide        Code = 3019
	ElabDeprecated           Code = 3020
	ElabSignCastArity        Code = 3021
	ElabInternalConsistency  Code = 3999

	// Ввод-вывод
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002

	// Описание дизайна
	DsnInvalid          Code = 5001
	DsnDuplicateName    Code = 5002
	DsnUnknownScope     Code = 5003
	DsnBadParamValue    Code = 5004
	DsnUnknownDomain    Code = 5005
	DsnUnsupportedInput Code = 5006

	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	SynInfo:              "Syntax information",
	SynUnexpectedToken:   "Unexpected token",
	SynExpectExpression:  "Expected expression",
	SynUnclosedDelimiter: "Unclosed delimiter",
	SynBadNumber:         "Malformed number literal",
	SynUnterminatedStr:   "Unterminated string literal",
	SynUnknownChar:       "Unknown character",
	SynTrailingInput:     "Unexpected input after expression",

	ElabInfo:                 "Elaboration information",
	ElabUnresolvedIdentifier: "Unable to bind identifier",
	ElabNonConstantSelect:    "Select bound is not constant",
	ElabOutOfOrderRange:      "Part select is out of order",
	ElabNegativeRepeat:       "Negative concatenation repeat",
	ElabUndefinedRepeat:      "Concatenation repeat is undefined",
	ElabZeroRepeat:           "Concatenation repeat may not be zero",
	ElabZeroWidthConcat:      "Concatenation may not have zero width",
	ElabIndefiniteWidth:      "Concatenation operand has indefinite width",
	ElabMissingConcatElement: "Concatenation operand missing",
	ElabDomainMismatch:       "Incompatible value domains",
	ElabRealOperand:          "Operator does not accept real operands",
	ElabOutOfRangeSelect:     "Constant select is out of range",
	ElabMissingArgument:      "Missing function argument",
	ElabArityMismatch:        "Argument count does not match declaration",
	ElabUnknownFunction:      "No such function",
	ElabMissingReturn:        "Function has no return value binding",
	ElabArrayNeedsIndex:      "Array needs an index",
	ElabArrayRangeIndex:      "Array cannot be indexed by a range",
	ElabSelectTooWide:        "Select bounds exceed the supported width",
	ElabDeprecated:           "Deprecated system function",
	ElabSignCastArity:        "Sign cast takes exactly one argument",
	ElabInternalConsistency:  "Internal consistency error",

	IOLoadFileError: "I/O load file error",
	IOCacheError:    "Cache error",

	DsnInvalid:          "Invalid design description",
	DsnDuplicateName:    "Duplicate name in scope",
	DsnUnknownScope:     "Unknown scope",
	DsnBadParamValue:    "Bad parameter value",
	DsnUnknownDomain:    "Unknown value domain",
	DsnUnsupportedInput: "Unsupported design file",

	ObsInfo:    "Observability information",
	ObsTimings: "Timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("ELB%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("DSN%04d", ic)
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
