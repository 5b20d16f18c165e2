package symbolic

import "strconv"

// OperatorError is an error indicating an operator token that is not
// understood by the parser. It implements InputError.
type OperatorError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the token that was not understood.
	Operator string
	// Unary is whether the parser expected a unary operator at the time.
	Unary bool
}

func (err *OperatorError) Error() string {
	s := "binary"
	if err.Unary {
		s = "unary"
	}
	return errpos(err.Col, "unknown "+s+" operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

// BracketError is an error indicating unbalanced or mismatched brackets in
// the input. It implements InputError.
type BracketError struct {
	// Col is the position of the offending token.
	Col int
	// Left is the opening bracket, or the empty string if there is none.
	Left string
	// Right is the closing bracket that was found, or the empty string if the
	// input ended first.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	want := err.Expected()
	if err.Right == "" {
		return errpos(err.Col, "open bracket "+err.Left+" with no close bracket; expected "+want)
	}
	return errpos(err.Col, "mismatched bracket: expected "+want+" to close "+err.Left+", found "+err.Right)
}

func (err *BracketError) Pos() int {
	return err.Col
}

// Expected returns the closing bracket that would have balanced the input, or
// the empty string if the problem is a close bracket with no open bracket.
func (err *BracketError) Expected() string {
	k := rightbracket(err.Left)
	if k < 0 {
		return ""
	}
	return closebrackets[k]
}

// SeparatorError is an error indicating an illegal use of a comma. It
// implements InputError.
type SeparatorError struct {
	// Col is the position of the separator.
	Col int
	// Sep is the separator.
	Sep string
}

func (err *SeparatorError) Error() string {
	return errpos(err.Col, "invalid occurrence of separator "+strconv.Quote(err.Sep))
}

func (err *SeparatorError) Pos() int {
	return err.Col
}

// CallError is an error indicating a function call with the wrong number of
// arguments. It implements InputError.
type CallError struct {
	// Col is the position of the function name. It is zero for errors
	// found during evaluation.
	Col int
	// Func is the function name that was called.
	Func string
	// Want is the number of arguments the function takes, or -1 if it
	// accepts several different counts.
	Want int
	// Len is the number of arguments the function call tried to imply.
	Len int
}

func (err *CallError) Error() string {
	msg := "cannot call " + err.Func + " with " + strconv.Itoa(err.Len) + " arguments"
	if err.Want >= 0 {
		msg += " (expected " + strconv.Itoa(err.Want) + ")"
	}
	if err.Col <= 0 {
		return msg
	}
	return errpos(err.Col, msg)
}

func (err *CallError) Pos() int {
	return err.Col
}

// EmptyExpressionError is an error indicating an empty subexpression.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "no expression at end")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// TrailingInputError is an error indicating input left over after a complete
// expression, e.g. the second number in "2 3".
type TrailingInputError struct {
	// Col is the position of the first unconsumed token.
	Col int
	// Text is the first unconsumed token.
	Text string
}

func (err *TrailingInputError) Error() string {
	return errpos(err.Col, "unexpected "+strconv.Quote(err.Text)+" after end of expression")
}

func (err *TrailingInputError) Pos() int {
	return err.Col
}

// AssignmentError is an error indicating an assignment to something other
// than a variable or a function with distinct variable parameters.
type AssignmentError struct {
	// Col is the position of the assignment operator.
	Col int
	// Target is the formatted left-hand side.
	Target string
}

func (err *AssignmentError) Error() string {
	return errpos(err.Col, "cannot assign to "+err.Target)
}

func (err *AssignmentError) Pos() int {
	return err.Col
}

// UndefinedFuncError is an error indicating a call to a function that does
// not exist. During parsing it means a function token named no builtin;
// during evaluation, a user function with no definition in the context.
type UndefinedFuncError struct {
	// Name is the function name.
	Name string
	// Col is the position of the call, or zero during evaluation.
	Col int
}

func (err *UndefinedFuncError) Error() string {
	msg := "undefined function: " + strconv.Quote(err.Name)
	if err.Col <= 0 {
		return msg
	}
	return errpos(err.Col, msg)
}

func (err *UndefinedFuncError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SeparatorError)(nil)
	_ InputError = (*CallError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*TrailingInputError)(nil)
	_ InputError = (*AssignmentError)(nil)
	_ InputError = (*UndefinedFuncError)(nil)
	_ InputError = (*LexError)(nil)
)
