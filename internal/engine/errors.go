package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/socialgraph/internal/ir"
)

// Code identifies why an instruction was rejected.
type Code string

const (
	// CodeUnauthorized: caller is not the record's owner.
	CodeUnauthorized Code = "Unauthorized"

	// CodeNotFound: no record of the expected kind at the address.
	CodeNotFound Code = "NotFound"

	// CodeAddressCollision: the target address already holds a record.
	CodeAddressCollision Code = "AddressCollision"

	// CodeNoContent: content or alias is empty.
	CodeNoContent Code = "NoContent"

	// CodeTagTooLong: tag exceeds 50 characters.
	CodeTagTooLong Code = "TagTooLong"

	// CodeContentTooLong: content or alias exceeds its bound.
	CodeContentTooLong Code = "ContentTooLong"

	// CodeNothingChanged: update would leave every mutable field as stored.
	CodeNothingChanged Code = "NothingChanged"

	// CodeInvalidInstruction: the instruction itself is malformed
	// (unknown op, zero caller, missing address or argument).
	CodeInvalidInstruction Code = "InvalidInstruction"
)

var allCodes = []Code{
	CodeUnauthorized, CodeNotFound, CodeAddressCollision,
	CodeNoContent, CodeTagTooLong, CodeContentTooLong,
	CodeNothingChanged, CodeInvalidInstruction,
}

// Codes returns every instruction error code.
func Codes() []Code {
	out := make([]Code, len(allCodes))
	copy(out, allCodes)
	return out
}

// InstructionError reports a rejected instruction.
//
// Rejections are terminal and leave no partial effect. Match a category
// with errors.Is against the Err* sentinels, or read the code with CodeOf.
type InstructionError struct {
	// Code identifies the error category.
	Code Code

	// Op is the rejected op.
	Op ir.Op

	// Address is the resolved target address, zero if none.
	Address ir.Address

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *InstructionError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Address.IsZero() {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, e.Message)
	}
	return fmt.Sprintf("%s %s: %s: %s", e.Op, e.Address, e.Code, e.Message)
}

// Is matches any *InstructionError with the same code.
func (e *InstructionError) Is(target error) bool {
	var t *InstructionError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrUnauthorized       = &InstructionError{Code: CodeUnauthorized, Message: "caller is not the owner"}
	ErrNotFound           = &InstructionError{Code: CodeNotFound, Message: "record not found"}
	ErrAddressCollision   = &InstructionError{Code: CodeAddressCollision, Message: "address already occupied"}
	ErrNoContent          = &InstructionError{Code: CodeNoContent, Message: "Trying to send a tweet without content"}
	ErrTagTooLong         = &InstructionError{Code: CodeTagTooLong, Message: "Exceeding maximum tag length of 50 characters"}
	ErrContentTooLong     = &InstructionError{Code: CodeContentTooLong, Message: "Exceeding maximum content length of 280 characters"}
	ErrNothingChanged     = &InstructionError{Code: CodeNothingChanged, Message: "Nothing that could be updated"}
	ErrInvalidInstruction = &InstructionError{Code: CodeInvalidInstruction, Message: "invalid instruction"}
)

// CodeOf returns the instruction error code carried by err, or "" when err
// is nil or not an instruction rejection.
func CodeOf(err error) Code {
	var ie *InstructionError
	if errors.As(err, &ie) {
		return ie.Code
	}
	return ""
}

// IsInstructionError reports whether err is an instruction rejection, as
// opposed to a storage or context failure.
func IsInstructionError(err error) bool {
	return CodeOf(err) != ""
}

// reject builds an InstructionError for the current call.
func reject(c *call, code Code, format string, args ...any) *InstructionError {
	return &InstructionError{
		Code:    code,
		Op:      c.ins.Op,
		Address: c.addr,
		Message: fmt.Sprintf(format, args...),
	}
}
