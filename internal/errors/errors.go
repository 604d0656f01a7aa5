// Package errors formats parse- and host-facing diagnostics with source
// context, and defines the host-visible error kinds the engine facade
// returns (parse error, evaluation error, host misuse, deadline error).
// In-language throws (TypeError/ReferenceError/...) are JS values created
// by internal/runtime; this package only carries their rendered text once
// they cross the host boundary.
package errors

import (
	"fmt"
	"strings"

	"github.com/kr/text"

	"github.com/cwbudde/jsvm/internal/token"
)

// ParseError is a single syntax error with its source origin, formatted
// with a caret pointing at the offending column.
type ParseError struct {
	Message string
	Source  string
	File    string
	Pos     token.Position
}

func NewParseError(pos token.Position, message, source, file string) *ParseError {
	return &ParseError{Pos: pos, Message: message, Source: source, File: file}
}

func (e *ParseError) Error() string { return e.Format() }

func (e *ParseError) Format() string {
	var sb strings.Builder
	if e.File != "" {
		fmt.Fprintf(&sb, "%s:%d:%d: %s\n", e.File, e.Pos.Line, e.Pos.Column, e.Message)
	} else {
		fmt.Fprintf(&sb, "line %d:%d: %s\n", e.Pos.Line, e.Pos.Column, e.Message)
	}
	if line := e.sourceLine(e.Pos.Line); line != "" {
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", max0(e.Pos.Column-1)))
		sb.WriteString("^\n")
	}
	return sb.String()
}

func (e *ParseError) sourceLine(n int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// FormatParseErrors renders a batch of parse errors, one per diagnostic.
func FormatParseErrors(errs []*ParseError) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d parse errors:\n\n", len(errs))
	for i, e := range errs {
		fmt.Fprintf(&sb, "[%d/%d] %s", i+1, len(errs), e.Format())
	}
	return sb.String()
}

// Kind classifies a host-visible error, per the error handling design's
// taxonomy of kinds a host must branch on.
type Kind string

const (
	KindParse      Kind = "parse_error"
	KindEvaluation Kind = "evaluation_error"
	KindHostMisuse Kind = "host_misuse"
	KindDeadline   Kind = "deadline_error"
)

// StackFrame is one entry of a call-stack descriptor attached to an
// EngineError, innermost call first.
type StackFrame struct {
	FunctionName string
	Pos          token.Position
}

// EngineError is the error type returned across the Engine facade boundary.
// Value holds the rendered text of the thrown JS value (runtime.Value
// cannot be imported here without a cycle); Stack is indented with
// kr/text the way a host-facing traceback is usually rendered.
type EngineError struct {
	Kind    Kind
	Message string
	Value   string
	Stack   []StackFrame
}

func (e *EngineError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if len(e.Stack) > 0 {
		sb.WriteString("\n")
		var frames strings.Builder
		for _, f := range e.Stack {
			fmt.Fprintf(&frames, "at %s (%d:%d)\n", f.FunctionName, f.Pos.Line, f.Pos.Column)
		}
		sb.WriteString(string(text.Indent(strings.TrimRight(frames.String(), "\n"), "  ")))
	}
	return sb.String()
}

func NewEvaluationError(message, thrownValue string, stack []StackFrame) *EngineError {
	return &EngineError{Kind: KindEvaluation, Message: message, Value: thrownValue, Stack: stack}
}

func NewHostMisuseError(message string) *EngineError {
	return &EngineError{Kind: KindHostMisuse, Message: message}
}

func NewDeadlineError(message string) *EngineError {
	return &EngineError{Kind: KindDeadline, Message: message}
}
