package errors

// Error Message Catalog
//
// Standardized, parameterized error text. Only engine/ references these
// constants (the host-misuse messages); the tree interpreter, runtime and
// builtins spell their TypeError/ReferenceError/RangeError text inline,
// several with the same wording as the constants below.
//
// All error messages:
//   - start lowercase (except proper nouns/identifiers)
//   - are concise, present tense, and include the offending name/value

const (
	// Reference errors
	ErrMsgUndefinedVariable  = "%s is not defined"
	ErrMsgTDZ                = "cannot access '%s' before initialization"
	ErrMsgAssignToConst      = "assignment to constant variable"
	ErrMsgInvalidLeftAssign  = "invalid left-hand side in assignment"
	ErrMsgInvalidDestructure = "invalid destructuring assignment target"

	// Type errors
	ErrMsgNotAFunction        = "%s is not a function"
	ErrMsgNotAConstructor     = "%s is not a constructor"
	ErrMsgCannotReadProperty  = "cannot read properties of %s (reading '%s')"
	ErrMsgCannotSetProperty   = "cannot set properties of %s (setting '%s')"
	ErrMsgIteratorResult      = "iterator result is not an object"
	ErrMsgNotIterable         = "%s is not iterable"
	ErrMsgGeneratorExecuting  = "generator is already executing"
	ErrMsgCannotConvertSymbol = "cannot convert a Symbol value to a string"
	ErrMsgClassConstructorNew = "class constructor %s cannot be invoked without 'new'"
	ErrMsgDerivedThisBeforeSuper = "must call super constructor before accessing 'this' in a derived class constructor"
	ErrMsgSuperOutsideMethod  = "'super' keyword is only valid inside a class method"

	// Range errors
	ErrMsgMaxCallStack  = "maximum call stack size exceeded"
	ErrMsgMaxLookupDepth = "maximum prototype lookup depth exceeded"
	ErrMsgInvalidArrayLength = "invalid array length"

	// Host-misuse errors (not JS-visible taxonomy, but host-facing kinds)
	ErrMsgSyncAwait      = "cannot await in synchronous evaluation"
	ErrMsgEngineDisposed = "engine shutdown"
	ErrMsgDeadline       = "deadline exceeded"
)
