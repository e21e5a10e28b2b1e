package ilerr

import (
	"fmt"
	"strings"

	"github.com/cottand/ilec/frontend/source"
	"github.com/cottand/ilec/util"
)

type ErrCode int

const (
	None ErrCode = iota
	TypeNotFound
	CyclicTypeAlias
	VariableNotFound
	TypesNotMatched
	FunctionEqualOperation
	AnyEqualOperation
	RecordEqualOperation
	CaseArgumentTypeInvalid
	CasePatternNotSubtype
	CaseNotExhaustive
	MixedDefinitionsInLet
	DuplicateDefinition
	RecordFieldNotFound
	RecordExpected
	ListExpected
	ExportNotFound
	Syntax
)

type IleError interface {
	Error() string
	Code() ErrCode
	source.Positioner

	withStack([]byte) IleError
	getStack() []byte
}

type NewTypeNotFound struct {
	source.Positioner
	Name  string
	stack []byte
}

func (e NewTypeNotFound) Error() string    { return fmt.Sprintf("type '%s' is not defined", e.Name) }
func (e NewTypeNotFound) Code() ErrCode    { return TypeNotFound }
func (e NewTypeNotFound) getStack() []byte { return e.stack }
func (e NewTypeNotFound) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewCyclicTypeAlias struct {
	source.Positioner
	Names []string
	stack []byte
}

func (e NewCyclicTypeAlias) Error() string {
	return fmt.Sprintf("type alias refers to itself: %s", strings.Join(e.Names, " -> "))
}
func (e NewCyclicTypeAlias) Code() ErrCode    { return CyclicTypeAlias }
func (e NewCyclicTypeAlias) getStack() []byte { return e.stack }
func (e NewCyclicTypeAlias) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewVariableNotFound struct {
	source.Positioner
	Name  string
	stack []byte
}

func (e NewVariableNotFound) Error() string    { return fmt.Sprintf("variable '%s' is not defined", e.Name) }
func (e NewVariableNotFound) Code() ErrCode    { return VariableNotFound }
func (e NewVariableNotFound) getStack() []byte { return e.stack }
func (e NewVariableNotFound) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

// NewTypesNotMatched is reported when Lower is used where Upper is expected
// but Lower is not a subtype of Upper
type NewTypesNotMatched struct {
	source.Positioner
	Lower fmt.Stringer
	Upper fmt.Stringer
	// Reason optionally explains which part of the types did not match
	Reason string
	stack  []byte
}

func (e NewTypesNotMatched) Error() string {
	msg := fmt.Sprintf("type mismatch: expected '%v', but found '%v'", e.Upper, e.Lower)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}
func (e NewTypesNotMatched) Code() ErrCode    { return TypesNotMatched }
func (e NewTypesNotMatched) getStack() []byte { return e.stack }
func (e NewTypesNotMatched) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewFunctionEqualOperation struct {
	source.Positioner
	stack []byte
}

func (e NewFunctionEqualOperation) Error() string    { return "functions cannot be compared for equality" }
func (e NewFunctionEqualOperation) Code() ErrCode    { return FunctionEqualOperation }
func (e NewFunctionEqualOperation) getStack() []byte { return e.stack }
func (e NewFunctionEqualOperation) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewAnyEqualOperation struct {
	source.Positioner
	stack []byte
}

func (e NewAnyEqualOperation) Error() string {
	return "values of type 'Any' cannot be compared for equality without narrowing them first"
}
func (e NewAnyEqualOperation) Code() ErrCode    { return AnyEqualOperation }
func (e NewAnyEqualOperation) getStack() []byte { return e.stack }
func (e NewAnyEqualOperation) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewRecordEqualOperation struct {
	source.Positioner
	Record string
	stack  []byte
}

func (e NewRecordEqualOperation) Error() string {
	return fmt.Sprintf("record '%s' cannot be compared for equality because some of its fields are not comparable", e.Record)
}
func (e NewRecordEqualOperation) Code() ErrCode    { return RecordEqualOperation }
func (e NewRecordEqualOperation) getStack() []byte { return e.stack }
func (e NewRecordEqualOperation) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewCaseArgumentTypeInvalid struct {
	source.Positioner
	Type  fmt.Stringer
	stack []byte
}

func (e NewCaseArgumentTypeInvalid) Error() string {
	return fmt.Sprintf("case expressions can only match on 'Any' or on unions, but found '%v'", e.Type)
}
func (e NewCaseArgumentTypeInvalid) Code() ErrCode    { return CaseArgumentTypeInvalid }
func (e NewCaseArgumentTypeInvalid) getStack() []byte { return e.stack }
func (e NewCaseArgumentTypeInvalid) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewCasePatternNotSubtype struct {
	source.Positioner
	Pattern fmt.Stringer
	Subject fmt.Stringer
	stack   []byte
}

func (e NewCasePatternNotSubtype) Error() string {
	return fmt.Sprintf("pattern '%v' can never match a value of type '%v'", e.Pattern, e.Subject)
}
func (e NewCasePatternNotSubtype) Code() ErrCode    { return CasePatternNotSubtype }
func (e NewCasePatternNotSubtype) getStack() []byte { return e.stack }
func (e NewCasePatternNotSubtype) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewCaseNotExhaustive struct {
	source.Positioner
	Missing []fmt.Stringer
	stack   []byte
}

func (e NewCaseNotExhaustive) Error() string {
	return fmt.Sprintf("case expression does not cover: %s", util.JoinString(e.Missing, ", "))
}
func (e NewCaseNotExhaustive) Code() ErrCode    { return CaseNotExhaustive }
func (e NewCaseNotExhaustive) getStack() []byte { return e.stack }
func (e NewCaseNotExhaustive) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewMixedDefinitionsInLet struct {
	source.Positioner
	stack []byte
}

func (e NewMixedDefinitionsInLet) Error() string {
	return "a let expression cannot mix function and value definitions"
}
func (e NewMixedDefinitionsInLet) Code() ErrCode    { return MixedDefinitionsInLet }
func (e NewMixedDefinitionsInLet) getStack() []byte { return e.stack }
func (e NewMixedDefinitionsInLet) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewDuplicateDefinition struct {
	source.Positioner
	Name  string
	stack []byte
}

func (e NewDuplicateDefinition) Error() string    { return fmt.Sprintf("'%s' is defined more than once", e.Name) }
func (e NewDuplicateDefinition) Code() ErrCode    { return DuplicateDefinition }
func (e NewDuplicateDefinition) getStack() []byte { return e.stack }
func (e NewDuplicateDefinition) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewRecordFieldNotFound struct {
	source.Positioner
	Record string
	Field  string
	stack  []byte
}

func (e NewRecordFieldNotFound) Error() string {
	return fmt.Sprintf("record '%s' has no field '%s'", e.Record, e.Field)
}
func (e NewRecordFieldNotFound) Code() ErrCode    { return RecordFieldNotFound }
func (e NewRecordFieldNotFound) getStack() []byte { return e.stack }
func (e NewRecordFieldNotFound) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewRecordExpected struct {
	source.Positioner
	Type  fmt.Stringer
	stack []byte
}

func (e NewRecordExpected) Error() string {
	if e.Type == nil {
		return "expected a record type, but the type is unknown"
	}
	return fmt.Sprintf("expected a record type, but found '%v'", e.Type)
}
func (e NewRecordExpected) Code() ErrCode    { return RecordExpected }
func (e NewRecordExpected) getStack() []byte { return e.stack }
func (e NewRecordExpected) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewListExpected struct {
	source.Positioner
	Type  fmt.Stringer
	stack []byte
}

func (e NewListExpected) Error() string {
	return fmt.Sprintf("expected a list type, but found '%v'", e.Type)
}
func (e NewListExpected) Code() ErrCode    { return ListExpected }
func (e NewListExpected) getStack() []byte { return e.stack }
func (e NewListExpected) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewExportNotFound struct {
	source.Positioner
	Name  string
	stack []byte
}

func (e NewExportNotFound) Error() string {
	return fmt.Sprintf("exported name '%s' is not defined in this module", e.Name)
}
func (e NewExportNotFound) Code() ErrCode    { return ExportNotFound }
func (e NewExportNotFound) getStack() []byte { return e.stack }
func (e NewExportNotFound) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

// NewSyntax is a malformed module or interface document
type NewSyntax struct {
	source.Positioner
	Message string
	stack   []byte
}

func (e NewSyntax) Error() string    { return e.Message }
func (e NewSyntax) Code() ErrCode    { return Syntax }
func (e NewSyntax) getStack() []byte { return e.stack }
func (e NewSyntax) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}
