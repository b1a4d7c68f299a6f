/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Storage sentinels
var (
	// ErrNotFound is returned when an entity is not found
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyExists is returned when attempting to register something twice
	ErrAlreadyExists = errors.New("entity already exists")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoIndexMap is returned when a gateway has no binding for a key
	ErrNoIndexMap = errors.New("no index map found for key")
)

// Schema definition sentinels
var (
	ErrInvalidEnum          = errors.New("invalid enum")
	ErrInvalidEntityName    = errors.New("invalid entity name")
	ErrPrimaryFieldMismatch = errors.New("primary field not declared")
	ErrInvalidDeclaration   = errors.New("invalid declaration")
)

// Registry lookup sentinels
var (
	ErrUnresolvedReference = errors.New("unresolved type reference")
	ErrUnknownEntity       = errors.New("unknown entity")
	ErrNotAnEnum           = errors.New("not an enum")
	ErrUnknownEnumSymbol   = errors.New("unknown enum symbol")
	ErrUnknownEnumValue    = errors.New("unknown enum value")
)

// Key resolution sentinels
var (
	ErrKeyNotFound          = errors.New("key not found")
	ErrUnresolvableKeyField = errors.New("unresolvable key field")
	ErrKeyValueRequired     = errors.New("key value required")
)

// Aggregation sentinels
var (
	ErrInvalidPath             = errors.New("invalid path")
	ErrMissingSetName          = errors.New("missing set name")
	ErrUnresolvableKeyArgument = errors.New("unresolvable key argument")
	ErrIllegalMergeSpecifier   = errors.New("illegal merge specifier")
	ErrIllegalHookResult       = errors.New("illegal hook result")
)

// DefinitionError is raised eagerly while a scalar, enum or entity is defined.
type DefinitionError struct {
	Kind   error
	Name   string
	Detail string
	Cause  error
}

func (e *DefinitionError) Error() string {
	msg := fmt.Sprintf("%v: %s", e.Kind, e.Name)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *DefinitionError) Is(target error) bool { return target == e.Kind }
func (e *DefinitionError) Unwrap() error         { return e.Cause }

// ReferenceError is raised when a registry lookup cannot be satisfied.
type ReferenceError struct {
	Kind   error
	Ref    string
	Detail string
}

func (e *ReferenceError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%v %q: %s", e.Kind, e.Ref, e.Detail)
	}
	return fmt.Sprintf("%v %q", e.Kind, e.Ref)
}

func (e *ReferenceError) Is(target error) bool { return target == e.Kind }

// KeyError carries the entity, key and field a key operation failed on.
type KeyError struct {
	Kind   error
	Entity string
	Key    string
	Field  string
	Cause  error
}

func (e *KeyError) Error() string {
	msg := fmt.Sprintf("%v: %s key %q", e.Kind, e.Entity, e.Key)
	if e.Field != "" {
		msg += fmt.Sprintf(" field %q", e.Field)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *KeyError) Is(target error) bool { return target == e.Kind }
func (e *KeyError) Unwrap() error         { return e.Cause }

// AggregateError is raised by the graph aggregator at the failing call.
type AggregateError struct {
	Kind   error
	Entity string
	Detail string
}

func (e *AggregateError) Error() string {
	if e.Entity == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("%v: %s: %s", e.Kind, e.Entity, e.Detail)
}

func (e *AggregateError) Is(target error) bool { return target == e.Kind }

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyExistsError represents an error when an entity already exists
type AlreadyExistsError struct {
	Type string
	Key  string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with key %q already exists", e.Type, e.Key)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Helper functions for creating errors

// NewDefinitionError creates a new DefinitionError
func NewDefinitionError(kind error, name, detail string) error {
	return &DefinitionError{Kind: kind, Name: name, Detail: detail}
}

// NewReferenceError creates a new ReferenceError
func NewReferenceError(kind error, ref, detail string) error {
	return &ReferenceError{Kind: kind, Ref: ref, Detail: detail}
}

// NewKeyError creates a new KeyError
func NewKeyError(kind error, entity, key, field string) error {
	return &KeyError{Kind: kind, Entity: entity, Key: key, Field: field}
}

// NewAggregateError creates a new AggregateError
func NewAggregateError(kind error, entity, format string, args ...any) error {
	return &AggregateError{Kind: kind, Entity: entity, Detail: fmt.Sprintf(format, args...)}
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entityType, key string) error {
	return &NotFoundError{Type: entityType, Key: key}
}

// NewAlreadyExistsError creates a new AlreadyExistsError
func NewAlreadyExistsError(entityType, key string) error {
	return &AlreadyExistsError{Type: entityType, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsKeyNotFound checks if an error reports a missing key definition
func IsKeyNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound)
}

// IsUnresolvableKeyField checks if key resolution failed on a field
func IsUnresolvableKeyField(err error) bool {
	return errors.Is(err, ErrUnresolvableKeyField)
}

// IsUnknownEntity checks if an error reports an unregistered entity
func IsUnknownEntity(err error) bool {
	return errors.Is(err, ErrUnknownEntity)
}

// IsInvalidPath checks if an aggregation path was rejected
func IsInvalidPath(err error) bool {
	return errors.Is(err, ErrInvalidPath)
}
