package db

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ValidationError reports a missing or malformed field on create.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Message)
}

// NotFoundError reports an operation referencing a non-existent id.
type NotFoundError struct {
	Collection string
	Id         string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v not found (id=%v)", e.Collection, e.Id)
}

// UnauthorizedError reports a caller mutating a record it does not own.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

// ConflictError reports a duplicate unique key.
type ConflictError struct {
	Key string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("duplicate value for unique key %q", e.Key)
}

// StorageError wraps an underlying store or transaction failure.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsUnauthorized(err error) bool {
	var target *UnauthorizedError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

func IsDupKeyErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var dupKeyPattern = regexp.MustCompile(`UNIQUE constraint failed: ((\w+)\.(\w+))`)

// GetDupKey extracts the violated column from a sqlite unique-constraint
// error, e.g. "email" from "UNIQUE constraint failed: users.email".
func GetDupKey(err error) string {
	match := dupKeyPattern.FindStringSubmatch(err.Error())
	if match == nil {
		return ""
	}
	return match[3]
}

// WrapStorage converts a raw driver error, translating unique-constraint
// violations into ConflictErrors.
func WrapStorage(err error) error {
	if err == nil {
		return nil
	}
	if IsDupKeyErr(err) {
		return &ConflictError{Key: GetDupKey(err)}
	}
	return &StorageError{Err: err}
}
