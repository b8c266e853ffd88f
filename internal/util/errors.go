package util

import "errors"

var (
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrTestNotFound       = errors.New("test not found")
	ErrSubjectNotFound    = errors.New("subject not found")
	ErrSliceNotFound      = errors.New("test slice not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidTimer       = errors.New("invalid timer checkpoint, expected MM:SS")
	ErrInvalidMarks       = errors.New("marks must be zero or positive")
)
