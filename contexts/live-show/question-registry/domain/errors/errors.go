package errors

import "errors"

var (
	ErrQuestionNotFound     = errors.New("question not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrInvalidQuestionInput = errors.New("invalid question input")
)
