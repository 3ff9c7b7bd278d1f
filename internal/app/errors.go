package app

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnauthenticated      = errors.New("authentication required")
	ErrForbidden            = errors.New("admin access required")
	ErrMessageEmpty         = errors.New("message content is empty")
	ErrSessionUnavailable   = errors.New("unable to create a chat session")
	ErrBackendOffline       = errors.New("cannot connect to ARB Chatbot API")
	ErrUnknownMessage       = errors.New("message not found")
	ErrFeedbackAlreadyGiven = errors.New("feedback already submitted for this message")
)
