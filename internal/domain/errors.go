package domain

import "errors"

var (
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrEmptyBank is returned when a quiz is started from a bank without questions.
	ErrEmptyBank = errors.New("question bank is empty")
	// ErrInvalidQuestion indicates a question whose options or answer break the bank invariants.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrSessionNotFound is returned when a quiz run has not been started or already ended.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrPredictionNotFound indicates no index value exists for the requested country or year.
	ErrPredictionNotFound = errors.New("prediction not found")
	// ErrInvalidInput is returned for malformed caller input at the service edge.
	ErrInvalidInput = errors.New("invalid input")
)
