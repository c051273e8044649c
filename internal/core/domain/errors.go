package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCorpus indicates a corpus file could not be decoded
	ErrInvalidCorpus = errors.New("invalid corpus")

	// ErrInvalidConfig indicates the analysis configuration is unusable
	ErrInvalidConfig = errors.New("invalid analysis config")

	// ErrEmptyDataset indicates there is nothing to render
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrRunInProgress indicates another run holds the lock for a corpus
	ErrRunInProgress = errors.New("run already in progress")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrInvalidCredentials indicates a wrong username/password combination
	ErrInvalidCredentials = errors.New("invalid credentials")
)
