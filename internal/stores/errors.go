package stores

import "errors"

var (
	// ErrDuplicateIdentity is returned by Register when the username or
	// email already appears in the credential collection.
	ErrDuplicateIdentity = errors.New("username or email already exists")

	// ErrInvalidCredentials is what a production login returns on a
	// mismatch. The stub login only returns it for empty input.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrNoSession marks operations that need a signed-in user.
	ErrNoSession = errors.New("no active session")
)
