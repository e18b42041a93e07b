package domain

// DefaultListLimit is the page size used when a list request does not specify one.
const DefaultListLimit = 50

// MaxListLimit caps the page size a client may request.
const MaxListLimit = 200

// MinPasswordLength is the minimum accepted length for a user password.
const MinPasswordLength = 8
