package storage

// Credentials is the login lookup row. The hash never leaves the store layer.
type Credentials struct {
	ID           int64  `db:"id"`
	PasswordHash string `db:"passwordHash"`
}
