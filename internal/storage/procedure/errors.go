package procedure

import "errors"

var (
	ErrProcedureNotFound = errors.New("stored procedure not found")
	ErrConnectivity      = errors.New("database connection unavailable")
	ErrNoStatement       = errors.New("neither procedure nor fallback statement given")
)

// StatementError carries the statement that failed. Its message is the
// driver's message unchanged.
type StatementError struct {
	Statement string
	Err       error
}

func (e *StatementError) Error() string {
	return e.Err.Error()
}

func (e *StatementError) Unwrap() error {
	return e.Err
}
