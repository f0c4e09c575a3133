package export

import (
	"errors"
	"fmt"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// Error reports a failed export of one conversation.
type Error struct {
	Format string
	Path   string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("export [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
