package objc

import "github.com/cockroachdb/errors"

var (
	// ErrBuilderUsed is returned by a second call to TypeBuilder.Build.
	ErrBuilderUsed = errors.New("type builder already built")
	// ErrWriterClosed is returned by Append after Close.
	ErrWriterClosed = errors.New("source code writer closed")
)
