package limlog

import (
	"io"
	"os"
)

// Writer is the byte sink the SinkEngine hands its drained output buffer
// to, at most once per drain cycle, with the buffer's current contents.
// Implementations must be synchronous from the engine's point of view.
type Writer interface {
	Write(data []byte) (n int, err error)
}

// FileConfigurable is implemented by writers that support runtime
// reconfiguration of their target file and rotation policy. Writers that
// don't manage a file (StdoutWriter, NullWriter) don't implement it.
type FileConfigurable interface {
	SetFileName(path string) error
	SetMaxSize(mib int64)
	SetMaxBackups(count int)
}

// StdoutWriter forwards bytes to os.Stdout.
type StdoutWriter struct{}

func NewStdoutWriter() *StdoutWriter { return &StdoutWriter{} }

func (w *StdoutWriter) Write(data []byte) (int, error) {
	return os.Stdout.Write(data)
}

// NullWriter discards everything written to it.
type NullWriter struct{}

func NewNullWriter() *NullWriter { return &NullWriter{} }

func (w *NullWriter) Write(data []byte) (int, error) {
	return len(data), nil
}

var _ io.Writer = (*StdoutWriter)(nil)
var _ io.Writer = (*NullWriter)(nil)
