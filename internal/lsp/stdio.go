package lsp

import (
	"io"
	"os"
)

// Stdio joins standard input and output into the transport Run expects.
func Stdio() io.ReadWriteCloser {
	return stdrwc{in: os.Stdin, out: os.Stdout}
}

type stdrwc struct {
	in  io.ReadCloser
	out io.WriteCloser
}

func (c stdrwc) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c stdrwc) Write(p []byte) (int, error) { return c.out.Write(p) }

func (c stdrwc) Close() error {
	if err := c.in.Close(); err != nil {
		return err
	}
	return c.out.Close()
}
