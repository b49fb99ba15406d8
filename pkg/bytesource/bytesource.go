// Package bytesource resolves an image payload given as bytes, a file path or
// a stream into one in-memory value, so downstream code reads it any number of times.
package bytesource

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

type Source struct {
	data []byte
}

func FromBytes(data []byte) Source {
	return Source{data: data}
}

func FromReader(r io.Reader) (Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Source{}, fmt.Errorf("bytesource - FromReader - io.ReadAll: %w", err)
	}

	return Source{data: data}, nil
}

func FromFile(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("bytesource - FromFile - os.ReadFile: %w", err)
	}

	return Source{data: data}, nil
}

// Reader returns a fresh reader positioned at the start of the payload.
func (s Source) Reader() *bytes.Reader {
	return bytes.NewReader(s.data)
}

func (s Source) Bytes() []byte {
	return s.data
}

func (s Source) Len() int {
	return len(s.data)
}

func (s Source) Empty() bool {
	return len(s.data) == 0
}
