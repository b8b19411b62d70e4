package middleware

import (
	"bytes"
	"io"
	"net/http"
)

const maxPeekBytes = 1 << 16

type readCloser struct {
	*bytes.Reader
}

func (readCloser) Close() error { return nil }

func readAllLimited(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(io.LimitReader(r.Body, maxPeekBytes))
}
