package ui

import (
	"bytes"
	"sync"
)

// Output collects text written by the shell and its logger between renders.
type Output struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewOutput returns an empty Output.
func NewOutput() *Output {
	return &Output{}
}

func (o *Output) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.buf.Write(p)
}

// Drain returns everything written so far and resets the buffer.
func (o *Output) Drain() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	s := o.buf.String()
	o.buf.Reset()
	return s
}
