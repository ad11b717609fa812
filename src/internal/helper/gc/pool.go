// Copyright (c) 2024 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package gc

import (
	"io"

	"github.com/valyala/bytebufferpool"
)

// Buffer defines the interface for a reusable byte buffer.
// It abstracts the [bytebufferpool.ByteBuffer] type to avoid direct dependencies.
type Buffer interface {
	Write(p []byte) (int, error)
	WriteString(s string) (int, error)
	WriteByte(c byte) error
	Bytes() []byte
	Len() int
	Reset()
	ReadFrom(r io.Reader) (int64, error)
}

// Pool defines the interface for buffer pooling.
// It abstracts the [bytebufferpool.Pool] type to avoid direct dependencies.
//
// Pool implementations must be safe for concurrent use by multiple goroutines.
type Pool interface {
	Get() Buffer
	Put(b Buffer)
}

// pool wraps [bytebufferpool.Pool] to implement Pool interface.
type pool struct{ p *bytebufferpool.Pool }

// Get returns a buffer from the pool.
func (p *pool) Get() Buffer { return p.p.Get() }

// Put returns a buffer to the pool.
func (p *pool) Put(b Buffer) {
	if buf, ok := b.(*bytebufferpool.ByteBuffer); ok {
		p.p.Put(buf)
	}
}

// Default is the buffer pool shared by the logger, template retrieval and
// tool result encoding.
//
// Example usage:
//
//	buf := gc.Default.Get()
//	defer func() {
//		buf.Reset()         // Reset the buffer to prevent data leaks
//		gc.Default.Put(buf) // Return the buffer to the pool for reuse
//	}()
//
//	if _, err := buf.ReadFrom(file); err != nil {
//		return fmt.Errorf("error reading file: %w", err)
//	}
var Default Pool = &pool{p: &bytebufferpool.Pool{}}

// ReadAtMost reads r into a pooled buffer and returns a copy of at most limit
// bytes.
//
// Parameters:
//   - p: Pool to borrow the buffer from; nil means Default
//   - r: Source reader
//   - limit: Maximum number of bytes accepted; values below zero mean no limit
//
// Returns:
//   - []byte: The content, owned by the caller
//   - bool: True if r held more than limit bytes, in which case no content is returned
//   - error: Read failure from r
//
// Content is never truncated: either all of r fits and is returned, or the
// exceeded flag is set.
func ReadAtMost(p Pool, r io.Reader, limit int64) ([]byte, bool, error) {
	if p == nil {
		p = Default
	}

	buf := p.Get()
	defer func() {
		buf.Reset()
		p.Put(buf)
	}()

	src := r
	if limit >= 0 {
		src = io.LimitReader(r, limit+1)
	}
	if _, err := buf.ReadFrom(src); err != nil {
		return nil, false, err
	}
	if limit >= 0 && int64(buf.Len()) > limit {
		return nil, true, nil
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, false, nil
}
