// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

package execsource

import (
	"context"
	"io"
	"log/slog"

	"github.com/hsinghkalsi/ingestcore/internal/framing"
)

// frame is a decoded chunk of bytes tagged with the stream it came from
// ("stdout" or "stderr").
type frame struct {
	bytes  []byte
	stream string
}

// readResult is one outcome of a single underlying Read call, relayed from
// the pump goroutine to shutdownAwareReader.Read.
type readResult struct {
	buf []byte
	err error
}

// shutdownAwareReader wraps r so Read returns io.EOF once done fires,
// without requiring the blocking child-process pipe read itself to support
// cancellation. A background goroutine performs the real (blocking) reads;
// Read relays completed chunks and stops relaying once done fires, letting
// the reader task drain whatever was already decoded and exit (spec.md §9).
type shutdownAwareReader struct {
	ch       chan readResult
	done     <-chan struct{}
	leftover []byte
	err      error
}

func newShutdownAwareReader(r io.Reader, done <-chan struct{}) *shutdownAwareReader {
	sr := &shutdownAwareReader{
		ch:   make(chan readResult),
		done: done,
	}
	go sr.pump(r)
	return sr
}

func (sr *shutdownAwareReader) pump(r io.Reader) {
	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			select {
			case sr.ch <- readResult{buf: chunk}:
			case <-sr.done:
				return
			}
		}
		if err != nil {
			select {
			case sr.ch <- readResult{err: err}:
			case <-sr.done:
			}
			return
		}
	}
}

func (sr *shutdownAwareReader) Read(p []byte) (int, error) {
	if len(sr.leftover) > 0 {
		n := copy(p, sr.leftover)
		sr.leftover = sr.leftover[n:]
		return n, nil
	}
	if sr.err != nil {
		return 0, sr.err
	}

	select {
	case res := <-sr.ch:
		if res.err != nil {
			sr.err = res.err
			return 0, res.err
		}
		n := copy(p, res.buf)
		if n < len(res.buf) {
			sr.leftover = res.buf[n:]
		}
		return n, nil
	case <-sr.done:
		sr.err = io.EOF
		return 0, io.EOF
	}
}

// runReaderTask drains r, framing bytes via the codec selected by
// eventPerLine, and enqueues (frame, streamTag) onto out until the stream
// ends or the receiver (out's consumer, signaled via ctx) is gone.
func runReaderTask(ctx context.Context, r io.Reader, eventPerLine bool, maxLength int, streamTag string, out chan<- frame, logger *slog.Logger) {
	aware := newShutdownAwareReader(r, ctx.Done())

	var decoder framing.Decoder
	if eventPerLine {
		decoder = framing.NewLineDecoder(aware, maxLength)
	} else {
		decoder = framing.NewBlobDecoder(aware, maxLength)
	}

	for {
		decoded, err := decoder.Next()
		if err != nil {
			if err == io.EOF {
				return
			}
			// Decode errors (e.g. line overflow) are logged and never
			// fatal: decoding continues with the next frame.
			logger.Warn("exec reader decode error", "stream", streamTag, "error", err)
			continue
		}

		select {
		case out <- frame{bytes: decoded, stream: streamTag}:
		case <-ctx.Done():
			return
		}
	}
}
