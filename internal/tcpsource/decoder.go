// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

package tcpsource

import (
	"errors"
	"io"
	"time"

	"github.com/klauspost/pgzip"

	"github.com/hsinghkalsi/ingestcore/internal/framing"
	"github.com/hsinghkalsi/ingestcore/internal/hashutil"
	"github.com/hsinghkalsi/ingestcore/internal/logevent"
)

// Decoder is a stateful, per-connection byte-to-frame decoder: the
// polymorphic capability spec.md §9 calls for ("build a decoder, classify
// decoder errors as continuable or fatal").
type Decoder interface {
	// Next returns the next decoded item and its byte size, or io.EOF once
	// the peer has closed the stream.
	Next() (item []byte, byteSize int, err error)
	// CanContinue classifies a non-EOF decode error as recoverable
	// (true: log and keep reading) or fatal (false: close the connection).
	CanContinue(err error) bool
}

// DecoderFactory produces a fresh Decoder per accepted connection.
type DecoderFactory interface {
	NewDecoder(r io.Reader) Decoder
}

// EventLifter is the remaining polymorphic capability: lifting a decoded
// item into one or more events, and optionally building a per-item ack.
type EventLifter interface {
	BuildAck(item []byte) []byte
	Lift(item []byte, host string, byteSize int) []logevent.Event
}

// lineDecoder adapts framing.LineDecoder to the Decoder interface.
type lineDecoder struct {
	inner *framing.LineDecoder
}

func (d lineDecoder) Next() ([]byte, int, error) {
	item, err := d.inner.Next()
	return item, len(item), err
}

func (lineDecoder) CanContinue(err error) bool {
	return errors.Is(err, framing.ErrLineTooLong)
}

// blobDecoder adapts framing.BlobDecoder to the Decoder interface.
type blobDecoder struct {
	inner *framing.BlobDecoder
}

func (d blobDecoder) Next() ([]byte, int, error) {
	item, err := d.inner.Next()
	return item, len(item), err
}

func (blobDecoder) CanContinue(error) bool {
	return false
}

// LineDecoderFactory builds newline-framed Decoders.
type LineDecoderFactory struct {
	MaxLength int
}

// NewDecoder implements DecoderFactory.
func (f LineDecoderFactory) NewDecoder(r io.Reader) Decoder {
	return lineDecoder{inner: framing.NewLineDecoder(r, f.MaxLength)}
}

// BlobDecoderFactory builds fixed-max-size blob Decoders.
type BlobDecoderFactory struct {
	MaxLength int
}

// NewDecoder implements DecoderFactory.
func (f BlobDecoderFactory) NewDecoder(r io.Reader) Decoder {
	return blobDecoder{inner: framing.NewBlobDecoder(r, f.MaxLength)}
}

// CompressedLineDecoderFactory wraps a connection in a pgzip reader before
// framing it by line, for peers that gzip-compress their TCP stream. This
// is additive: plain LineDecoderFactory/BlobDecoderFactory remain the
// default per spec.md.
type CompressedLineDecoderFactory struct {
	MaxLength int
}

type compressedLineDecoder struct {
	inner  *framing.LineDecoder
	closer io.Closer
}

func (d compressedLineDecoder) Next() ([]byte, int, error) {
	item, err := d.inner.Next()
	if errors.Is(err, io.EOF) {
		d.closer.Close()
	}
	return item, len(item), err
}

func (compressedLineDecoder) CanContinue(err error) bool {
	return errors.Is(err, framing.ErrLineTooLong)
}

// NewDecoder implements DecoderFactory. If the gzip header cannot be read
// (e.g. the peer isn't actually sending a compressed stream), every Next
// call reports the error as fatal.
func (f CompressedLineDecoderFactory) NewDecoder(r io.Reader) Decoder {
	gz, err := pgzip.NewReader(r)
	if err != nil {
		return failingDecoder{err: err}
	}
	return compressedLineDecoder{inner: framing.NewLineDecoder(gz, f.MaxLength), closer: gz}
}

type failingDecoder struct{ err error }

func (d failingDecoder) Next() ([]byte, int, error) { return nil, 0, d.err }
func (failingDecoder) CanContinue(error) bool        { return false }

// DefaultLifter lifts a decoded item into a single logevent.Event using the
// "tcp" source type, and acknowledges with the item's MD5 digest (see
// BuildAck).
type DefaultLifter struct {
	builder logevent.Builder
}

// NewDefaultLifter builds a DefaultLifter against schema (nil uses
// logevent.DefaultSchema).
func NewDefaultLifter(schema logevent.Schema) DefaultLifter {
	return DefaultLifter{builder: logevent.NewBuilder(schema, "tcp")}
}

// BuildAck implements EventLifter. The ack is the item's MD5 digest in hex,
// newline-terminated: a function of the item's bytes, not a fixed literal,
// so the peer can confirm which frame was acknowledged.
func (DefaultLifter) BuildAck(item []byte) []byte {
	return []byte(hashutil.MD5Hex(item) + "\n")
}

// Lift implements EventLifter.
func (l DefaultLifter) Lift(item []byte, host string, byteSize int) []logevent.Event {
	opts := logevent.Options{}
	if host != "" {
		opts.Host = host
		opts.HasHost = true
	}
	ev := l.builder.Build(item, time.Now(), opts)
	return []logevent.Event{ev}
}
