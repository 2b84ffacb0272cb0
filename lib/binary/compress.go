// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binary

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies a stream compression format.
type Compression uint8

const (
	// CompressionNone reads and writes bytes unchanged.
	CompressionNone Compression = iota

	// CompressionLZ4 is the LZ4 frame format. Fast, modest ratio.
	CompressionLZ4

	// CompressionZstd is zstd at the default level. Better ratio for
	// text-like data such as CSV and logs.
	CompressionZstd
)

// String returns the format name.
func (compression Compression) String() string {
	switch compression {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", compression)
	}
}

// ParseCompression parses a format name as returned by String.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none", "":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", name)
	}
}

// Detect picks a compression format from a file name suffix.
func Detect(name string) Compression {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".zst"), strings.HasSuffix(lower, ".zstd"):
		return CompressionZstd
	case strings.HasSuffix(lower, ".lz4"):
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// decompressingReader closes the decoder and then the source.
type decompressingReader struct {
	io.Reader
	closeDecoder func()
	source       io.Closer
}

func (reader *decompressingReader) Close() error {
	if reader.closeDecoder != nil {
		reader.closeDecoder()
	}
	return reader.source.Close()
}

// NewDecompressor wraps source so reads return decompressed bytes.
// Closing the result closes source.
func NewDecompressor(source io.ReadCloser, compression Compression) (io.ReadCloser, error) {
	switch compression {
	case CompressionNone:
		return source, nil

	case CompressionLZ4:
		return &decompressingReader{Reader: lz4.NewReader(source), source: source}, nil

	case CompressionZstd:
		decoder, err := zstd.NewReader(source)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		return &decompressingReader{Reader: decoder, closeDecoder: decoder.Close, source: source}, nil

	default:
		return nil, fmt.Errorf("unsupported compression %s", compression)
	}
}

// compressingWriter flushes the encoder and then closes the sink.
type compressingWriter struct {
	io.Writer
	closeEncoder func() error
	sink         io.Closer
}

func (writer *compressingWriter) Close() error {
	encoderErr := writer.closeEncoder()
	sinkErr := writer.sink.Close()
	if encoderErr != nil {
		return encoderErr
	}
	return sinkErr
}

// NewCompressor wraps sink so writes are compressed. Closing the result
// flushes the final frame and closes sink.
func NewCompressor(sink io.WriteCloser, compression Compression) (io.WriteCloser, error) {
	switch compression {
	case CompressionNone:
		return sink, nil

	case CompressionLZ4:
		encoder := lz4.NewWriter(sink)
		return &compressingWriter{Writer: encoder, closeEncoder: encoder.Close, sink: sink}, nil

	case CompressionZstd:
		encoder, err := zstd.NewWriter(sink, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		return &compressingWriter{Writer: encoder, closeEncoder: encoder.Close, sink: sink}, nil

	default:
		return nil, fmt.Errorf("unsupported compression %s", compression)
	}
}
