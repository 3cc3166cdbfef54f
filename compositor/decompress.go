package compositor

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

const (
	CompressionLZ4      = "lz4"
	CompressionLZ4Block = "lz4-block"
	CompressionZstd     = "zstd"
	CompressionNone     = "none"
)

// MaxFrameBytes bounds the output of a single payload.
const MaxFrameBytes = 256 << 20

var ErrDecompress = errors.New("decompress failed")

func outputSize(sizeHint int) int {
	return min(max(sizeHint, 0), MaxFrameBytes)
}

// Decompressor turns one received payload back into raw pixel bytes.
// sizeHint is the expected output size; frame based formats ignore it.
type Decompressor interface {
	Name() string
	Decompress(src []byte, sizeHint int) ([]byte, error)
}

func NewDecompressor(name string) (Decompressor, error) {
	switch name {
	case CompressionLZ4, "":
		return lz4Frame{}, nil
	case CompressionLZ4Block:
		return lz4Block{}, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1), zstd.WithDecoderMaxMemory(MaxFrameBytes))
		if err != nil {
			return nil, fmt.Errorf("zstd decoder: %w", err)
		}
		return &zstdFrame{dec: dec}, nil
	case CompressionNone:
		return passthrough{}, nil
	default:
		return nil, fmt.Errorf("unsupported compression: %q", name)
	}
}

// lz4Frame reads the LZ4 frame format the xwebview source produces with
// LZ4F_compressBegin/Update/End.
type lz4Frame struct{}

func (lz4Frame) Name() string { return CompressionLZ4 }

func (lz4Frame) Decompress(src []byte, sizeHint int) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(outputSize(sizeHint))
	r := io.LimitReader(lz4.NewReader(bytes.NewReader(src)), MaxFrameBytes+1)
	if _, err := io.Copy(&out, r); err != nil {
		return nil, fmt.Errorf("%w: lz4: %v", ErrDecompress, err)
	}
	if out.Len() > MaxFrameBytes {
		return nil, fmt.Errorf("%w: lz4: output exceeds %d bytes", ErrDecompress, MaxFrameBytes)
	}
	return out.Bytes(), nil
}

type lz4Block struct{}

func (lz4Block) Name() string { return CompressionLZ4Block }

func (lz4Block) Decompress(src []byte, sizeHint int) ([]byte, error) {
	if sizeHint <= 0 || sizeHint > MaxFrameBytes {
		return nil, fmt.Errorf("%w: lz4 block decoded size %d out of range", ErrDecompress, sizeHint)
	}
	dst := make([]byte, sizeHint)
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return nil, fmt.Errorf("%w: lz4 block: %v", ErrDecompress, err)
	}
	return dst[:n], nil
}

type zstdFrame struct {
	dec *zstd.Decoder
}

func (*zstdFrame) Name() string { return CompressionZstd }

func (z *zstdFrame) Decompress(src []byte, sizeHint int) ([]byte, error) {
	dst := make([]byte, 0, outputSize(sizeHint))
	out, err := z.dec.DecodeAll(src, dst)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %v", ErrDecompress, err)
	}
	return out, nil
}

type passthrough struct{}

func (passthrough) Name() string { return CompressionNone }

func (passthrough) Decompress(src []byte, _ int) ([]byte, error) {
	out := make([]byte, len(src))
	copy(out, src)
	return out, nil
}
