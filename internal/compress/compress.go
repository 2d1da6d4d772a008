package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// ErrCorrupt is returned when compressed input cannot be decoded.
var ErrCorrupt = errors.New("compress: corrupt input")

// Compressor compresses and restores byte slices.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
	Name() string
}

// Default is the compressor used when none is configured.
var Default Compressor = Snappy{}

// ByName returns a built-in compressor by its stable name.
func ByName(name string) (Compressor, error) {
	switch name {
	case "none":
		return None{}, nil
	case "snappy", "":
		return Snappy{}, nil
	case "lz4":
		return LZ4{}, nil
	case "zstd":
		return Zstd{}, nil
	default:
		return nil, fmt.Errorf("compress: unknown compressor %q", name)
	}
}

// None stores data as is.
type None struct{}

func (None) Compress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

func (None) Decompress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

func (None) Name() string { return "none" }

// Snappy uses the snappy block format.
type Snappy struct{}

func (Snappy) Compress(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

func (Snappy) Decompress(data []byte) ([]byte, error) {
	out, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("%w: snappy: %w", ErrCorrupt, err)
	}
	return out, nil
}

func (Snappy) Name() string { return "snappy" }

// LZ4 uses LZ4 block compression.
// Format: [UncompressedSize uint32][Flag uint8][Data...]
// Flag 0 marks incompressible input stored raw.
type LZ4 struct{}

const lz4HeaderSize = 5

func (LZ4) Compress(data []byte) ([]byte, error) {
	out := make([]byte, lz4HeaderSize+lz4.CompressBlockBound(len(data)))
	binary.LittleEndian.PutUint32(out, uint32(len(data)))

	var c lz4.Compressor
	n, err := c.CompressBlock(data, out[lz4HeaderSize:])
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Incompressible
		out[4] = 0
		return append(out[:lz4HeaderSize], data...), nil
	}
	out[4] = 1
	return out[:lz4HeaderSize+n], nil
}

func (LZ4) Decompress(data []byte) ([]byte, error) {
	if len(data) < lz4HeaderSize {
		return nil, fmt.Errorf("%w: lz4 block too small for header", ErrCorrupt)
	}
	size := int(binary.LittleEndian.Uint32(data))
	payload := data[lz4HeaderSize:]

	if data[4] == 0 {
		if len(payload) != size {
			return nil, fmt.Errorf("%w: lz4 raw block size mismatch", ErrCorrupt)
		}
		return append([]byte(nil), payload...), nil
	}

	// LZ4 cannot expand a block by more than 255x.
	if size > 255*len(payload)+16 {
		return nil, fmt.Errorf("%w: lz4 declared size %d too large", ErrCorrupt, size)
	}

	out := make([]byte, size)
	n, err := lz4.UncompressBlock(payload, out)
	if err != nil {
		return nil, fmt.Errorf("%w: lz4: %w", ErrCorrupt, err)
	}
	if n != size {
		return nil, fmt.Errorf("%w: lz4 decompressed size mismatch", ErrCorrupt)
	}
	return out, nil
}

func (LZ4) Name() string { return "lz4" }

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool = sync.Pool{
		New: func() any {
			enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
			return enc
		},
	}
	zstdDecoderPool = sync.Pool{
		New: func() any {
			dec, _ := zstd.NewReader(nil)
			return dec
		},
	}
)

// Zstd uses zstd frames.
type Zstd struct{}

func (Zstd) Compress(data []byte) ([]byte, error) {
	enc := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(enc)
	return enc.EncodeAll(data, nil), nil
}

func (Zstd) Decompress(data []byte) ([]byte, error) {
	dec := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(dec)
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %w", ErrCorrupt, err)
	}
	return out, nil
}

func (Zstd) Name() string { return "zstd" }
