package tiled

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Encoding is the declared text encoding of a layer's tile data.
type Encoding string

// Supported encodings. EncodingXML is the absent attribute: tiles are
// listed as <tile gid="..."/> children of <data>.
const (
	EncodingXML    Encoding = ""
	EncodingCSV    Encoding = "csv"
	EncodingBase64 Encoding = "base64"
)

// Compression is the declared compression of base64 tile data.
type Compression string

// Known compressions. Zstd is recognised but not decoded.
const (
	CompressionNone Compression = ""
	CompressionZlib Compression = "zlib"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

// tileSize is the byte width of one tile in the binary stream.
const tileSize = 4

// DecodeTileData decodes a textual tile payload into exactly count
// identifiers in row-major order.
func DecodeTileData(payload string, enc Encoding, comp Compression, count int) ([]GlobalTileID, error) {
	if count < 0 {
		return nil, newError(ErrMalformedTileData, "negative tile count %d", count)
	}
	switch enc {
	case EncodingCSV:
		if comp != CompressionNone {
			return nil, newError(ErrUnsupportedEncoding, "csv data cannot be %s compressed", comp)
		}
		return decodeCSV(payload, count)
	case EncodingBase64:
		return decodeBase64(payload, comp, count)
	case EncodingXML:
		return nil, newError(ErrUnsupportedEncoding, "tile element data has no text payload")
	default:
		return nil, newError(ErrUnsupportedEncoding, "encoding %q", string(enc))
	}
}

func decodeCSV(payload string, count int) ([]GlobalTileID, error) {
	tokens := strings.FieldsFunc(payload, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})

	ids := make([]GlobalTileID, 0, min(count, len(tokens)))
	for i, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		n, err := strconv.ParseUint(tok, 10, 32)
		if err != nil {
			return nil, &Error{Kind: ErrMalformedTileData, Msg: fmt.Sprintf("token %d: %q", i, tok), Err: err}
		}
		ids = append(ids, GlobalTileID(n))
	}

	if len(ids) != count {
		return nil, newError(ErrMalformedTileData, "got %d tiles, want %d", len(ids), count)
	}
	return ids, nil
}

func decodeBase64(payload string, comp Compression, count int) ([]GlobalTileID, error) {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, payload)

	if clean == "" && count == 0 {
		return []GlobalTileID{}, nil
	}

	raw, err := base64.StdEncoding.DecodeString(clean)
	if err != nil {
		return nil, &Error{Kind: ErrBase64Decode, Err: err}
	}

	data, err := decompress(raw, comp, int64(count)*tileSize+1)
	if err != nil {
		return nil, err
	}

	if len(data) != count*tileSize {
		return nil, newError(ErrMalformedTileData, "got %d bytes, want %d (%d tiles)", len(data), count*tileSize, count)
	}

	ids := make([]GlobalTileID, count)
	for i := range ids {
		ids[i] = GlobalTileID(binary.LittleEndian.Uint32(data[i*tileSize:]))
	}
	return ids, nil
}

// decompress inflates data, reading at most limit bytes of output.
func decompress(data []byte, comp Compression, limit int64) ([]byte, error) {
	var (
		r   io.ReadCloser
		err error
	)
	switch comp {
	case CompressionNone:
		return data, nil
	case CompressionZlib:
		r, err = zlib.NewReader(bytes.NewReader(data))
	case CompressionGzip:
		r, err = gzip.NewReader(bytes.NewReader(data))
	default:
		return nil, newError(ErrUnsupportedEncoding, "compression %q", string(comp))
	}
	if err != nil {
		return nil, &Error{Kind: ErrDecompression, Msg: string(comp), Err: err}
	}
	defer r.Close()

	out, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return nil, &Error{Kind: ErrDecompression, Msg: string(comp), Err: err}
	}
	return out, nil
}

// EncodeTileData is the inverse of DecodeTileData. For csv, width > 0
// breaks the output into rows of width tiles.
func EncodeTileData(ids []GlobalTileID, width int, enc Encoding, comp Compression) (string, error) {
	switch enc {
	case EncodingCSV:
		if comp != CompressionNone {
			return "", newError(ErrUnsupportedEncoding, "csv data cannot be %s compressed", comp)
		}
		return encodeCSV(ids, width), nil
	case EncodingBase64:
		return encodeBase64(ids, comp)
	default:
		return "", newError(ErrUnsupportedEncoding, "encoding %q", string(enc))
	}
}

func encodeCSV(ids []GlobalTileID, width int) string {
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			if width > 0 && i%width == 0 {
				b.WriteString(",\n")
			} else {
				b.WriteByte(',')
			}
		}
		b.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	return b.String()
}

func encodeBase64(ids []GlobalTileID, comp Compression) (string, error) {
	raw := make([]byte, len(ids)*tileSize)
	for i, id := range ids {
		binary.LittleEndian.PutUint32(raw[i*tileSize:], uint32(id))
	}

	var buf bytes.Buffer
	var w io.WriteCloser
	switch comp {
	case CompressionNone:
		return base64.StdEncoding.EncodeToString(raw), nil
	case CompressionZlib:
		w = zlib.NewWriter(&buf)
	case CompressionGzip:
		w = gzip.NewWriter(&buf)
	default:
		return "", newError(ErrUnsupportedEncoding, "compression %q", string(comp))
	}

	if _, err := w.Write(raw); err != nil {
		return "", fmt.Errorf("compressing tile data: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("compressing tile data: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
