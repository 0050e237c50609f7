// Package hasher computes the xxHash64 digests used for content-addressed
// file names and picture identity.
package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"io"

	"github.com/cespare/xxhash/v2"

	"github.com/AnyUserName/tkpic/internal/picture"
)

// ContentHash computes the xxHash64 of data and returns a hex string
// truncated to the given length. For content-addressed filenames we
// use 16 hex chars (64 bits).
func ContentHash(data []byte, hexLen int) string {
	return truncate(xxhash.Sum64(data), hexLen)
}

// ContentHashReader computes xxHash64 from a reader, streaming.
func ContentHashReader(r io.Reader, hexLen int) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return truncate(h.Sum64(), hexLen), nil
}

// PictureDigest hashes the visible pixels of p together with its size.
// Stride padding and flags do not take part, so two pictures compare
// equal under picture.Equal exactly when their digests match (barring
// collisions).
func PictureDigest(p *picture.Picture, hexLen int) string {
	h := xxhash.New()
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[:4], uint32(p.Width()))
	binary.BigEndian.PutUint32(hdr[4:], uint32(p.Height()))
	h.Write(hdr[:])

	buf := make([]byte, 4*p.Width())
	for y := 0; y < p.Height(); y++ {
		for x, c := range p.Row(y) {
			buf[4*x], buf[4*x+1], buf[4*x+2], buf[4*x+3] = c.R, c.G, c.B, c.A
		}
		h.Write(buf)
	}
	return truncate(h.Sum64(), hexLen)
}

func truncate(v uint64, hexLen int) string {
	full := hex.EncodeToString(binary.BigEndian.AppendUint64(nil, v))
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
