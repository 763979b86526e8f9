// Package format classifies video containers from their leading bytes.
package format

import (
	"bytes"
	"io"
	"lesson-media/internal/core/domain"
)

const (
	// HeaderSize is the number of leading bytes callers should read before classifying
	HeaderSize = 2048

	// MinHeaderSize is the smallest buffer that can be classified
	MinHeaderSize = 12
)

var (
	ftypMarker = []byte("ftyp")
	riffMarker = []byte("RIFF")
	aviMarker  = []byte("AVI")
	ebmlMagic  = []byte{0x1A, 0x45, 0xDF, 0xA3}
)

// BrowserSafeBrands is the allow-list of mp4 brands served without conversion
var BrowserSafeBrands = map[string]bool{
	"mp4v": true,
	"mp41": true,
	"mp42": true,
	"isom": true,
	"iso2": true,
	"avc1": true,
}

// Classify inspects the first bytes of a video and reports its container.
// First match wins: mp4 (ftyp box), avi (RIFF/AVI), webm (EBML magic), unknown.
func Classify(header []byte) domain.FormatReport {
	if len(header) < MinHeaderSize {
		return unknown()
	}

	if offset := bytes.Index(header[:MinHeaderSize], ftypMarker); offset != -1 {
		brand := ""
		start := offset + len(ftypMarker)
		if start+4 <= len(header) {
			brand = string(header[start : start+4])
		}
		return domain.FormatReport{
			Container: domain.ContainerMP4,
			Brand:     brand,
			IsValid:   true,
			NeedsFix:  !BrowserSafeBrands[brand],
		}
	}

	if bytes.Contains(header, riffMarker) && bytes.Contains(header, aviMarker) {
		return domain.FormatReport{Container: domain.ContainerAVI, IsValid: true, NeedsFix: true}
	}

	if bytes.HasPrefix(header, ebmlMagic) {
		return domain.FormatReport{Container: domain.ContainerWebM, IsValid: true, NeedsFix: true}
	}

	return unknown()
}

// ClassifyReader reads up to HeaderSize bytes from r and classifies them.
// It returns the bytes it consumed so callers can replay them.
func ClassifyReader(r io.Reader) (domain.FormatReport, []byte, error) {
	header := make([]byte, HeaderSize)
	n, err := io.ReadFull(r, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return unknown(), nil, err
	}
	header = header[:n]
	return Classify(header), header, nil
}

func unknown() domain.FormatReport {
	return domain.FormatReport{Container: domain.ContainerUnknown, IsValid: false, NeedsFix: true}
}
