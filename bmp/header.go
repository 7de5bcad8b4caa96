package bmp

import (
	"encoding/binary"
	"fmt"
)

// FileHeader is the 14 byte BITMAPFILEHEADER at the start of every file. It
// implements the encoding.BinaryMarshaler and encoding.BinaryUnmarshaler
// interfaces.
type FileHeader struct {
	Magic       [2]byte
	FileSize    uint32
	Reserved1   uint16
	Reserved2   uint16
	PixelOffset uint32
}

// IsBitmap reports whether the header starts with the "BM" signature. None
// of the other fields should be trusted unless this is true.
func (h *FileHeader) IsBitmap() bool {
	return h.Magic == magic
}

// MarshalBinary encodes the header into its 14 byte form
func (h *FileHeader) MarshalBinary() ([]byte, error) {
	b := make([]byte, fileHeaderLen)
	copy(b[0:2], h.Magic[:])
	binary.LittleEndian.PutUint32(b[2:], h.FileSize)
	binary.LittleEndian.PutUint16(b[6:], h.Reserved1)
	binary.LittleEndian.PutUint16(b[8:], h.Reserved2)
	binary.LittleEndian.PutUint32(b[10:], h.PixelOffset)
	return b, nil
}

// UnmarshalBinary decodes the header from the first 14 bytes of b
func (h *FileHeader) UnmarshalBinary(b []byte) error {
	if len(b) < fileHeaderLen {
		return fmt.Errorf("%w: file header is %d bytes", ErrNotEnough, len(b))
	}
	copy(h.Magic[:], b[0:2])
	h.FileSize = binary.LittleEndian.Uint32(b[2:])
	h.Reserved1 = binary.LittleEndian.Uint16(b[6:])
	h.Reserved2 = binary.LittleEndian.Uint16(b[8:])
	h.PixelOffset = binary.LittleEndian.Uint32(b[10:])
	return nil
}

// InfoHeader is the 40 byte BITMAPINFOHEADER that follows the file header.
// It implements the encoding.BinaryMarshaler and encoding.BinaryUnmarshaler
// interfaces.
type InfoHeader struct {
	Size            uint32
	Width           int32
	Height          int32 // Positive means rows are stored bottom-up
	Planes          uint16
	BitsPerPixel    uint16
	Compression     uint32
	ImageSize       uint32
	XPixelsPerMetre int32
	YPixelsPerMetre int32
	ColorsUsed      uint32
	ColorsImportant uint32
}

// MarshalBinary encodes the header into its 40 byte form
func (h *InfoHeader) MarshalBinary() ([]byte, error) {
	b := make([]byte, infoHeaderLen)
	binary.LittleEndian.PutUint32(b[0:], h.Size)
	binary.LittleEndian.PutUint32(b[4:], uint32(h.Width))
	binary.LittleEndian.PutUint32(b[8:], uint32(h.Height))
	binary.LittleEndian.PutUint16(b[12:], h.Planes)
	binary.LittleEndian.PutUint16(b[14:], h.BitsPerPixel)
	binary.LittleEndian.PutUint32(b[16:], h.Compression)
	binary.LittleEndian.PutUint32(b[20:], h.ImageSize)
	binary.LittleEndian.PutUint32(b[24:], uint32(h.XPixelsPerMetre))
	binary.LittleEndian.PutUint32(b[28:], uint32(h.YPixelsPerMetre))
	binary.LittleEndian.PutUint32(b[32:], h.ColorsUsed)
	binary.LittleEndian.PutUint32(b[36:], h.ColorsImportant)
	return b, nil
}

// UnmarshalBinary decodes the header from the first 40 bytes of b
func (h *InfoHeader) UnmarshalBinary(b []byte) error {
	if len(b) < infoHeaderLen {
		return fmt.Errorf("%w: info header is %d bytes", ErrNotEnough, len(b))
	}
	h.Size = binary.LittleEndian.Uint32(b[0:])
	h.Width = int32(binary.LittleEndian.Uint32(b[4:]))
	h.Height = int32(binary.LittleEndian.Uint32(b[8:]))
	h.Planes = binary.LittleEndian.Uint16(b[12:])
	h.BitsPerPixel = binary.LittleEndian.Uint16(b[14:])
	h.Compression = binary.LittleEndian.Uint32(b[16:])
	h.ImageSize = binary.LittleEndian.Uint32(b[20:])
	h.XPixelsPerMetre = int32(binary.LittleEndian.Uint32(b[24:]))
	h.YPixelsPerMetre = int32(binary.LittleEndian.Uint32(b[28:]))
	h.ColorsUsed = binary.LittleEndian.Uint32(b[32:])
	h.ColorsImportant = binary.LittleEndian.Uint32(b[36:])
	return nil
}

// Supported returns nil if the image described by the header can be decoded
// by this package, otherwise an error wrapping ErrUnsupported.
func (h *InfoHeader) Supported() error {
	switch {
	case h.Size != infoHeaderLen:
		return fmt.Errorf("%w: info header size %d", ErrUnsupported, h.Size)
	case h.Compression != compressionNone:
		return fmt.Errorf("%w: compression %d", ErrUnsupported, h.Compression)
	case h.BitsPerPixel != bitsPerPixel:
		return fmt.Errorf("%w: %d bits per pixel", ErrUnsupported, h.BitsPerPixel)
	case h.Planes != 1:
		return fmt.Errorf("%w: %d color planes", ErrUnsupported, h.Planes)
	case h.Height < 0:
		return fmt.Errorf("%w: top-down row order", ErrUnsupported)
	case h.Width <= 0 || h.Height == 0:
		return fmt.Errorf("%w: %dx%d dimensions", ErrUnsupported, h.Width, h.Height)
	}
	return nil
}

// Config holds both headers of a bitmap as returned by DecodeConfig.
type Config struct {
	File FileHeader
	Info InfoHeader
}

// Width returns the width of the image in pixels
func (c Config) Width() int {
	return int(c.Info.Width)
}

// Height returns the height of the image in pixels
func (c Config) Height() int {
	return int(c.Info.Height)
}

func newConfig(height, width int) Config {
	size := uint32(height * Stride(bitsPerPixel, width))
	return Config{
		File: FileHeader{
			Magic:       magic,
			FileSize:    headerLen + size,
			PixelOffset: headerLen,
		},
		Info: InfoHeader{
			Size:            infoHeaderLen,
			Width:           int32(width),
			Height:          int32(height),
			Planes:          1,
			BitsPerPixel:    bitsPerPixel,
			Compression:     compressionNone,
			ImageSize:       size,
			XPixelsPerMetre: pixelsPerMetre,
			YPixelsPerMetre: pixelsPerMetre,
		},
	}
}
