// Package testutil builds synthetic photos for tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"math"
)

// EXIF describes the tags written by TIFF. Zero fields are omitted.
type EXIF struct {
	DateTimeOriginal string
	DateTime         string
	Model            string
	Lat              *float64
	Lng              *float64
	// RawLatRef overrides the hemisphere derived from the sign of Lat.
	RawLatRef string
	// DanglingInterop adds an Interoperability sub-IFD pointer past the end
	// of the block, as some camera firmwares write.
	DanglingInterop bool
}

const (
	tiffASCII    = 2
	tiffLong     = 4
	tiffRational = 5

	tagDateTime         = 0x0132
	tagModel            = 0x0110
	tagExifIFD          = 0x8769
	tagGPSIFD           = 0x8825
	tagDateTimeOriginal = 0x9003
	tagInteropIFD       = 0xA005
	tagGPSLatRef        = 0x0001
	tagGPSLat           = 0x0002
	tagGPSLngRef        = 0x0003
	tagGPSLng           = 0x0004
)

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

type ifd []ifdEntry

// size is the IFD header plus its out-of-line data area.
func (d ifd) size() uint32 {
	n := uint32(2 + 12*len(d) + 4)
	for _, e := range d {
		if len(e.data) > 4 {
			n += uint32(len(e.data))
			if len(e.data)%2 == 1 {
				n++
			}
		}
	}

	return n
}

func (d ifd) write(buf *bytes.Buffer, offset uint32) {
	be := binary.BigEndian
	dataOff := offset + uint32(2+12*len(d)+4)

	var data bytes.Buffer

	_ = binary.Write(buf, be, uint16(len(d)))
	for _, e := range d {
		_ = binary.Write(buf, be, e.tag)
		_ = binary.Write(buf, be, e.typ)
		_ = binary.Write(buf, be, e.count)

		if len(e.data) <= 4 {
			inline := make([]byte, 4)
			copy(inline, e.data)
			buf.Write(inline)
			continue
		}

		_ = binary.Write(buf, be, dataOff+uint32(data.Len()))
		data.Write(e.data)
		if len(e.data)%2 == 1 {
			data.WriteByte(0)
		}
	}
	_ = binary.Write(buf, be, uint32(0))
	buf.Write(data.Bytes())
}

func ascii(tag uint16, s string) ifdEntry {
	b := append([]byte(s), 0)
	return ifdEntry{tag: tag, typ: tiffASCII, count: uint32(len(b)), data: b}
}

func long(tag uint16, v uint32) ifdEntry {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return ifdEntry{tag: tag, typ: tiffLong, count: 1, data: b}
}

// dms encodes |v| as three rationals: degrees, minutes, seconds/10000.
func dms(tag uint16, v float64) ifdEntry {
	v = math.Abs(v)
	deg := math.Floor(v)
	minutes := math.Floor((v - deg) * 60)
	seconds := ((v-deg)*60 - minutes) * 60

	b := make([]byte, 24)
	be := binary.BigEndian
	be.PutUint32(b[0:], uint32(deg))
	be.PutUint32(b[4:], 1)
	be.PutUint32(b[8:], uint32(minutes))
	be.PutUint32(b[12:], 1)
	be.PutUint32(b[16:], uint32(math.Round(seconds*10000)))
	be.PutUint32(b[20:], 10000)

	return ifdEntry{tag: tag, typ: tiffRational, count: 3, data: b}
}

// TIFF returns a big-endian TIFF block carrying the tags in e.
func TIFF(e EXIF) []byte {
	var ifd0, exifIFD, gpsIFD ifd

	if e.Model != "" {
		ifd0 = append(ifd0, ascii(tagModel, e.Model))
	}
	if e.DateTime != "" {
		ifd0 = append(ifd0, ascii(tagDateTime, e.DateTime))
	}
	if e.DateTimeOriginal != "" {
		exifIFD = append(exifIFD, ascii(tagDateTimeOriginal, e.DateTimeOriginal))
	}
	if e.DanglingInterop {
		exifIFD = append(exifIFD, long(tagInteropIFD, 0x00FFFFF0))
	}
	if e.Lat != nil {
		ref := "N"
		if *e.Lat < 0 {
			ref = "S"
		}
		if e.RawLatRef != "" {
			ref = e.RawLatRef
		}
		gpsIFD = append(gpsIFD, ascii(tagGPSLatRef, ref), dms(tagGPSLat, *e.Lat))
	}
	if e.Lng != nil {
		ref := "E"
		if *e.Lng < 0 {
			ref = "W"
		}
		gpsIFD = append(gpsIFD, ascii(tagGPSLngRef, ref), dms(tagGPSLng, *e.Lng))
	}

	// pointer entries are fixed-size, so IFD0's size is known before their values
	pointers := 0
	if len(exifIFD) > 0 {
		pointers++
	}
	if len(gpsIFD) > 0 {
		pointers++
	}
	ifd0Size := ifd0.size() + uint32(12*pointers)

	exifOff := 8 + ifd0Size
	gpsOff := exifOff
	if len(exifIFD) > 0 {
		gpsOff += exifIFD.size()
	}

	if len(exifIFD) > 0 {
		ifd0 = append(ifd0, long(tagExifIFD, exifOff))
	}
	if len(gpsIFD) > 0 {
		ifd0 = append(ifd0, long(tagGPSIFD, gpsOff))
	}

	var buf bytes.Buffer
	buf.WriteString("MM")
	_ = binary.Write(&buf, binary.BigEndian, uint16(42))
	_ = binary.Write(&buf, binary.BigEndian, uint32(8))

	ifd0.write(&buf, 8)
	if len(exifIFD) > 0 {
		exifIFD.write(&buf, exifOff)
	}
	if len(gpsIFD) > 0 {
		gpsIFD.write(&buf, gpsOff)
	}

	return buf.Bytes()
}

// WithEXIF inserts tiffBlock as an APP1 segment right after the JPEG SOI marker.
func WithEXIF(jpegData, tiffBlock []byte) []byte {
	payload := append([]byte("Exif\x00\x00"), tiffBlock...)
	segLen := len(payload) + 2

	out := make([]byte, 0, len(jpegData)+segLen+2)
	out = append(out, jpegData[:2]...)
	out = append(out, 0xFF, 0xE1, byte(segLen>>8), byte(segLen))
	out = append(out, payload...)
	out = append(out, jpegData[2:]...)

	return out
}
