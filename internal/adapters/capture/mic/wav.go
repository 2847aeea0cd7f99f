package mic

import (
	"bytes"
	"encoding/binary"
)

// encodeWAV wraps raw little-endian s16 mono PCM in a RIFF/WAVE header.
func encodeWAV(pcm []byte) []byte {
	const headerSize = 44
	dataSize := uint32(len(pcm))
	byteRate := uint32(sampleRate * channels * bytesPerFrame)
	blockAlign := uint16(channels * bytesPerFrame)

	buf := bytes.NewBuffer(make([]byte, 0, headerSize+len(pcm)))
	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(36)+dataSize)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(buf, binary.LittleEndian, byteRate)
	_ = binary.Write(buf, binary.LittleEndian, blockAlign)
	_ = binary.Write(buf, binary.LittleEndian, uint16(8*bytesPerFrame))
	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, dataSize)
	buf.Write(pcm)

	return buf.Bytes()
}
