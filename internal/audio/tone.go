package audio

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"
)

// Fallback tone parameters.
const (
	ToneFrequency  = 440.0
	ToneDuration   = 300 * time.Millisecond
	ToneSampleRate = 44100
)

// SineWAV renders a mono 16-bit PCM WAV file containing a sine wave at freq
// Hz for d, scaled by gain in [0, 1].
func SineWAV(freq float64, d time.Duration, sampleRate int, gain float64) []byte {
	gain = math.Max(0, math.Min(1, gain))
	samples := int(float64(sampleRate) * d.Seconds())
	dataLen := samples * 2

	var buf bytes.Buffer
	buf.Grow(44 + dataLen)

	// RIFF header
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")

	// fmt chunk: PCM, 1 channel, 16 bits
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(dataLen))

	amp := gain * math.MaxInt16
	for i := 0; i < samples; i++ {
		v := amp * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
		_ = binary.Write(&buf, binary.LittleEndian, int16(v))
	}

	return buf.Bytes()
}
