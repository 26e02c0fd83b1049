package live

import (
	"encoding/base64"
	"fmt"
	"time"
)

const (
	// InputSampleRate is the microphone stream rate sent to the model.
	InputSampleRate = 16000
	// OutputSampleRate is the model audio stream rate.
	OutputSampleRate = 24000

	bytesPerSample = 2 // 16-bit mono PCM
)

func inputMimeType() string {
	return fmt.Sprintf("audio/pcm;rate=%d", InputSampleRate)
}

// PCMDuration computes playback duration of raw 16-bit mono PCM bytes.
func PCMDuration(byteLen int, sampleRate int) time.Duration {
	samples := byteLen / bytesPerSample
	return time.Duration(samples) * time.Second / time.Duration(sampleRate)
}

// DecodePCM decodes a base64 audio payload into raw PCM bytes.
func DecodePCM(data string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(data)
}
