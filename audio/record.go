// Package audio captures microphone input through malgo for the record
// command. Capture is fixed-duration and blocking; the result is a raw PCM
// segment the engine can consume directly.
package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gen2brain/malgo"

	"markestedt/whisperbatch/engine"
)

// Segment is a recorded chunk of audio.
type Segment struct {
	Data       []byte // Raw 16-bit PCM samples
	SampleRate uint32
	Channels   uint32
	Duration   time.Duration
}

// Recorder manages the capture device. It records 16 kHz mono S16, the
// layout whisper expects.
type Recorder struct {
	malgoCtx   *malgo.AllocatedContext
	sampleRate uint32
	channels   uint32

	mu        sync.Mutex
	buf       *bytes.Buffer
	recording bool
}

// NewRecorder initializes the audio backend. Call Close when done.
func NewRecorder() (*Recorder, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}
	return &Recorder{
		malgoCtx:   ctx,
		sampleRate: engine.SampleRate,
		channels:   1,
		buf:        new(bytes.Buffer),
	}, nil
}

// Record captures for the given duration and returns the segment. It blocks
// until the duration elapses or ctx is cancelled; cancellation is an early
// stop, not a failure, and returns the audio captured so far with a nil
// error.
func (r *Recorder) Record(ctx context.Context, duration time.Duration) (Segment, error) {
	r.mu.Lock()
	if r.recording {
		r.mu.Unlock()
		return Segment{}, fmt.Errorf("already recording")
	}
	r.buf.Reset()
	r.recording = true
	r.mu.Unlock()

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = r.channels
	deviceConfig.SampleRate = r.sampleRate
	deviceConfig.Alsa.NoMMap = 1

	onData := func(pOutputSample, pInputSamples []byte, framecount uint32) {
		r.mu.Lock()
		defer r.mu.Unlock()
		if !r.recording {
			return
		}
		r.buf.Write(pInputSamples)
	}

	device, err := malgo.InitDevice(r.malgoCtx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onData,
	})
	if err != nil {
		r.setRecording(false)
		return Segment{}, fmt.Errorf("failed to initialize device: %w", err)
	}
	defer device.Uninit()

	start := time.Now()
	if err := device.Start(); err != nil {
		r.setRecording(false)
		return Segment{}, fmt.Errorf("failed to start device: %w", err)
	}

	select {
	case <-time.After(duration):
	case <-ctx.Done():
	}
	device.Stop()
	r.setRecording(false)

	r.mu.Lock()
	data := make([]byte, r.buf.Len())
	copy(data, r.buf.Bytes())
	r.mu.Unlock()

	return Segment{
		Data:       data,
		SampleRate: r.sampleRate,
		Channels:   r.channels,
		Duration:   time.Since(start),
	}, captureErr(ctx)
}

// captureErr maps the wait outcome to Record's error: plain cancellation is
// an early stop and the partial segment stands, while an expired deadline
// still surfaces.
func captureErr(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}

func (r *Recorder) setRecording(v bool) {
	r.mu.Lock()
	r.recording = v
	r.mu.Unlock()
}

// Close releases the audio backend.
func (r *Recorder) Close() error {
	if r.malgoCtx != nil {
		_ = r.malgoCtx.Uninit()
		r.malgoCtx.Free()
		r.malgoCtx = nil
	}
	return nil
}

// Samples converts the raw 16-bit PCM bytes to float32 samples in [-1, 1).
func (seg *Segment) Samples() []float32 {
	n := len(seg.Data) / 2
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		u := binary.LittleEndian.Uint16(seg.Data[i*2:])
		samples[i] = float32(int16(u)) / 32768.0
	}
	return samples
}

// RMS calculates the Root Mean Square audio level. Typical values:
// silence < 500, quiet speech ~ 1000-2000, normal speech ~ 2000-5000.
func (seg *Segment) RMS() float64 {
	numSamples := len(seg.Data) / 2
	if numSamples == 0 {
		return 0
	}
	var sumSquares float64
	for i := 0; i < numSamples; i++ {
		sample := int16(binary.LittleEndian.Uint16(seg.Data[i*2 : i*2+2]))
		sumSquares += float64(sample) * float64(sample)
	}
	return math.Sqrt(sumSquares / float64(numSamples))
}

// ToWAV converts the segment to WAV format for saving a recording.
func (seg *Segment) ToWAV() []byte {
	buf := new(bytes.Buffer)

	dataSize := uint32(len(seg.Data))
	bitsPerSample := uint16(16)
	blockAlign := uint16(seg.Channels * uint32(bitsPerSample) / 8)
	byteRate := seg.SampleRate * uint32(blockAlign)

	// RIFF header
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	// fmt chunk
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(seg.Channels))
	binary.Write(buf, binary.LittleEndian, seg.SampleRate)
	binary.Write(buf, binary.LittleEndian, byteRate)
	binary.Write(buf, binary.LittleEndian, blockAlign)
	binary.Write(buf, binary.LittleEndian, bitsPerSample)

	// data chunk
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, dataSize)
	buf.Write(seg.Data)

	return buf.Bytes()
}
