package audio

import (
	"context"
	"encoding/binary"
	"math"
	"testing"
	"time"
)

func TestCaptureErr(t *testing.T) {
	if err := captureErr(context.Background()); err != nil {
		t.Errorf("captureErr(active ctx) = %v, want nil", err)
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if err := captureErr(cancelled); err != nil {
		t.Errorf("captureErr(cancelled ctx) = %v, want nil (early stop keeps the partial segment)", err)
	}

	expired, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	if err := captureErr(expired); err != context.DeadlineExceeded {
		t.Errorf("captureErr(expired ctx) = %v, want DeadlineExceeded", err)
	}
}

func TestSegmentSamples(t *testing.T) {
	data := make([]byte, 6)
	binary.LittleEndian.PutUint16(data[0:], uint16(int16(0)))
	binary.LittleEndian.PutUint16(data[2:], uint16(int16(16384)))
	minSample := int16(-32768)
	binary.LittleEndian.PutUint16(data[4:], uint16(minSample))
	seg := Segment{Data: data, SampleRate: 16000, Channels: 1}

	samples := seg.Samples()
	if len(samples) != 3 {
		t.Fatalf("Samples() returned %d samples, want 3", len(samples))
	}
	want := []float32{0, 0.5, -1}
	for i, w := range want {
		if samples[i] != w {
			t.Errorf("sample %d = %v, want %v", i, samples[i], w)
		}
	}
}

func TestSegmentRMS(t *testing.T) {
	empty := Segment{}
	if rms := empty.RMS(); rms != 0 {
		t.Errorf("RMS of empty segment = %v, want 0", rms)
	}

	// Constant amplitude: RMS equals the amplitude.
	data := make([]byte, 8)
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(int16(1000)))
	}
	seg := Segment{Data: data}
	if rms := seg.RMS(); math.Abs(rms-1000) > 1e-9 {
		t.Errorf("RMS = %v, want 1000", rms)
	}
}

func TestSegmentToWAV(t *testing.T) {
	seg := Segment{Data: []byte{1, 2, 3, 4}, SampleRate: 16000, Channels: 1}
	wav := seg.ToWAV()

	if len(wav) != 44+len(seg.Data) {
		t.Fatalf("ToWAV() length = %d, want %d", len(wav), 44+len(seg.Data))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Errorf("bad RIFF header: %q %q", wav[0:4], wav[8:12])
	}
	if rate := binary.LittleEndian.Uint32(wav[24:28]); rate != 16000 {
		t.Errorf("sample rate in header = %d, want 16000", rate)
	}
	if string(wav[36:40]) != "data" {
		t.Errorf("missing data chunk marker: %q", wav[36:40])
	}
	if size := binary.LittleEndian.Uint32(wav[40:44]); size != 4 {
		t.Errorf("data chunk size = %d, want 4", size)
	}
}
