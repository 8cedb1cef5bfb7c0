// SPDX-License-Identifier: MIT
package audio

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gordonklaus/portaudio"
)

func fakeDevices() []*portaudio.DeviceInfo {
	return []*portaudio.DeviceInfo{
		{Name: "Built-in Microphone", MaxInputChannels: 1, DefaultSampleRate: 44100, DefaultLowInputLatency: 5 * time.Millisecond},
		{Name: "Speakers", MaxOutputChannels: 2, DefaultSampleRate: 48000},
		{Name: "Interface", MaxInputChannels: 2, MaxOutputChannels: 2, DefaultSampleRate: 96000},
	}
}

// withDevices replaces the host device list for the duration of the test.
func withDevices(t *testing.T, infos []*portaudio.DeviceInfo, err error) {
	t.Helper()
	orig := paDevicesFunc
	t.Cleanup(func() { paDevicesFunc = orig })
	paDevicesFunc = func() ([]*portaudio.DeviceInfo, error) { return infos, err }
}

// TestHostDevices runs against real hardware when PortAudio is present.
func TestHostDevices(t *testing.T) {
	if err := Initialize(); err != nil {
		t.Skipf("PortAudio unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := Terminate(); err != nil {
			t.Errorf("Terminate: %v", err)
		}
	})

	devices, err := HostDevices()
	if err != nil {
		t.Fatalf("HostDevices error: %v", err)
	}
	for i, d := range devices {
		if d.ID != i || d.Name == "" {
			t.Errorf("device %d = %+v", i, d)
		}
	}
}

func TestHostDevices_Fake(t *testing.T) {
	withDevices(t, fakeDevices(), nil)

	devices, err := HostDevices()
	if err != nil || len(devices) != 3 {
		t.Fatalf("HostDevices = %v, %v", devices, err)
	}
	if d := devices[2]; d.ID != 2 || d.MaxInputChannels != 2 || d.DefaultSampleRate != 96000 {
		t.Errorf("devices[2] = %+v", d)
	}
}

func TestInputDevice(t *testing.T) {
	withDevices(t, fakeDevices(), nil)

	tests := []struct {
		name    string
		id      int
		want    string
		wantErr string
	}{
		{"input only", 0, "Built-in Microphone", ""},
		{"input and output", 2, "Interface", ""},
		{"output only", 1, "", "does not support input"},
		{"past the end", 3, "", "invalid device ID"},
		{"negative", -2, "", "invalid device ID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, err := InputDevice(tt.id)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("InputDevice(%d) error = %v, want %q", tt.id, err, tt.wantErr)
				}
				return
			}
			if err != nil || dev.Name != tt.want {
				t.Errorf("InputDevice(%d) = %v, %v; want %s", tt.id, dev, err, tt.want)
			}
		})
	}
}

func TestInputDevice_Default(t *testing.T) {
	withDevices(t, fakeDevices(), nil)
	orig := paLibDefaultInputDeviceFunc
	t.Cleanup(func() { paLibDefaultInputDeviceFunc = orig })

	mic := fakeDevices()[0]
	paLibDefaultInputDeviceFunc = func() (*portaudio.DeviceInfo, error) { return mic, nil }
	if dev, err := InputDevice(-1); err != nil || dev != mic {
		t.Errorf("InputDevice(-1) = %v, %v", dev, err)
	}

	paLibDefaultInputDeviceFunc = func() (*portaudio.DeviceInfo, error) { return nil, errors.New("no default input") }
	if _, err := InputDevice(-1); err == nil || !strings.Contains(err.Error(), "no default input") {
		t.Errorf("error = %v, want default input error", err)
	}
}

func TestDeviceListErrors(t *testing.T) {
	withDevices(t, nil, errors.New("host API gone"))

	if _, err := HostDevices(); err == nil {
		t.Error("HostDevices: expected error")
	}
	if _, err := InputDevice(-1); err == nil {
		t.Error("InputDevice: expected error")
	}
	if err := ListDevices(&bytes.Buffer{}); err == nil {
		t.Error("ListDevices: expected error")
	}
}

func TestInitializeTerminate(t *testing.T) {
	origInit, origTerm := paLibInitialize, paLibTerminate
	t.Cleanup(func() { paLibInitialize, paLibTerminate = origInit, origTerm })

	paLibInitialize = func() error { return nil }
	paLibTerminate = func() error { return nil }
	if err := Initialize(); err != nil {
		t.Errorf("Initialize: %v", err)
	}
	if err := Terminate(); err != nil {
		t.Errorf("Terminate: %v", err)
	}

	paLibInitialize = func() error { return errors.New("init failed") }
	paLibTerminate = func() error { return errors.New("term failed") }
	if err := Initialize(); err == nil || !strings.Contains(err.Error(), "init failed") {
		t.Errorf("Initialize error = %v", err)
	}
	if err := Terminate(); err == nil || !strings.Contains(err.Error(), "term failed") {
		t.Errorf("Terminate error = %v", err)
	}
}

func TestPaDevices(t *testing.T) {
	orig := paLibDevicesFunc
	t.Cleanup(func() { paLibDevicesFunc = orig })

	paLibDevicesFunc = func() ([]*portaudio.DeviceInfo, error) { return nil, nil }
	devices, err := paDevices()
	if err != nil || devices == nil || len(devices) != 0 {
		t.Errorf("paDevices() = %v, %v; want empty non-nil slice", devices, err)
	}

	paLibDevicesFunc = func() ([]*portaudio.DeviceInfo, error) { return nil, errors.New("not initialized") }
	if devices, err := paDevices(); err == nil || devices != nil {
		t.Errorf("paDevices() = %v, %v; want nil and error", devices, err)
	}
}

func TestListDevices(t *testing.T) {
	withDevices(t, fakeDevices(), nil)

	var buf bytes.Buffer
	if err := ListDevices(&buf); err != nil {
		t.Fatalf("ListDevices: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"[0] Built-in Microphone (Input)",
		"[1] Speakers (Output)",
		"[2] Interface (Input/Output)",
		"Default sample rate: 96000 Hz",
		"Latency: Low=5.00ms",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
