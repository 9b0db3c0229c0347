package capture

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/triagesys/trec/pkg/core/logging"
)

func bufferLogger(buf *bytes.Buffer) *logging.Logger {
	return &logging.Logger{Logger: logging.NewLogger(logging.LoggerConfig{
		ServiceName: "capture",
		Level:       "debug",
		Format:      "json",
		Output:      buf,
	})}
}

func TestLogInputDevices(t *testing.T) {
	var buf bytes.Buffer
	list := func() ([]DeviceInfo, error) {
		return []DeviceInfo{
			{Name: "Built-in Microphone", HostAPI: "Core Audio", MaxInputChannels: 1, DefaultSampleRate: 48000, IsDefault: true},
			{Name: "USB Headset", HostAPI: "Core Audio", MaxInputChannels: 2, DefaultSampleRate: 44100},
		}, nil
	}

	LogInputDevices(list, bufferLogger(&buf))

	out := buf.String()
	for _, want := range []string{"Input devices enumerated", "Built-in Microphone", "USB Headset"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogInputDevices_Failure(t *testing.T) {
	var buf bytes.Buffer
	list := func() ([]DeviceInfo, error) {
		return nil, errors.New("no host api")
	}

	LogInputDevices(list, bufferLogger(&buf))

	out := buf.String()
	if !strings.Contains(out, "Device enumeration failed") || !strings.Contains(out, "no host api") {
		t.Errorf("failure not logged:\n%s", out)
	}
	if strings.Contains(out, "Input devices enumerated") {
		t.Error("success logged after a failure")
	}
}
