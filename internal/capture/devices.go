// ============================================================================
// trec - Triage Voice Recorder
// ============================================================================
//
// Package:     capture
// Description: Input device enumeration
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package capture

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"github.com/triagesys/trec/pkg/core/logging"
)

// DeviceInfo holds information about an audio input device
type DeviceInfo struct {
	Name              string
	HostAPI           string
	MaxInputChannels  int
	DefaultSampleRate float64
	IsDefault         bool
}

// ListInputDevices returns a list of available input devices
func ListInputDevices() ([]DeviceInfo, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	defer portaudio.Terminate()

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to get devices: %w", err)
	}

	var defaultName string
	if def, err := portaudio.DefaultInputDevice(); err == nil && def != nil {
		defaultName = def.Name
	}

	var inputs []DeviceInfo
	for _, dev := range devices {
		if dev.MaxInputChannels <= 0 {
			continue
		}
		info := DeviceInfo{
			Name:              dev.Name,
			MaxInputChannels:  dev.MaxInputChannels,
			DefaultSampleRate: dev.DefaultSampleRate,
			IsDefault:         dev.Name == defaultName,
		}
		if dev.HostApi != nil {
			info.HostAPI = dev.HostApi.Name
		}
		inputs = append(inputs, info)
	}
	return inputs, nil
}

// LogInputDevices logs the available input devices for diagnostics.
// Enumeration failures are logged and otherwise ignored.
func LogInputDevices(list func() ([]DeviceInfo, error), logger *logging.Logger) {
	devices, err := list()
	if err != nil {
		logger.Warn("Device enumeration failed", "error", err)
		return
	}

	logger.Info("Input devices enumerated", "count", len(devices))
	for _, d := range devices {
		logger.Debug("Input device",
			"name", d.Name,
			"host_api", d.HostAPI,
			"channels", d.MaxInputChannels,
			"sample_rate", d.DefaultSampleRate,
			"default", d.IsDefault,
		)
	}
}
