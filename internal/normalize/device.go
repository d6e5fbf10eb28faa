package normalize

import "github.com/hydro414e13/prvcsh/internal/model"

// Hardware reads hardware identifiers exposed to scripts. Concurrency,
// memory and core counts stay nil when unreported so the scorer can tell
// "API blocked" apart from "API returned zero".
func Hardware(raw map[string]any) model.HardwareSignal {
	sig := model.HardwareSignal{
		Tested:              rawBool(raw, "tested", false),
		HardwareConcurrency: rawIntPtr(raw, "hardwareConcurrency"),
		DeviceMemory:        rawFloatPtr(raw, "deviceMemory"),
		CPUCores:            rawIntPtr(raw, "cpuCores"),
	}
	if gpu := rawObject(raw, "gpuInfo"); gpu != nil {
		sig.GPUInfo = model.GPUInfo{
			Vendor:   rawString(gpu, "vendor", ""),
			Renderer: rawString(gpu, "renderer", ""),
		}
	}
	return sig
}

// Battery reads Battery Status API exposure.
func Battery(raw map[string]any) model.BatterySignal {
	return model.BatterySignal{
		Tested:          rawBool(raw, "tested", false),
		APIAvailable:    rawBool(raw, "apiAvailable", false),
		BatteryLevel:    rawFloatPtr(raw, "batteryLevel"),
		BatteryCharging: rawBoolPtr(raw, "batteryCharging"),
	}
}

// Audio reads the audio-stack fingerprinting probe.
func Audio(raw map[string]any) model.AudioSignal {
	return model.AudioSignal{
		Tested:           rawBool(raw, "tested", false),
		Fingerprintable:  rawBool(raw, "fingerprintable", false),
		AudioFingerprint: rawString(raw, "audioFingerprint", ""),
	}
}

// Fonts reads the installed-font enumeration probe.
func Fonts(raw map[string]any) model.FontSignal {
	return model.FontSignal{
		Tested:              rawBool(raw, "tested", false),
		UniqueFontsDetected: rawInt(raw, "uniqueFontsDetected", 0),
		FontFingerprint:     rawObject(raw, "fontFingerprint"),
	}
}
