// SPDX-License-Identifier: EPL-2.0

package audio

// DriverDesc describes the hardware frame format.
type DriverDesc struct {
	SampleRate    int
	BitsPerSample int
	HWChannels    int
	// FrameSamples is the number of samples per channel in one hardware frame.
	FrameSamples int
}

// Driver is a hardware sink fed one frame at a time by the mixer goroutine.
type Driver interface {
	// Create opens the device. It may return a hardware specific Mixer; a nil
	// Mixer selects DefaultMixer.
	Create(desc DriverDesc) (Mixer, error)
	// Destroy closes the device and releases a goroutine blocked in Wait.
	// A Submit racing with Destroy returns ErrDriverClosed.
	Destroy() error
	// Wait blocks until the device can accept the next frame.
	Wait()
	// Submit hands a frame of HWChannels planar channels to the device. The
	// frame is reused once Submit returns.
	Submit(frame *Block) error
}
