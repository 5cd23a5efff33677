package furball

import "github.com/valerio/go-furball/furball/addr"

// Device is the sound hardware the engine drives. Addresses are the 16-bit
// sound register groups in package addr.
type Device interface {
	WriteRegister(address uint32, value uint16)
	// LoadWave writes data into the wave RAM bank that is not playing and
	// then flips the playing bank.
	LoadWave(data [addr.WaveWords]uint32)
}
