package addr

// SNDxCNT (channels 1, 2 and 4)
const (
	CntLengthMask    uint16 = 0x3F
	CntDutyShift            = 6
	CntStepTimeShift        = 8
	CntEnvDirInc     uint16 = 1 << 11
	CntEnvDirDec     uint16 = 0
	CntVolumeShift          = 12
)

// CntLength encodes the length load value (0..63).
func CntLength(n uint16) uint16 { return n & CntLengthMask }

// CntDuty encodes the pulse duty (0..3: 12.5%, 25%, 50%, 75%).
func CntDuty(n uint8) uint16 { return uint16(n&3) << CntDutyShift }

// CntStepTime encodes the envelope step time (0..7).
func CntStepTime(n uint8) uint16 { return uint16(n&7) << CntStepTimeShift }

// CntVolume encodes the initial envelope volume (0..15).
func CntVolume(n uint8) uint16 { return uint16(n&0xF) << CntVolumeShift }

// SNDxFREQ (channels 1, 2 and 3)
const (
	FreqPeriodMask   uint16 = 0x7FF
	FreqLengthEnable uint16 = 1 << 14
	FreqRestart      uint16 = 1 << 15
)

// FreqPeriod encodes an 11-bit period.
func FreqPeriod(n uint16) uint16 { return n & FreqPeriodMask }

// SND3SEL
const (
	Sel3Size32  uint16 = 0 << 5
	Sel3Size64  uint16 = 1 << 5
	Sel3Bank    uint16 = 1 << 6
	Sel3Enable  uint16 = 1 << 7
	Sel3Disable uint16 = 0
)

// SND3CNT
const (
	Cnt3LengthMask uint16 = 0xFF
	Cnt3Volume0    uint16 = 0x0 << 13
	Cnt3Volume25   uint16 = 0x3 << 13
	Cnt3Volume50   uint16 = 0x2 << 13
	Cnt3Volume75   uint16 = 0x4 << 13
	Cnt3Volume100  uint16 = 0x1 << 13
	Cnt3VolumeMask uint16 = 0x7 << 13
)

// Cnt3Length encodes the wave channel length load value (0..255).
func Cnt3Length(n uint16) uint16 { return n & Cnt3LengthMask }

// SND4FREQ
const (
	Freq4DivRatioMask uint16 = 0x7
	Freq4Width7Bits   uint16 = 1 << 3
	Freq4Width15Bits  uint16 = 0
	Freq4ShiftShift          = 4
)

// Freq4DivRatio encodes the noise clock divider code (0..7).
func Freq4DivRatio(n uint16) uint16 { return n & Freq4DivRatioMask }

// Freq4Shift encodes the noise clock shift (0..15).
func Freq4Shift(n uint16) uint16 { return (n & 0xF) << Freq4ShiftShift }

// SNDDMGCNT
const (
	DMGRightEnableShift = 8
	DMGLeftEnableShift  = 12
)

// DMGVolRight encodes the right master volume (0..7).
func DMGVolRight(v uint16) uint16 { return v & 7 }

// DMGVolLeft encodes the left master volume (0..7).
func DMGVolLeft(v uint16) uint16 { return (v & 7) << 4 }

// DMGEnableRight returns the right output enable bit of a channel (1..4).
func DMGEnableRight(ch int) uint16 { return 1 << (DMGRightEnableShift + ch - 1) }

// DMGEnableLeft returns the left output enable bit of a channel (1..4).
func DMGEnableLeft(ch int) uint16 { return 1 << (DMGLeftEnableShift + ch - 1) }

// SNDDSCNT
const (
	DSPSGVolume25   uint16 = 0
	DSPSGVolume50   uint16 = 1
	DSPSGVolume100  uint16 = 2
	DSPSGVolumeMask uint16 = 3
)

// SNDSTAT
const SndStatMasterEnable uint16 = 1 << 7
