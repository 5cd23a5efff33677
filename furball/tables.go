package furball

import (
	"github.com/valerio/go-furball/furball/bit"
	"github.com/valerio/go-furball/furball/music"
)

// periodTable maps notes B-1..B-9 to 11-bit periods of the tone channels.
var periodTable = [1 + 12*8]uint16{
	// C   C#    D     D#    E     F     F#    G     G#    A     A#    B
	1,                                                         // B-1
	44, 157, 263, 363, 457, 547, 631, 711, 786, 856, 923, 986, // 2
	1046, 1102, 1155, 1205, 1253, 1297, 1339, 1379, 1417, 1452, 1486, 1517, // 3
	1547, 1575, 1602, 1627, 1650, 1673, 1694, 1714, 1732, 1750, 1767, 1783, // 4
	1798, 1812, 1825, 1837, 1849, 1860, 1871, 1881, 1890, 1899, 1907, 1915, // 5
	1923, 1930, 1936, 1943, 1949, 1954, 1959, 1964, 1969, 1974, 1978, 1982, // 6
	1985, 1989, 1992, 1995, 1998, 2001, 2004, 2006, 2009, 2011, 2013, 2015, // 7
	2017, 2018, 2020, 2022, 2023, 2025, 2026, 2027, 2028, 2029, 2030, 2031, // 8
	2032, 2033, 2034, 2035, 2036, 2036, 2037, 2038, 2038, 2039, 2039, 2040, // 9
}

// noiseTable maps notes C-0..C-5 to SND4FREQ noise parameters: clock shift
// in the high nibble, divider code in the low 3 bits.
var noiseTable = [12*5 + 1]uint8{
	// C   C#    D     D#    E     F     F#    G     G#    A     A#    B
	0x00, 0xF7, 0xF6, 0xF5, 0xF4, 0xE7, 0xE6, 0xE5, 0xE4, 0xD7, 0xD6, 0xD5, // 0
	0xD4, 0xC7, 0xC6, 0xC5, 0xC4, 0xB7, 0xB6, 0xB5, 0xB4, 0xA7, 0xA6, 0xA5, // 1
	0xA4, 0x97, 0x96, 0x95, 0x94, 0x87, 0x86, 0x85, 0x84, 0x77, 0x76, 0x75, // 2
	0x74, 0x67, 0x66, 0x65, 0x64, 0x57, 0x56, 0x55, 0x54, 0x47, 0x46, 0x45, // 3
	0x44, 0x37, 0x36, 0x35, 0x34, 0x27, 0x26, 0x25, 0x24, 0x17, 0x16, 0x15, // 4
	0x14, // 5
}

func periodIndex(n music.Note) int {
	return bit.Clamp(int(n), int(music.NotePeriodLow), int(music.NoteHighest)) - int(music.NotePeriodLow)
}

func noiseIndex(n music.Note) int {
	return bit.Clamp(int(n), int(music.NoteNoiseLow), int(music.NoteNoiseHigh)) - int(music.NoteNoiseLow)
}

// Period returns the tone channel period of a note, clamping notes below
// B-1.
func Period(n music.Note) uint16 {
	return periodTable[periodIndex(n)]
}

// NoiseParams returns the noise channel parameters of a note, clamping
// notes outside C-0..C-5.
func NoiseParams(n music.Note) uint16 {
	return uint16(noiseTable[noiseIndex(n)])
}
