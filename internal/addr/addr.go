// Package addr maps 32-bit Component IDs onto 7-bit I²C addresses and
// keeps the reserved/blacklisted address set (spec Section 3, "Component
// ID").
package addr

// Blacklisted are the I²C addresses reserved by the hardware and never
// usable for a Component, regardless of how its ID maps (spec Section
// 3 and Section 9 "Blacklisted I²C addresses").
var Blacklisted = map[byte]bool{
	0x18: true,
	0x28: true,
	0x36: true,
}

// FromComponentID deterministically maps a Component ID to a 7-bit I²C
// address. This matches the original's component_id_to_i2c_addr: the ID
// is reduced modulo 0x70 and offset by 0x08, so the result always lies in
// 0x08..0x77, away from the reserved low addresses used by the bus
// controller itself.
func FromComponentID(id uint32) byte {
	return byte(id%(0x78-0x08)) + 0x08
}

// IsBlacklisted reports whether addr is a reserved/blacklisted I²C
// address that must be skipped during a scan.
func IsBlacklisted(address byte) bool {
	return Blacklisted[address]
}
