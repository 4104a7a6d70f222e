package gf

import "fmt"

// Reversed polynomial representation of CRC-16-CCITT (x^16 + x^12 + x^5 + 1).
const crcPoly = 0x8408

// Checksum computes the CRC-16-CCITT variant Zebra printers verify on B64
// and Z64 payloads: reflected, init 0xFFFF, final complement, then the two
// result bytes swapped. The input is the Base64 text, not the raw bitmap.
func Checksum(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		cur := uint16(b)
		for i := 0; i < 8; i++ {
			if (crc^cur)&0x0001 != 0 {
				crc = (crc >> 1) ^ crcPoly
			} else {
				crc >>= 1
			}
			cur >>= 1
		}
	}
	crc = ^crc
	return crc<<8 | crc>>8
}

// ChecksumHex renders the checksum as the four uppercase hex digits used in
// the payload suffix.
func ChecksumHex(data []byte) string {
	return fmt.Sprintf("%04X", Checksum(data))
}
