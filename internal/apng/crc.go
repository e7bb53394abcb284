package apng

import "hash/crc32"

// CRC is a running CRC-32 (IEEE, reflected, init and xorout 0xFFFFFFFF) as
// used by PNG chunk trailers. The zero value is ready to use.
type CRC struct {
	sum uint32
}

// Write folds p into the checksum. It never fails.
func (c *CRC) Write(p []byte) (int, error) {
	c.sum = crc32.Update(c.sum, crc32.IEEETable, p)
	return len(p), nil
}

// Sum32 returns the checksum of everything written so far.
func (c *CRC) Sum32() uint32 { return c.sum }

// Reset clears the running checksum.
func (c *CRC) Reset() { c.sum = 0 }

// Checksum returns the CRC-32 of b.
func Checksum(b []byte) uint32 {
	return crc32.ChecksumIEEE(b)
}
