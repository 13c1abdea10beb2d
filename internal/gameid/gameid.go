// Package gameid generates sortable match identifiers: UUIDv7 values
// rendered as 26-character Crockford base32 strings. IDs sort by creation
// time, which keeps history directories browseable.
package gameid

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// RandSource lets tests inject deterministic randomness
type RandSource interface {
	Intn(n int) int
}

// Generate creates a new match ID from the current time and crypto/rand
func Generate() string {
	return GenerateWithRandSource(nil)
}

// GenerateWithRandSource creates a new match ID, pulling random bytes from
// src when it is non-nil.
func GenerateWithRandSource(src RandSource) string {
	var uuid [16]byte

	// 48-bit millisecond timestamp up front makes IDs time-ordered
	now := time.Now().UnixMilli()
	for i := 0; i < 6; i++ {
		uuid[i] = byte(now >> (40 - 8*i))
	}

	if src != nil {
		for i := 6; i < 16; i++ {
			uuid[i] = byte(src.Intn(256))
		}
	} else {
		if _, err := rand.Read(uuid[6:]); err != nil {
			panic("failed to read random bytes: " + err.Error())
		}
	}

	// version 7, variant 10
	uuid[6] = (uuid[6] & 0x0f) | 0x70
	uuid[8] = (uuid[8] & 0x3f) | 0x80

	return encode(uuid)
}

// encode renders 128 bits as 26 base32 characters, 5 bits at a time
func encode(data [16]byte) string {
	var b strings.Builder
	b.Grow(26)
	for i := 0; i < 26; i++ {
		bitOffset := i * 5
		byteIndex := bitOffset / 8
		bitIndex := bitOffset % 8

		var value uint8
		if byteIndex < 16 {
			if bitIndex <= 3 {
				value = (data[byteIndex] >> (3 - bitIndex)) & 0x1f
			} else {
				value = (data[byteIndex] << (bitIndex - 3)) & 0x1f
				if byteIndex+1 < 16 {
					value |= data[byteIndex+1] >> (11 - bitIndex)
				}
			}
		}
		b.WriteByte(alphabet[value])
	}
	return b.String()
}

// Validate checks that an ID is 26 valid base32 characters with a leading
// character that keeps the value within 128 bits.
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("match ID must be exactly 26 characters, got %d", len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("match ID first character must be 0-7, got %c", id[0])
	}
	for i := 0; i < len(id); i++ {
		if !strings.ContainsRune(alphabet, rune(id[i])) {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}
	return nil
}
