package common

import (
	"encoding/binary"
	"hash/fnv"
)

// MurmurHash32 MurmurHash2,32位版本,标准版
func MurmurHash32(data []byte, seed uint32) uint32 {
	const m uint32 = 0x5bd1e995
	const r uint8 = 24

	var length = uint32(len(data))
	var h = seed ^ length

	nblocks := int(length / 4)
	for i := 0; i < nblocks; i++ {
		k := binary.LittleEndian.Uint32(data[i*4:])
		k *= m
		k ^= k >> r
		k *= m

		h *= m
		h ^= k
	}

	tailIndex := nblocks * 4
	switch length & 3 {
	case 3:
		h ^= uint32(data[tailIndex+2]) << 16
		fallthrough
	case 2:
		h ^= uint32(data[tailIndex+1]) << 8
		fallthrough
	case 1:
		h ^= uint32(data[tailIndex])
		h *= m
	}

	h ^= h >> 13
	h *= m
	h ^= h >> 15
	return h
}

// MurmurHash32String MurmurHash32 with the default seed
func MurmurHash32String(s string) uint32 {
	return MurmurHash32([]byte(s), 0x1234ABCD)
}

// Fnv32Hashcode 计算s的fnv32 hash,结果非负
func Fnv32Hashcode(s string) int {
	hasher := fnv.New32a()
	_, _ = hasher.Write([]byte(s))
	return int(hasher.Sum32() & 0x7fffffff)
}
