package util

const (
	fnvOffset64 = 14695981039346656037
	fnvPrime64  = 1099511628211
)

// HashContent hashes message content for duplicate comparison. FNV-1a over the
// raw bytes, finished with a xorshift mix so near-identical short strings
// spread across the full 64-bit range.
func HashContent(s string) uint64 {
	h := uint64(fnvOffset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime64
	}
	return MixU64(h)
}

func MixU64(val uint64) uint64 {
	val ^= val << 13
	val ^= val >> 7
	val ^= val << 17
	return val
}
