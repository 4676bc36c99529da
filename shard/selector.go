package shard

import "hash/fnv"

/*
Selector decides which shard owns a key.
The cache does not care HOW this decision is made; strategies are pluggable.
*/
type Selector interface {
	Select(string, []*Shard) *Shard
}

// HashSelector assigns keys by FNV-1a hash modulo the shard count, so the same
// key always lands on the same shard.
type HashSelector struct{}

// hash converts a string key into a number. FNV is fast and non-cryptographic.
func hash(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

func (HashSelector) Select(key string, shards []*Shard) *Shard {
	return shards[hash(key)%uint32(len(shards))]
}
