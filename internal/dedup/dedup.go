// Package dedup removes near-duplicate content items before evaluation.
package dedup

import (
	"github.com/cespare/xxhash/v2"
	"github.com/ppiankov/adjury/internal/model"
)

// signaturePrefix is the number of text runes that define a duplicate
const signaturePrefix = 100

// Signature fingerprints an item by advertiser and leading text.
// xxhash has a fixed seed so signatures are stable across processes.
func Signature(item model.ContentItem) uint64 {
	text := []rune(item.Text)
	if len(text) > signaturePrefix {
		text = text[:signaturePrefix]
	}
	return xxhash.Sum64String(item.Advertiser + ":" + string(text))
}

// Deduplicate keeps the first occurrence of each signature, preserving order.
// It returns the unique items and the size of the input.
func Deduplicate(items []model.ContentItem) ([]model.ContentItem, int) {
	seen := make(map[uint64]struct{}, len(items))
	unique := make([]model.ContentItem, 0, len(items))

	for _, item := range items {
		sig := Signature(item)
		if _, dup := seen[sig]; dup {
			continue
		}
		seen[sig] = struct{}{}
		unique = append(unique, item)
	}
	return unique, len(items)
}
