package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Store defines a single TTL keyed store
type Store[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	Clear()
	Len() int
}

// Clock returns the current time; injectable for tests
type Clock func() time.Time

var folder = cases.Fold()

// QueryKey normalizes a search query for use as a raw-fetch key
func QueryKey(query string) string {
	return folder.String(strings.TrimSpace(query))
}

// ResultKey identifies a completed batch by query, limit and panel.
// Judge order does not matter.
func ResultKey(query string, limit int, judgeIDs []string) string {
	ids := append([]string(nil), judgeIDs...)
	sort.Strings(ids)

	raw := QueryKey(query) + "|" + strconv.Itoa(limit) + "|" + strings.Join(ids, ",")
	hash := sha256.Sum256([]byte(raw))
	return "adjury:v1:" + hex.EncodeToString(hash[:])
}
