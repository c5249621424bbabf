package dedup

import (
	"strings"
	"testing"

	"github.com/ppiankov/adjury/internal/model"
)

func item(id, advertiser, text string) model.ContentItem {
	return model.ContentItem{ID: id, Advertiser: advertiser, Text: text}
}

func TestDeduplicate(t *testing.T) {
	long := strings.Repeat("a", 100)

	tests := []struct {
		desc     string
		items    []model.ContentItem
		wantIDs  []string
		original int
	}{
		{"empty", nil, []string{}, 0},
		{
			"same advertiser and text collapse",
			[]model.ContentItem{item("1", "Barbara Decker", "Send BTC"), item("2", "Barbara Decker", "Send BTC")},
			[]string{"1"}, 2,
		},
		{
			"different advertiser kept",
			[]model.ContentItem{item("1", "A", "same"), item("2", "B", "same")},
			[]string{"1", "2"}, 2,
		},
		{
			"only first 100 runes count",
			[]model.ContentItem{item("1", "A", long+" tail one"), item("2", "A", long+" tail two")},
			[]string{"1"}, 2,
		},
		{
			"ids are ignored",
			[]model.ContentItem{item("x", "A", "t"), item("x", "A", "u")},
			[]string{"x", "x"}, 2,
		},
		{
			"order preserved",
			[]model.ContentItem{item("3", "C", "c"), item("1", "A", "a"), item("4", "C", "c"), item("2", "B", "b")},
			[]string{"3", "1", "2"}, 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, original := Deduplicate(tt.items)
			if original != tt.original {
				t.Errorf("original = %d, want %d", original, tt.original)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d items, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("item %d id = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestDeduplicate_Idempotent(t *testing.T) {
	items := []model.ContentItem{
		item("1", "A", "a"), item("2", "A", "a"), item("3", "B", "b"), item("4", "B", "b"),
	}
	once, _ := Deduplicate(items)
	twice, original := Deduplicate(once)

	if original != len(once) || len(twice) != len(once) {
		t.Errorf("expected idempotence: once=%d twice=%d", len(once), len(twice))
	}
}

func TestSignature_MultibyteTruncation(t *testing.T) {
	prefix := strings.Repeat("é", 100)
	a := Signature(item("1", "A", prefix+"x"))
	b := Signature(item("2", "A", prefix+"y"))
	if a != b {
		t.Error("expected rune-based truncation to ignore text after 100 runes")
	}
}
