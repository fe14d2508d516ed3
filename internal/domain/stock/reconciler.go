package stock

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InsufficientStockError is returned when an outbound line requests more
// than the article's currently available balance. It carries enough detail
// for the caller to surface the offending article and the shortfall.
type InsufficientStockError struct {
	ArticleID   uuid.UUID
	ArticleCode string
	Requested   decimal.Decimal
	Available   decimal.Decimal
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for article %s: requested %s, available %s",
		e.ArticleCode, e.Requested.String(), e.Available.String())
}

// ArticleDelta is the signed quantity change for one article produced by
// diffing a document's old and new line sets.
type ArticleDelta struct {
	ArticleID uuid.UUID       `json:"article_id"`
	Delta     decimal.Decimal `json:"delta"`
}

// SumByArticle groups lines by article, summing quantities per article.
// Multiple lines referencing the same article collapse into one total.
func SumByArticle(lines []DocumentLine) map[uuid.UUID]decimal.Decimal {
	totals := make(map[uuid.UUID]decimal.Decimal, len(lines))
	for _, line := range lines {
		totals[line.ArticleID] = totals[line.ArticleID].Add(line.Quantity)
	}
	return totals
}

// ComputeDeltas diffs the before and after per-article totals.
// For each article in the union of both maps:
//
//	delta = after - before
//
// Articles fully removed from the new set get after = 0, producing a
// negative delta that returns stock (inbound) or restores it (outbound).
// Articles with a zero net delta are omitted. The result is ordered by
// article ID so callers apply adjustments deterministically.
func ComputeDeltas(before, after map[uuid.UUID]decimal.Decimal) []ArticleDelta {
	deltas := make([]ArticleDelta, 0, len(after))
	for articleID, afterQty := range after {
		delta := afterQty.Sub(before[articleID])
		if !delta.IsZero() {
			deltas = append(deltas, ArticleDelta{ArticleID: articleID, Delta: delta})
		}
	}
	for articleID, beforeQty := range before {
		if _, present := after[articleID]; present {
			continue
		}
		if !beforeQty.IsZero() {
			deltas = append(deltas, ArticleDelta{ArticleID: articleID, Delta: beforeQty.Neg()})
		}
	}

	sort.Slice(deltas, func(i, j int) bool {
		return deltas[i].ArticleID.String() < deltas[j].ArticleID.String()
	})

	return deltas
}

// SignedDelta converts an article delta into the balance adjustment for the
// given direction. Inbound adds the delta to stock; outbound subtracts it,
// so issuing less than before (negative delta) adds stock back.
func SignedDelta(direction Direction, delta decimal.Decimal) decimal.Decimal {
	if direction == DirectionOutbound {
		return delta.Neg()
	}
	return delta
}
