// Package report holds the read-side aggregation behind the admin dashboard.
// All functions are pure and operate on slices loaded by the caller.
package report

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultMonths is how many calendar months the monthly buckets cover
const DefaultMonths = 12

// DefaultTopN is the default size of the most viewed items ranking
const DefaultTopN = 5

// delivered is the order state whose totals count as revenue
const delivered = "Delivered"

// ItemStat is the projection of an item used for aggregation
type ItemStat struct {
	ID         uuid.UUID
	Title      string
	Category   string
	Views      int64
	IsApproved bool
	IsFlagged  bool
	CreatedAt  time.Time
}

// OrderStat is the projection of an order used for aggregation
type OrderStat struct {
	State       string
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
}

// Totals are entity counts shown on the dashboard
type Totals struct {
	Users           int64 `json:"users"`
	Items           int64 `json:"items"`
	Orders          int64 `json:"orders"`
	Barters         int64 `json:"barters"`
	Reviews         int64 `json:"reviews"`
	PendingApproval int64 `json:"pending_approval"`
	Flagged         int64 `json:"flagged"`
}

// CategoryCount is one bar of the category histogram
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// ItemViews is one entry of the most viewed ranking
type ItemViews struct {
	Rank  int       `json:"rank"`
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Views int64     `json:"views"`
}

// MonthBucket counts records created in one calendar month
type MonthBucket struct {
	Month string `json:"month"` // YYYY-MM
	Count int64  `json:"count"`
}

// Dashboard is the full admin dashboard payload
type Dashboard struct {
	Totals        Totals           `json:"totals"`
	Revenue       decimal.Decimal  `json:"revenue"`
	OrderStates   map[string]int64 `json:"order_states"`
	Categories    []CategoryCount  `json:"categories"`
	TopViewed     []ItemViews      `json:"top_viewed"`
	UsersByMonth  []MonthBucket    `json:"users_by_month"`
	OrdersByMonth []MonthBucket    `json:"orders_by_month"`
	GeneratedAt   time.Time        `json:"generated_at"`
}

// Input is everything Build needs
type Input struct {
	Totals        Totals
	Items         []ItemStat
	Orders        []OrderStat
	UserCreatedAt []time.Time
	TopN          int
	Months        int
	Now           time.Time
}

// Build assembles the dashboard from loaded data
func Build(in Input) Dashboard {
	if in.TopN <= 0 {
		in.TopN = DefaultTopN
	}
	if in.Months <= 0 {
		in.Months = DefaultMonths
	}
	if in.Now.IsZero() {
		in.Now = time.Now()
	}

	orderTimes := make([]time.Time, len(in.Orders))
	for i, o := range in.Orders {
		orderTimes[i] = o.CreatedAt
	}

	return Dashboard{
		Totals:        in.Totals,
		Revenue:       Revenue(in.Orders),
		OrderStates:   StateDistribution(in.Orders),
		Categories:    CategoryHistogram(in.Items),
		TopViewed:     TopByViews(in.Items, in.TopN),
		UsersByMonth:  MonthlyBuckets(in.UserCreatedAt, in.Now, in.Months),
		OrdersByMonth: MonthlyBuckets(orderTimes, in.Now, in.Months),
		GeneratedAt:   in.Now,
	}
}

// Revenue sums the totals of delivered orders
func Revenue(orders []OrderStat) decimal.Decimal {
	sum := decimal.Zero
	for _, o := range orders {
		if o.State == delivered {
			sum = sum.Add(o.TotalAmount)
		}
	}
	return sum
}

// StateDistribution counts orders per state
func StateDistribution(orders []OrderStat) map[string]int64 {
	dist := make(map[string]int64)
	for _, o := range orders {
		dist[o.State]++
	}
	return dist
}

// CategoryHistogram counts items per category, largest first. Category names
// are compared case-insensitively and reported in lower case.
func CategoryHistogram(items []ItemStat) []CategoryCount {
	counts := make(map[string]int64)
	for _, it := range items {
		c := strings.ToLower(strings.TrimSpace(it.Category))
		if c == "" {
			c = "uncategorized"
		}
		counts[c]++
	}

	out := make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, CategoryCount{Category: c, Count: n})
	}
	slices.SortFunc(out, func(a, b CategoryCount) int {
		if a.Count != b.Count {
			return cmp.Compare(b.Count, a.Count)
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return out
}

// TopByViews returns the n most viewed items. Ties keep the newer item first.
func TopByViews(items []ItemStat, n int) []ItemViews {
	if n <= 0 || len(items) == 0 {
		return []ItemViews{}
	}
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b ItemStat) int {
		if a.Views != b.Views {
			return cmp.Compare(b.Views, a.Views)
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	out := make([]ItemViews, len(sorted))
	for i, it := range sorted {
		out[i] = ItemViews{Rank: i + 1, ID: it.ID, Title: it.Title, Views: it.Views}
	}
	return out
}

// MonthlyBuckets counts timestamps per calendar month over the last months
// months ending with the month of now, oldest first. Timestamps outside the
// window are ignored. Months are computed in the location of now.
func MonthlyBuckets(times []time.Time, now time.Time, months int) []MonthBucket {
	if months <= 0 {
		return []MonthBucket{}
	}
	loc := now.Location()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	start := current.AddDate(0, -(months - 1), 0)

	buckets := make([]MonthBucket, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		key := start.AddDate(0, i, 0).Format("2006-01")
		buckets[i] = MonthBucket{Month: key}
		index[key] = i
	}

	for _, t := range times {
		key := t.In(loc).Format("2006-01")
		if i, ok := index[key]; ok {
			buckets[i].Count++
		}
	}
	return buckets
}
