// Package analytics derives the spending summary from classified
// transactions: fixed category buckets, a sparse per-day timeline, and the
// top spending merchants.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/globapay/txfeed/internal/domain"
)

// CategoryBucket is one of the five fixed output buckets. All five are always
// present, in fixed order, even at zero.
type CategoryBucket struct {
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// TimelinePoint is one day's spend. The timeline is sparse: days with no
// spend are not synthesized, which charting callers rely on.
type TimelinePoint struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

// MerchantBucket is one merchant's summed spend.
type MerchantBucket struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Result is the derived analytics view. Purely recomputed per request, never
// cached.
type Result struct {
	RangeDays  int              `json:"rangeDays"`
	Categories []CategoryBucket `json:"categories"`
	Timeline   []TimelinePoint  `json:"timeline"`
	Merchants  []MerchantBucket `json:"merchants"`
	TotalSpend float64          `json:"totalSpend"`
}

const unknownMerchant = "Unknown Merchant"

const topMerchants = 5

// bucketDefs fixes the output buckets and their order.
var bucketDefs = []struct {
	Key   string
	Label string
}{
	{Key: "food_dining", Label: "Food & Dining"},
	{Key: "shopping_retail", Label: "Shopping & Retail"},
	{Key: "transport_travel", Label: "Transport & Travel"},
	{Key: "bills_utilities", Label: "Bills & Utilities"},
	{Key: "other", Label: "Other / Uncategorized"},
}

// categoryBucketKey is the static one-to-one table from classifier labels to
// output buckets. Anything outside it, including labels the classifier should
// never emit, lands in "other".
var categoryBucketKey = map[domain.Category]string{
	domain.CategoryFoodDrinks:         "food_dining",
	domain.CategoryShoppingLifestyle:  "shopping_retail",
	domain.CategoryTransportTravel:    "transport_travel",
	domain.CategoryBillsSubscriptions: "bills_utilities",
}

func bucketKeyFor(c domain.Category) string {
	if key, ok := categoryBucketKey[c]; ok {
		return key
	}
	return "other"
}

// Empty returns the all-zero result shape for the given range. Used when the
// user has no linked connections or no spend in the window.
func Empty(rangeDays int) Result {
	categories := make([]CategoryBucket, 0, len(bucketDefs))
	for _, def := range bucketDefs {
		categories = append(categories, CategoryBucket{Key: def.Key, Label: def.Label, Amount: 0})
	}
	return Result{
		RangeDays:  rangeDays,
		Categories: categories,
		Timeline:   []TimelinePoint{},
		Merchants:  []MerchantBucket{},
		TotalSpend: 0,
	}
}

// Aggregate builds the three derived views from classified transactions.
// Only positive amounts (expenses under the engine's sign convention) count;
// credits are excluded from every view. Sums accumulate exactly and round to
// two decimals only at the point of output, so intermediate rounding error
// never compounds. TotalSpend is the re-rounded sum of the already-rounded
// bucket amounts, so the two always agree exactly.
func Aggregate(txs []domain.ClassifiedTransaction, rangeDays int) Result {
	categorySums := make(map[string]decimal.Decimal, len(bucketDefs))
	timelineSums := make(map[string]decimal.Decimal)
	merchantSums := make(map[string]decimal.Decimal)

	for _, tx := range txs {
		if tx.Amount <= 0 {
			continue
		}
		amount := decimal.NewFromFloat(tx.Amount)

		key := bucketKeyFor(tx.Category)
		categorySums[key] = categorySums[key].Add(amount)

		timelineSums[tx.Date] = timelineSums[tx.Date].Add(amount)

		merchant := unknownMerchant
		if tx.MerchantName != nil && *tx.MerchantName != "" {
			merchant = *tx.MerchantName
		}
		merchantSums[merchant] = merchantSums[merchant].Add(amount)
	}

	categories := make([]CategoryBucket, 0, len(bucketDefs))
	total := decimal.Zero
	for _, def := range bucketDefs {
		rounded := categorySums[def.Key].Round(2)
		total = total.Add(rounded)
		categories = append(categories, CategoryBucket{
			Key:    def.Key,
			Label:  def.Label,
			Amount: rounded.InexactFloat64(),
		})
	}

	timeline := make([]TimelinePoint, 0, len(timelineSums))
	for date, sum := range timelineSums {
		timeline = append(timeline, TimelinePoint{Date: date, Total: sum.Round(2).InexactFloat64()})
	}
	sort.Slice(timeline, func(i, j int) bool { return timeline[i].Date < timeline[j].Date })

	merchants := make([]MerchantBucket, 0, len(merchantSums))
	for name, sum := range merchantSums {
		merchants = append(merchants, MerchantBucket{Name: name, Amount: sum.Round(2).InexactFloat64()})
	}
	sort.Slice(merchants, func(i, j int) bool {
		if merchants[i].Amount != merchants[j].Amount {
			return merchants[i].Amount > merchants[j].Amount
		}
		return merchants[i].Name < merchants[j].Name
	})
	if len(merchants) > topMerchants {
		merchants = merchants[:topMerchants]
	}

	return Result{
		RangeDays:  rangeDays,
		Categories: categories,
		Timeline:   timeline,
		Merchants:  merchants,
		TotalSpend: total.Round(2).InexactFloat64(),
	}
}
