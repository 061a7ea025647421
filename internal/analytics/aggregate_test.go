package analytics

import (
	"math"
	"testing"

	"github.com/globapay/txfeed/internal/domain"
)

func strPtr(s string) *string { return &s }

func classified(id, date string, amount float64, category domain.Category, merchant *string) domain.ClassifiedTransaction {
	return domain.ClassifiedTransaction{
		Transaction: domain.Transaction{
			ID:           id,
			Date:         date,
			Amount:       amount,
			MerchantName: merchant,
		},
		Category: category,
	}
}

func TestEmpty(t *testing.T) {
	res := Empty(30)

	if res.RangeDays != 30 {
		t.Errorf("RangeDays = %d, want 30", res.RangeDays)
	}
	if len(res.Categories) != 5 {
		t.Fatalf("expected all 5 buckets, got %d", len(res.Categories))
	}
	wantKeys := []string{"food_dining", "shopping_retail", "transport_travel", "bills_utilities", "other"}
	for i, bucket := range res.Categories {
		if bucket.Key != wantKeys[i] {
			t.Errorf("bucket %d key = %q, want %q", i, bucket.Key, wantKeys[i])
		}
		if bucket.Amount != 0 {
			t.Errorf("bucket %q amount = %v, want 0", bucket.Key, bucket.Amount)
		}
	}
	if res.Timeline == nil || len(res.Timeline) != 0 {
		t.Errorf("expected empty non-nil timeline, got %v", res.Timeline)
	}
	if res.Merchants == nil || len(res.Merchants) != 0 {
		t.Errorf("expected empty non-nil merchants, got %v", res.Merchants)
	}
	if res.TotalSpend != 0 {
		t.Errorf("TotalSpend = %v, want 0", res.TotalSpend)
	}
}

func TestAggregate_BucketsAlwaysPresentInOrder(t *testing.T) {
	res := Aggregate([]domain.ClassifiedTransaction{
		classified("a", "2024-01-01", 10, domain.CategoryFoodDrinks, nil),
	}, 7)

	if len(res.Categories) != 5 {
		t.Fatalf("expected all 5 buckets even with one category, got %d", len(res.Categories))
	}
	if res.Categories[0].Key != "food_dining" || res.Categories[0].Amount != 10 {
		t.Errorf("food bucket = %+v", res.Categories[0])
	}
	for _, bucket := range res.Categories[1:] {
		if bucket.Amount != 0 {
			t.Errorf("bucket %q should be zero, got %v", bucket.Key, bucket.Amount)
		}
	}
}

func TestAggregate_CreditsExcludedEverywhere(t *testing.T) {
	res := Aggregate([]domain.ClassifiedTransaction{
		classified("expense", "2024-01-01", 20, domain.CategoryShoppingLifestyle, strPtr("Shop")),
		classified("credit", "2024-01-01", -50, domain.CategoryShoppingLifestyle, strPtr("Refund Co")),
		classified("zero", "2024-01-01", 0, domain.CategoryShoppingLifestyle, strPtr("Nothing")),
	}, 30)

	if res.TotalSpend != 20 {
		t.Errorf("TotalSpend = %v, want 20", res.TotalSpend)
	}
	if len(res.Timeline) != 1 || res.Timeline[0].Total != 20 {
		t.Errorf("timeline = %+v, want one 20.00 point", res.Timeline)
	}
	if len(res.Merchants) != 1 || res.Merchants[0].Name != "Shop" {
		t.Errorf("merchants = %+v, want only Shop", res.Merchants)
	}
}

func TestAggregate_TimelineScenario(t *testing.T) {
	res := Aggregate([]domain.ClassifiedTransaction{
		classified("a", "2024-01-01", 10, domain.CategoryOther, nil),
		classified("b", "2024-01-01", 5, domain.CategoryOther, nil),
		classified("c", "2024-01-02", 7, domain.CategoryOther, nil),
	}, 30)

	if len(res.Timeline) != 2 {
		t.Fatalf("timeline = %+v, want 2 points", res.Timeline)
	}
	if res.Timeline[0].Date != "2024-01-01" || res.Timeline[0].Total != 15.00 {
		t.Errorf("first point = %+v, want {2024-01-01 15.00}", res.Timeline[0])
	}
	if res.Timeline[1].Date != "2024-01-02" || res.Timeline[1].Total != 7.00 {
		t.Errorf("second point = %+v, want {2024-01-02 7.00}", res.Timeline[1])
	}
}

func TestAggregate_MerchantsTopFiveWithFallback(t *testing.T) {
	txs := []domain.ClassifiedTransaction{
		classified("a", "2024-01-01", 100, domain.CategoryOther, strPtr("Alpha")),
		classified("b", "2024-01-01", 90, domain.CategoryOther, strPtr("Beta")),
		classified("c", "2024-01-01", 80, domain.CategoryOther, strPtr("Gamma")),
		classified("d", "2024-01-01", 70, domain.CategoryOther, strPtr("Delta")),
		classified("e", "2024-01-01", 60, domain.CategoryOther, strPtr("Epsilon")),
		classified("f", "2024-01-01", 50, domain.CategoryOther, nil),
		classified("g", "2024-01-01", 40, domain.CategoryOther, strPtr("Zeta")),
	}

	res := Aggregate(txs, 30)

	if len(res.Merchants) != 5 {
		t.Fatalf("merchants truncated to top 5, got %d", len(res.Merchants))
	}
	if res.Merchants[0].Name != "Alpha" || res.Merchants[0].Amount != 100 {
		t.Errorf("top merchant = %+v", res.Merchants[0])
	}
	for i := 1; i < len(res.Merchants); i++ {
		if res.Merchants[i].Amount > res.Merchants[i-1].Amount {
			t.Errorf("merchants not sorted descending: %+v", res.Merchants)
		}
	}
}

func TestAggregate_UnknownMerchantPlaceholder(t *testing.T) {
	res := Aggregate([]domain.ClassifiedTransaction{
		classified("a", "2024-01-01", 10, domain.CategoryOther, nil),
		classified("b", "2024-01-01", 5, domain.CategoryOther, strPtr("")),
	}, 30)

	if len(res.Merchants) != 1 || res.Merchants[0].Name != "Unknown Merchant" {
		t.Fatalf("merchants = %+v, want one Unknown Merchant bucket", res.Merchants)
	}
	if res.Merchants[0].Amount != 15 {
		t.Errorf("Unknown Merchant amount = %v, want 15", res.Merchants[0].Amount)
	}
}

func TestAggregate_TotalSpendEqualsBucketSum(t *testing.T) {
	// Amounts chosen so naive float addition drifts below a representable sum.
	txs := []domain.ClassifiedTransaction{
		classified("a", "2024-01-01", 0.105, domain.CategoryFoodDrinks, nil),
		classified("b", "2024-01-01", 0.205, domain.CategoryTransportTravel, nil),
		classified("c", "2024-01-01", 0.305, domain.CategoryShoppingLifestyle, nil),
		classified("d", "2024-01-01", 0.405, domain.CategoryBillsSubscriptions, nil),
		classified("e", "2024-01-01", 0.505, domain.CategoryOther, nil),
	}

	res := Aggregate(txs, 30)

	var sum float64
	for _, bucket := range res.Categories {
		sum += bucket.Amount
	}
	if math.Abs(sum-res.TotalSpend) > 1e-9 {
		t.Errorf("sum of buckets %v != TotalSpend %v", sum, res.TotalSpend)
	}
}

func TestAggregate_UnmappedCategoryGoesToOther(t *testing.T) {
	res := Aggregate([]domain.ClassifiedTransaction{
		classified("a", "2024-01-01", 12, domain.Category("Groceries"), nil),
	}, 30)

	for _, bucket := range res.Categories {
		want := 0.0
		if bucket.Key == "other" {
			want = 12
		}
		if bucket.Amount != want {
			t.Errorf("bucket %q = %v, want %v", bucket.Key, bucket.Amount, want)
		}
	}
}

func TestAggregate_RoundsAtAggregationOnly(t *testing.T) {
	// Three thirds of a cent only make a cent if rounding happens after the sum.
	txs := []domain.ClassifiedTransaction{
		classified("a", "2024-01-01", 1.114, domain.CategoryFoodDrinks, strPtr("Cafe")),
		classified("b", "2024-01-01", 1.114, domain.CategoryFoodDrinks, strPtr("Cafe")),
		classified("c", "2024-01-01", 1.114, domain.CategoryFoodDrinks, strPtr("Cafe")),
	}

	res := Aggregate(txs, 30)

	// 3.342 rounds to 3.34; per-item rounding first would give 3.33.
	if res.Categories[0].Amount != 3.34 {
		t.Errorf("food bucket = %v, want 3.34 (rounded once, after summing)", res.Categories[0].Amount)
	}
	if res.Merchants[0].Amount != 3.34 {
		t.Errorf("merchant total = %v, want 3.34", res.Merchants[0].Amount)
	}
}
