package domain

import (
	"time"
)

// Transaction is the engine's canonical transaction shape, independent of the
// upstream banking source. Amount keeps the upstream sign convention exactly
// as received: positive is an expense (money out), negative is a credit
// (money in). The sign is never flipped anywhere in the engine.
type Transaction struct {
	ID           string  `json:"transaction_id"`
	AccountID    string  `json:"account_id"`
	Date         string  `json:"date"` // calendar day, "2006-01-02", no time component
	Name         *string `json:"name"`
	Amount       float64 `json:"amount"`
	CurrencyCode *string `json:"iso_currency_code"`
	AccountLabel *string `json:"account_label"`
	AccountMask  *string `json:"mask"`
	Pending      bool    `json:"pending"`

	// Classification hints carried from upstream. Not part of the feed
	// response; the classifier includes them in its batch payload.
	MerchantName   *string  `json:"-"`
	SourceCategory []string `json:"-"`
}

// DayFormat is the calendar-day layout used for transaction dates and the
// banking API's date window parameters.
const DayFormat = "2006-01-02"

// ParseDay parses a calendar day in DayFormat.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DayFormat, s)
}

// ClassifiedTransaction is a Transaction plus exactly one spending category.
type ClassifiedTransaction struct {
	Transaction
	Category Category `json:"category"`
}

// Category is one of the five closed classification labels. Any label outside
// this set collapses to CategoryOther.
type Category string

const (
	CategoryFoodDrinks         Category = "Food & Drinks"
	CategoryTransportTravel    Category = "Transport & Travel"
	CategoryShoppingLifestyle  Category = "Shopping & Lifestyle"
	CategoryBillsSubscriptions Category = "Bills & Subscriptions"
	CategoryOther              Category = "Other"
)

// Categories returns the closed label set in its fixed order.
func Categories() []Category {
	return []Category{
		CategoryFoodDrinks,
		CategoryTransportTravel,
		CategoryShoppingLifestyle,
		CategoryBillsSubscriptions,
		CategoryOther,
	}
}

// ParseCategory maps a label string onto the closed set. The second return is
// false for anything outside the set, including empty strings.
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategoryFoodDrinks,
		CategoryTransportTravel,
		CategoryShoppingLifestyle,
		CategoryBillsSubscriptions,
		CategoryOther:
		return Category(s), true
	}
	return CategoryOther, false
}
