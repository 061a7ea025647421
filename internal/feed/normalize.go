package feed

import (
	"github.com/globapay/txfeed/internal/banking"
	"github.com/globapay/txfeed/internal/domain"
)

// SubAccountIndex builds an account-id lookup for label/mask enrichment.
func SubAccountIndex(accounts []banking.Account) map[string]domain.SubAccount {
	index := make(map[string]domain.SubAccount, len(accounts))
	for _, a := range accounts {
		index[a.AccountID] = domain.SubAccount{
			AccountID: a.AccountID,
			Label:     accountLabel(a),
			Mask:      a.Mask,
		}
	}
	return index
}

// accountLabel picks the best available display label for an account.
func accountLabel(a banking.Account) string {
	for _, candidate := range []*string{a.Name, a.OfficialName, a.Subtype, a.Type} {
		if candidate != nil && *candidate != "" {
			return *candidate
		}
	}
	return "Account"
}

// Normalize maps one upstream record into the canonical shape. Pure function:
// missing optional fields stay nil, Pending defaults to false upstream, and
// the amount sign passes through untouched.
func Normalize(raw banking.RawTransaction, accounts map[string]domain.SubAccount) domain.Transaction {
	tx := domain.Transaction{
		ID:             raw.TransactionID,
		AccountID:      raw.AccountID,
		Date:           raw.Date,
		Name:           raw.Name,
		Amount:         raw.Amount,
		CurrencyCode:   raw.ISOCurrencyCode,
		Pending:        raw.Pending,
		MerchantName:   raw.MerchantName,
		SourceCategory: raw.Category,
	}
	if meta, ok := accounts[raw.AccountID]; ok {
		label := meta.Label
		tx.AccountLabel = &label
		tx.AccountMask = meta.Mask
	}
	return tx
}
