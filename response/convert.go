package response

import (
	"maps"
	"slices"
	"sort"

	"github.com/elC0mpa/lease-cost/model"
)

const currency = "USD"

// ConvertAccountInfo converts model.AccountInfo to response.AccountInfo
func ConvertAccountInfo(info *model.AccountInfo) *AccountInfo {
	if info == nil {
		return nil
	}
	return &AccountInfo{
		Provider:    info.Provider,
		AccountID:   info.AccountID,
		AccountName: info.AccountName,
	}
}

// ConvertCostReport converts a report to its JSON form, accounts sorted by
// amount descending
func ConvertCostReport(report *model.CostReport, granularity model.Granularity, start, end string) *CostReport {
	if report == nil {
		return nil
	}

	accounts := make([]AccountCost, 0, report.Len())
	for _, id := range report.Accounts() {
		accounts = append(accounts, AccountCost{AccountID: id, Amount: report.GetCost(id)})
	}

	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].Amount > accounts[j].Amount
	})

	return &CostReport{
		Granularity: string(granularity),
		StartDate:   start,
		EndDate:     end,
		Accounts:    accounts,
		Total:       report.TotalCost(),
		Currency:    currency,
	}
}

// ConvertDailyCosts converts a daily fetch result, accounts and days sorted
func ConvertDailyCosts(result *model.DailyCostResult, start, end string) *DailyCosts {
	if result == nil {
		return nil
	}

	accounts := make([]AccountDailyCost, 0, len(result.Costs))
	for _, id := range slices.Sorted(maps.Keys(result.Costs)) {
		days := result.Costs[id]
		entry := AccountDailyCost{AccountID: id, Days: make([]DayCost, 0, len(days))}
		for _, date := range slices.Sorted(maps.Keys(days)) {
			entry.Days = append(entry.Days, DayCost{Date: date, Amount: days[date]})
			entry.Total += days[date]
		}
		accounts = append(accounts, entry)
	}

	missing := result.MissingAccounts()
	if missing == nil {
		missing = []string{}
	}

	return &DailyCosts{
		StartDate:       start,
		EndDate:         end,
		Accounts:        accounts,
		MissingAccounts: missing,
		FailedBatches:   len(result.FailedBatches),
		Currency:        currency,
	}
}
