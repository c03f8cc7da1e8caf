package response

// AccountInfo represents the identity cost queries run as
type AccountInfo struct {
	Provider    string `json:"provider"`
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
}

// AccountCost is one account's accumulated cost
type AccountCost struct {
	AccountID string  `json:"account_id"`
	Amount    float64 `json:"amount"`
}

// CostReport is a per-account cost total
type CostReport struct {
	Granularity string        `json:"granularity,omitempty"`
	StartDate   string        `json:"start_date,omitempty"`
	EndDate     string        `json:"end_date"`
	Accounts    []AccountCost `json:"accounts"`
	Total       float64       `json:"total"`
	Currency    string        `json:"currency"`
}

// DayCost is the cost for a single day
type DayCost struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// AccountDailyCost lists an account's cost day by day
type AccountDailyCost struct {
	AccountID string    `json:"account_id"`
	Days      []DayCost `json:"days"`
	Total     float64   `json:"total"`
}

// DailyCosts is the outcome of a daily fetch. Accounts in MissingAccounts
// could not be fetched and have unknown cost.
type DailyCosts struct {
	StartDate       string             `json:"start_date"`
	EndDate         string             `json:"end_date"`
	Accounts        []AccountDailyCost `json:"accounts"`
	MissingAccounts []string           `json:"missing_accounts"`
	FailedBatches   int                `json:"failed_batches"`
	Currency        string             `json:"currency"`
}
