package model

// AccountInfo represents the identity the billing queries run as
type AccountInfo struct {
	Provider    string
	AccountID   string
	AccountName string
}
