package models

// AllModels returns every persisted model in migration order
// (referenced tables before referencing tables)
func AllModels() []any {
	return []any{
		&Package{},
		&User{},
		&Subscription{},
		&ServicePurchase{},
		&Invoice{},
		&InvoiceItem{},
		&RemainingUses{},
		&PackageChangeRequest{},
		&Problem{},
		&AgentIntentLog{},
	}
}
