package ds

const (
	CurrencyUSD = "USD"
	CurrencyCOP = "COP"
	CurrencyEUR = "EUR"

	BillingMonthly = "monthly"
	BillingYearly  = "yearly"
	BillingOneTime = "one-time"

	SupportBasic    = "básico"
	SupportPriority = "prioritario"
	SupportAllDay   = "24/7"
)

// CorporatePlan - pricing plan for companies
type CorporatePlan struct {
	Meta
	Name          string   `json:"name" binding:"required"`
	Price         float64  `json:"price" binding:"gte=0"`
	Currency      string   `json:"currency" binding:"required,oneof=USD COP EUR"`
	BillingPeriod string   `json:"billingPeriod" binding:"required,oneof=monthly yearly one-time"`
	Description   string   `json:"description" binding:"required"`
	Features      []string `json:"features"`
	Recommended   bool     `json:"recommended"`
	IsActive      bool     `json:"isActive"`
	MaxUsers      int      `json:"maxUsers" binding:"gte=0"`
	Support       string   `json:"support" binding:"required,oneof=básico prioritario 24/7"`
}
