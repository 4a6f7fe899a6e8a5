package asset

import (
    "strings"

    "github.com/shopspring/decimal"
)

// Category classifies an asset for valuation purposes. The display strings
// double as the wire values used by the API and the advisor prompts.
type Category string

const (
    Cash        Category = "Cash & Bank"
    Equity      Category = "Equity (Stocks)"
    MutualFunds Category = "Mutual Funds"
    FixedIncome Category = "Fixed Income"
    RealEstate  Category = "Real Estate"
    Vehicles    Category = "Vehicles"
    Crypto      Category = "Crypto"
    Other       Category = "Other Assets"
)

// MarketLinked reports whether a category has a resolvable market price.
// Everything else is valued manually by the user.
func (c Category) MarketLinked() bool {
    switch c {
    case Equity, MutualFunds, FixedIncome, Crypto:
        return true
    }
    return false
}

// categoryAliases maps common short spellings to canonical categories.
var categoryAliases = map[string]Category{
    "cash":         Cash,
    "cash & bank":  Cash,
    "equity":       Equity,
    "stocks":       Equity,
    "equity (stocks)": Equity,
    "mf":           MutualFunds,
    "mutual fund":  MutualFunds,
    "mutual funds": MutualFunds,
    "fixed income": FixedIncome,
    "bonds":        FixedIncome,
    "real estate":  RealEstate,
    "vehicles":     Vehicles,
    "crypto":       Crypto,
    "other":        Other,
    "other assets": Other,
}

// ParseCategory resolves a user-supplied category string, case-insensitively.
func ParseCategory(s string) (Category, bool) {
    c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(s))]
    return c, ok
}

// LiabilityCategory classifies a liability.
type LiabilityCategory string

const (
    HomeLoan       LiabilityCategory = "Home Loan"
    PersonalLoan   LiabilityCategory = "Personal Loan"
    CreditCard     LiabilityCategory = "Credit Card"
    CarLoan        LiabilityCategory = "Car Loan"
    EducationLoan  LiabilityCategory = "Education Loan"
    OtherLiability LiabilityCategory = "Other Liabilities"
)

// Asset is a single holding in the user's profile.
type Asset struct {
    ID          string          `json:"id"`
    Name        string          `json:"name"`
    Category    Category        `json:"category"`
    Value       decimal.Decimal `json:"value"`
    Quantity    decimal.Decimal `json:"quantity,omitempty"`
    Ticker      string          `json:"ticker,omitempty"`
    Exchange    string          `json:"exchange,omitempty"`
    NAVDate     string          `json:"nav_date,omitempty"`
    CostBasis   decimal.Decimal `json:"cost_basis,omitempty"`
    LastUpdated string          `json:"last_updated,omitempty"`
    PriceSource string          `json:"price_source,omitempty"` // manual | api | ai
}

// Liability is a single debt in the user's profile.
type Liability struct {
    ID                    string            `json:"id"`
    Name                  string            `json:"name"`
    Category              LiabilityCategory `json:"category"`
    OutstandingAmount     decimal.Decimal   `json:"outstanding_amount"`
    InterestRate          decimal.Decimal   `json:"interest_rate"`
    MonthlyPayment        decimal.Decimal   `json:"monthly_payment"`
    TenureMonthsRemaining int               `json:"tenure_months_remaining,omitempty"`
}

// Profile aggregates the user's financial position. Storage of the profile
// is owned by the caller; this is only the shape consumed by the advisor
// and the batch refresh endpoint.
type Profile struct {
    UserName        string          `json:"user_name,omitempty"`
    Currency        string          `json:"currency,omitempty"`
    MonthlyIncome   decimal.Decimal `json:"monthly_income"`
    MonthlyExpenses decimal.Decimal `json:"monthly_expenses"`
    Assets          []Asset         `json:"assets"`
    Liabilities     []Liability     `json:"liabilities"`
}

// NetWorth is total asset value minus total outstanding liabilities.
func (p Profile) NetWorth() decimal.Decimal {
    nw := decimal.Zero
    for _, a := range p.Assets {
        nw = nw.Add(a.Value)
    }
    for _, l := range p.Liabilities {
        nw = nw.Sub(l.OutstandingAmount)
    }
    return nw
}

// MonthlySurplus is income minus expenses.
func (p Profile) MonthlySurplus() decimal.Decimal {
    return p.MonthlyIncome.Sub(p.MonthlyExpenses)
}
