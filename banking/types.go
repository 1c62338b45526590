package banking

import "time"

// Account is a customer account as the backend returns it.
type Account struct {
	AccountID   string    `json:"accountId"`
	AccountType string    `json:"accountType"`
	Balance     float64   `json:"balance"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewAccount is the create-account request body.
type NewAccount struct {
	Type     string `json:"type"`
	Currency string `json:"currency"`
}

// Transaction is a ledger entry on an account.
type Transaction struct {
	TransactionID string    `json:"transactionId"`
	Type          string    `json:"type"` // DEPOSIT, WITHDRAWAL, TRANSFER
	Amount        float64   `json:"amount"`
	Description   string    `json:"description"`
	Date          time.Time `json:"date"`
	AccountID     string    `json:"accountId"`
}

// NewTransaction is the create-transaction request body.
type NewTransaction struct {
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	AccountID   string  `json:"accountId"`
}

// TransactionQuery filters the transaction listing. Zero values are omitted
// from the request.
type TransactionQuery struct {
	AccountID string
	StartDate string
	EndDate   string
	Limit     int
}

// Loan is a loan application and its repayment state.
type Loan struct {
	ID               int64   `json:"id"`
	LoanAmount       float64 `json:"loanAmount"`
	LoanType         string  `json:"loanType"`
	InterestRate     float64 `json:"interestRate"`
	DurationInMonths int     `json:"durationInMonths"`
	MonthlyPayment   float64 `json:"monthlyPayment"`
	RemainingAmount  float64 `json:"remainingAmount"`
	Status           string  `json:"status"` // PENDING, APPROVED, REJECTED, PAID
}

// LoanApplication is the apply-for-loan request body.
type LoanApplication struct {
	LoanAmount       float64 `json:"loanAmount"`
	LoanType         string  `json:"loanType"`
	DurationInMonths int     `json:"durationInMonths"`
}

// SavingsGoal is a savings target and its progress.
type SavingsGoal struct {
	GoalID        int64   `json:"goalId"`
	GoalName      string  `json:"goalName"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentAmount float64 `json:"currentAmount"`
	TargetDate    string  `json:"targetDate"`
}

// NewSavingsGoal is the create/update savings-goal request body.
type NewSavingsGoal struct {
	GoalName     string  `json:"goalName"`
	TargetAmount float64 `json:"targetAmount"`
	TargetDate   string  `json:"targetDate"`
}
