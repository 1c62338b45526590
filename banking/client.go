package banking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Client is the typed surface over the FinovaBank REST API. Every call goes
// through the gateway-equipped HTTP client, so requests carry the bearer
// token and a 401 feeds straight back into the session manager. Client adds
// no auth logic of its own.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// New creates a banking client rooted at baseURL using httpClient, which
// must be the gateway-equipped client.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("[banking.New] invalid base URL %q: %w", baseURL, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: u, http: httpClient}, nil
}

// APIError is a non-2xx verdict from the banking API, carrying the server
// message when one was provided.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("banking api: %d %s", e.StatusCode, e.Message)
}

// Accounts lists the signed-in user's accounts.
func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	var out []Account
	err := c.do(ctx, http.MethodGet, "/accounts", nil, &out)
	return out, err
}

// Account fetches a single account.
func (c *Client) Account(ctx context.Context, accountID string) (*Account, error) {
	var out Account
	if err := c.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(accountID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAccount opens a new account.
func (c *Client) CreateAccount(ctx context.Context, acc NewAccount) (*Account, error) {
	var out Account
	if err := c.do(ctx, http.MethodPost, "/accounts", acc, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Transactions lists transactions matching the query.
func (c *Client) Transactions(ctx context.Context, q TransactionQuery) ([]Transaction, error) {
	path := "/transactions"
	if params := q.encode(); params != "" {
		path += "?" + params
	}
	var out []Transaction
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// CreateTransaction records a deposit, withdrawal, or transfer.
func (c *Client) CreateTransaction(ctx context.Context, tx NewTransaction) (*Transaction, error) {
	var out Transaction
	if err := c.do(ctx, http.MethodPost, "/transactions", tx, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Loans lists the user's loans.
func (c *Client) Loans(ctx context.Context) ([]Loan, error) {
	var out []Loan
	err := c.do(ctx, http.MethodGet, "/loans", nil, &out)
	return out, err
}

// Loan fetches a single loan.
func (c *Client) Loan(ctx context.Context, loanID string) (*Loan, error) {
	var out Loan
	if err := c.do(ctx, http.MethodGet, "/loans/"+url.PathEscape(loanID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ApplyForLoan submits a loan application.
func (c *Client) ApplyForLoan(ctx context.Context, app LoanApplication) (*Loan, error) {
	var out Loan
	if err := c.do(ctx, http.MethodPost, "/loans", app, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SavingsGoals lists the user's savings goals.
func (c *Client) SavingsGoals(ctx context.Context) ([]SavingsGoal, error) {
	var out []SavingsGoal
	err := c.do(ctx, http.MethodGet, "/savings", nil, &out)
	return out, err
}

// CreateSavingsGoal creates a savings goal.
func (c *Client) CreateSavingsGoal(ctx context.Context, goal NewSavingsGoal) (*SavingsGoal, error) {
	var out SavingsGoal
	if err := c.do(ctx, http.MethodPost, "/savings", goal, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSavingsGoal updates a savings goal.
func (c *Client) UpdateSavingsGoal(ctx context.Context, goalID int64, goal NewSavingsGoal) (*SavingsGoal, error) {
	var out SavingsGoal
	path := "/savings/" + strconv.FormatInt(goalID, 10)
	if err := c.do(ctx, http.MethodPut, path, goal, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSavingsGoal removes a savings goal.
func (c *Client) DeleteSavingsGoal(ctx context.Context, goalID int64) error {
	return c.do(ctx, http.MethodDelete, "/savings/"+strconv.FormatInt(goalID, 10), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var msg struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil || msg.Message == "" {
			msg.Message = resp.Status
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg.Message}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
	}
	return nil
}

func (q TransactionQuery) encode() string {
	params := url.Values{}
	if q.AccountID != "" {
		params.Set("accountId", q.AccountID)
	}
	if q.StartDate != "" {
		params.Set("startDate", q.StartDate)
	}
	if q.EndDate != "" {
		params.Set("endDate", q.EndDate)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	return params.Encode()
}
