// Package mockup hosts a local stand-in for the Up API: the same paginated
// listing shape (data + links.next), the same bearer-token ping, and the same
// filter[since] handling, backed by seeded in-memory fixtures. upsyncd points
// at it via UP_API_BASE_URL in non-production environments, and the engine's
// tests run against it over httptest.
package mockup

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultPageSize = 20

// AccountFixture seeds one account listing record.
type AccountFixture struct {
	ID            string
	DisplayName   string
	AccountType   string
	OwnershipType string
	Value         string
	ValueBase     int64
	Currency      string
	CreatedAt     time.Time
}

// TransactionFixture seeds one transaction record for an account.
type TransactionFixture struct {
	ID            string
	Status        string
	RawText       *string
	Description   string
	Message       *string
	Categorizable bool
	Value         string
	ValueBase     int64
	Currency      string
	CardSuffix    *string
	SettledAt     *time.Time
	CreatedAt     time.Time
}

// Server is an in-memory mock Up API.
type Server struct {
	token    string
	pageSize int

	mu           sync.Mutex
	accounts     []AccountFixture
	transactions map[string][]TransactionFixture
	sinceByAcct  map[string]string
	accountCalls int
}

// ServerOption configures the mock server.
type ServerOption func(*Server)

// WithPageSize overrides the listing page size.
func WithPageSize(n int) ServerOption {
	return func(s *Server) {
		s.pageSize = n
	}
}

// NewServer creates a mock API that accepts the given bearer token.
func NewServer(token string, options ...ServerOption) *Server {
	s := &Server{
		token:        token,
		pageSize:     defaultPageSize,
		transactions: make(map[string][]TransactionFixture),
		sinceByAcct:  make(map[string]string),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// SeedAccount adds an account fixture.
func (s *Server) SeedAccount(a AccountFixture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = append(s.accounts, a)
}

// ReplaceAccount overwrites the account fixture with the same ID, modelling
// the upstream record changing between syncs.
func (s *Server) ReplaceAccount(a AccountFixture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID == a.ID {
			s.accounts[i] = a
			return
		}
	}
	s.accounts = append(s.accounts, a)
}

// SeedTransaction adds a transaction fixture under the given account.
func (s *Server) SeedTransaction(accountID string, t TransactionFixture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[accountID] = append(s.transactions[accountID], t)
}

// SinceFor returns the filter[since] value the server last received for the
// account, or "" when its transactions were never requested.
func (s *Server) SinceFor(accountID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sinceByAcct[accountID]
}

// AccountListCalls reports how many times the account listing was requested.
func (s *Server) AccountListCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accountCalls
}

// Router builds the gin engine serving the mock API.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.authMiddleware())

	router.GET("/util/ping", s.handlePing)
	router.GET("/accounts", s.handleAccounts)
	router.GET("/accounts/:accountID/transactions", s.handleTransactions)

	return router
}

func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Bearer "+s.token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"errors": []gin.H{{"status": "401", "title": "Not Authorized"}},
			})
			return
		}
		c.Next()
	}
}

func (s *Server) handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"meta": gin.H{"statusEmoji": "⚡️"},
	})
}

func (s *Server) handleAccounts(c *gin.Context) {
	s.mu.Lock()
	s.accountCalls++
	accounts := make([]AccountFixture, len(s.accounts))
	copy(accounts, s.accounts)
	s.mu.Unlock()

	records := make([]gin.H, 0, len(accounts))
	for _, a := range accounts {
		records = append(records, gin.H{
			"type": "accounts",
			"id":   a.ID,
			"attributes": gin.H{
				"displayName":   a.DisplayName,
				"accountType":   a.AccountType,
				"ownershipType": a.OwnershipType,
				"balance": gin.H{
					"currencyCode":     a.Currency,
					"value":            a.Value,
					"valueInBaseUnits": a.ValueBase,
				},
				"createdAt": a.CreatedAt.Format(time.RFC3339),
			},
		})
	}

	s.respondPage(c, records, nil)
}

func (s *Server) handleTransactions(c *gin.Context) {
	accountID := c.Param("accountID")

	s.mu.Lock()
	fixtures, ok := s.transactions[accountID]
	if !ok {
		// A seeded account with no transactions lists as empty.
		for _, a := range s.accounts {
			if a.ID == accountID {
				ok = true
				break
			}
		}
	}
	if since := c.Query("filter[since]"); since != "" {
		s.sinceByAcct[accountID] = since
	}
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"errors": []gin.H{{"status": "404", "title": "Record Not Found"}},
		})
		return
	}

	var since *time.Time
	if raw := c.Query("filter[since]"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"errors": []gin.H{{"status": "400", "title": "Invalid filter[since]"}},
			})
			return
		}
		since = &parsed
	}

	matched := make([]TransactionFixture, 0, len(fixtures))
	for _, t := range fixtures {
		if since != nil && t.CreatedAt.Before(*since) {
			continue
		}
		matched = append(matched, t)
	}
	// Up lists transactions newest first.
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	records := make([]gin.H, 0, len(matched))
	for _, t := range matched {
		attrs := gin.H{
			"status":          t.Status,
			"rawText":         t.RawText,
			"description":     t.Description,
			"message":         t.Message,
			"isCategorizable": t.Categorizable,
			"amount": gin.H{
				"currencyCode":     t.Currency,
				"value":            t.Value,
				"valueInBaseUnits": t.ValueBase,
			},
			"settledAt": t.SettledAt,
			"createdAt": t.CreatedAt.Format(time.RFC3339),
		}
		if t.CardSuffix != nil {
			attrs["cardPurchaseMethod"] = gin.H{
				"method":           "CARD_PIN",
				"cardNumberSuffix": *t.CardSuffix,
			}
		} else {
			attrs["cardPurchaseMethod"] = nil
		}
		records = append(records, gin.H{
			"type":       "transactions",
			"id":         t.ID,
			"attributes": attrs,
		})
	}

	// The next URL must carry the filter forward; clients follow it verbatim.
	var carry url.Values
	if since != nil {
		carry = url.Values{"filter[since]": {c.Query("filter[since]")}}
	}
	s.respondPage(c, records, carry)
}

// respondPage slices the records by page[offset] and renders the page with
// an absolute links.next URL, or a null next on the last page.
func (s *Server) respondPage(c *gin.Context, records []gin.H, carry url.Values) {
	offset, _ := strconv.Atoi(c.Query("page[offset]"))
	if offset < 0 || offset > len(records) {
		offset = len(records)
	}

	end := offset + s.pageSize
	if end > len(records) {
		end = len(records)
	}

	var next *string
	if end < len(records) {
		params := url.Values{}
		for k, vs := range carry {
			params[k] = vs
		}
		params.Set("page[offset]", strconv.Itoa(end))
		u := fmt.Sprintf("http://%s%s?%s", c.Request.Host, c.Request.URL.Path, params.Encode())
		next = &u
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  records[offset:end],
		"links": gin.H{"next": next},
	})
}
