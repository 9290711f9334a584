package settleup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/SThor/spendform/pkg/models"
)

// Client talks to the SettleUp Firebase-style REST backend. It only reads:
// the engine needs the group's transaction history for the category
// autofill, nothing else.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *log.Logger
}

// Group is one shared-expense group the user belongs to.
type Group struct {
	ID   string
	Name string
}

func New(baseURL, token string, logger *log.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// Groups lists the groups the user is a member of, sorted by id so the
// first-group fallback is deterministic regardless of JSON map order.
func (c *Client) Groups(ctx context.Context, userID string) ([]Group, error) {
	var memberships map[string]json.RawMessage
	if err := c.get(ctx, fmt.Sprintf("userGroups/%s", userID), &memberships); err != nil {
		return nil, fmt.Errorf("failed to fetch user groups: %w", err)
	}

	ids := make([]string, 0, len(memberships))
	for id := range memberships {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	groups := make([]Group, 0, len(ids))
	for _, id := range ids {
		var detail struct {
			Name string `json:"name"`
		}
		if err := c.get(ctx, fmt.Sprintf("groups/%s", id), &detail); err != nil {
			c.logger.Warn("failed to fetch group detail", "group", id, "err", err)
			continue
		}
		groups = append(groups, Group{ID: id, Name: detail.Name})
	}
	return groups, nil
}

// PickGroup returns the group carrying the preferred name, falling back to
// the first group when no name matches or none is configured.
func PickGroup(groups []Group, preferred string) (Group, bool) {
	if len(groups) == 0 {
		return Group{}, false
	}
	if preferred != "" {
		for _, g := range groups {
			if g.Name == preferred {
				return g, true
			}
		}
	}
	return groups[0], true
}

// GroupTransactions fetches the group's expense history as (purpose,
// category) records, ordered by transaction id for deterministic output.
func (c *Client) GroupTransactions(ctx context.Context, groupID string) ([]models.GroupTransaction, error) {
	var raw map[string]struct {
		Purpose  string `json:"purpose"`
		Category string `json:"category"`
	}
	if err := c.get(ctx, fmt.Sprintf("transactions/%s", groupID), &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch group transactions: %w", err)
	}

	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	transactions := make([]models.GroupTransaction, 0, len(ids))
	for _, id := range ids {
		transactions = append(transactions, models.GroupTransaction{
			Purpose:  raw[id].Purpose,
			Category: raw[id].Category,
		})
	}
	return transactions, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	endpoint := fmt.Sprintf("%s/%s.json", c.baseURL, path)
	if c.token != "" {
		endpoint += "?auth=" + url.QueryEscape(c.token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
