// Package search mirrors accounts into Elasticsearch for admin lookups.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/signal-subscription/internal/domain/entity"
	"github.com/oksasatya/signal-subscription/internal/domain/repository"
)

const requestTimeout = 3 * time.Second

type AccountIndex struct {
	es    *elasticsearch.Client
	index string
}

var _ repository.AccountSearch = (*AccountIndex)(nil)

func NewAccountIndex(es *elasticsearch.Client, index string) *AccountIndex {
	return &AccountIndex{es: es, index: index}
}

func document(a *entity.Account) repository.AccountHit {
	hit := repository.AccountHit{
		ID:            a.ID,
		Name:          a.Name,
		Email:         a.Email,
		Role:          string(a.Role),
		TradingViewID: a.TradingViewID,
	}
	if a.ActivePlan != nil {
		end := a.ActivePlan.EndDate
		hit.PlanID = a.ActivePlan.PlanID
		hit.PlanEndDate = &end
	}
	return hit
}

// Index upserts the account document.
func (x *AccountIndex) Index(ctx context.Context, a *entity.Account) error {
	b, err := json.Marshal(document(a))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.index, DocumentID: a.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return fmt.Errorf("es index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

// Search performs a simple multi_match search on email, name and tradingview id.
func (x *AccountIndex) Search(ctx context.Context, q string, size int) ([]repository.AccountHit, error) {
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "name", "tradingViewId"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Search(
		x.es.Search.WithContext(c),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, fmt.Errorf("es search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string                `json:"_id"`
				Source repository.AccountHit `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]repository.AccountHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hit := h.Source
		if hit.ID == "" {
			hit.ID = h.ID
		}
		out = append(out, hit)
	}
	return out, nil
}
