package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/imotstat/go-estate-crawler/internal/domain"
)

// ElasticsearchIndexer indexes listings to Elasticsearch.
type ElasticsearchIndexer struct {
	client    *elasticsearch.Client
	indexName string
	log       *slog.Logger
}

// NewElasticsearchIndexer creates an Elasticsearch indexer and verifies the
// cluster is reachable.
func NewElasticsearchIndexer(addresses []string, indexName string, log *slog.Logger) (*ElasticsearchIndexer, error) {
	cfg := elasticsearch.Config{
		Addresses: addresses,
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create es client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("es info: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("es error: %s", res.Status())
	}

	if log == nil {
		log = slog.Default()
	}

	return &ElasticsearchIndexer{
		client:    client,
		indexName: indexName,
		log:       log,
	}, nil
}

// Index indexes a single listing.
func (i *ElasticsearchIndexer) Index(ctx context.Context, listing *domain.ListingData) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("marshal listing: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      i.indexName,
		DocumentID: docID(listing),
		Body:       bytes.NewReader(data),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("index request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index error: %s", res.Status())
	}

	return nil
}

// BulkIndex indexes multiple listings in one bulk request. Per-document
// failures are logged, not returned: one bad document must not sink the batch.
func (i *ElasticsearchIndexer) BulkIndex(ctx context.Context, listings []*domain.ListingData) error {
	if len(listings) == 0 {
		return nil
	}

	var buf bytes.Buffer

	for _, listing := range listings {
		meta := map[string]any{
			"index": map[string]any{
				"_index": i.indexName,
				"_id":    docID(listing),
			},
		}
		metaBytes, _ := json.Marshal(meta)
		buf.Write(metaBytes)
		buf.WriteByte('\n')

		docBytes, err := json.Marshal(listing)
		if err != nil {
			i.log.Warn("marshal listing", "id", docID(listing), "err", err)
			continue
		}
		buf.Write(docBytes)
		buf.WriteByte('\n')
	}

	res, err := i.client.Bulk(bytes.NewReader(buf.Bytes()), i.client.Bulk.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("bulk request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk error: %s", res.Status())
	}

	var bulkRes struct {
		Errors bool `json:"errors"`
		Items  []struct {
			Index struct {
				ID     string `json:"_id"`
				Status int    `json:"status"`
				Error  struct {
					Type   string `json:"type"`
					Reason string `json:"reason"`
				} `json:"error"`
			} `json:"index"`
		} `json:"items"`
	}

	if err := json.NewDecoder(res.Body).Decode(&bulkRes); err != nil {
		return fmt.Errorf("parse bulk response: %w", err)
	}

	if bulkRes.Errors {
		for _, item := range bulkRes.Items {
			if item.Index.Status >= 400 {
				i.log.Warn("bulk index error",
					"id", item.Index.ID,
					"type", item.Index.Error.Type,
					"reason", item.Index.Error.Reason)
			}
		}
	}

	return nil
}

// EnsureIndex creates the listings index if it does not exist. Bulgarian text
// gets a lowercase analyzer; canonical fields are keywords so aggregations by
// city, neighborhood and property type stay cheap.
func (i *ElasticsearchIndexer) EnsureIndex(ctx context.Context) error {
	res, err := i.client.Indices.Exists([]string{i.indexName})
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == 200 {
		return nil
	}

	mapping := `{
		"settings": {
			"analysis": {
				"analyzer": {
					"bulgarian_analyzer": {
						"type": "custom",
						"tokenizer": "standard",
						"filter": ["lowercase"]
					}
				}
			}
		},
		"mappings": {
			"properties": {
				"site": {"type": "keyword"},
				"search_url": {"type": "keyword"},
				"details_url": {"type": "keyword"},
				"price": {"type": "double"},
				"original_currency": {"type": "keyword"},
				"price_per_m2": {"type": "double"},
				"without_vat": {"type": "boolean"},
				"city": {"type": "keyword"},
				"neighborhood": {"type": "keyword"},
				"offer_type": {"type": "keyword"},
				"property_type": {"type": "keyword"},
				"area": {"type": "double"},
				"floor": {"type": "keyword"},
				"total_floors": {"type": "keyword"},
				"raw_title": {
					"type": "text",
					"analyzer": "bulgarian_analyzer",
					"fields": {"keyword": {"type": "keyword", "ignore_above": 256}}
				},
				"raw_description": {"type": "text", "analyzer": "bulgarian_analyzer"},
				"agency": {"type": "keyword"},
				"agency_url": {"type": "keyword"},
				"num_photos": {"type": "integer"},
				"ref_no": {"type": "keyword"},
				"date_time_added": {"type": "date"},
				"total_offers": {"type": "integer"},
				"fingerprint_hash": {"type": "keyword"}
			}
		}
	}`

	res, err = i.client.Indices.Create(
		i.indexName,
		i.client.Indices.Create.WithBody(bytes.NewReader([]byte(mapping))),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("create index error: %s", res.Status())
	}

	return nil
}
