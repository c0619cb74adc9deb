package indexer

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"github.com/imotstat/go-estate-crawler/internal/domain"
)

// PostgresIndexer indexes listings to PostgreSQL.
type PostgresIndexer struct {
	db        *sql.DB
	tableName string
	log       *slog.Logger
}

// NewPostgresIndexer opens a connection, verifies it and ensures the listings
// table exists.
func NewPostgresIndexer(connStr string, tableName string, log *slog.Logger) (*PostgresIndexer, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if log == nil {
		log = slog.Default()
	}

	indexer := &PostgresIndexer{
		db:        db,
		tableName: tableName,
		log:       log,
	}

	if err := indexer.ensureTable(); err != nil {
		return nil, fmt.Errorf("ensure table: %w", err)
	}

	return indexer, nil
}

func (i *PostgresIndexer) ensureTable() error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			site TEXT NOT NULL,
			search_url TEXT,
			details_url TEXT,
			price DOUBLE PRECISION,
			original_currency TEXT,
			price_per_m2 DOUBLE PRECISION,
			without_vat BOOLEAN DEFAULT FALSE,
			city TEXT,
			neighborhood TEXT,
			offer_type TEXT,
			property_type TEXT,
			area DOUBLE PRECISION,
			floor TEXT,
			total_floors TEXT,
			raw_title TEXT,
			raw_description TEXT,
			agency TEXT,
			agency_url TEXT,
			num_photos INTEGER DEFAULT 0,
			ref_no TEXT,
			date_time_added TIMESTAMP WITH TIME ZONE,
			total_offers INTEGER DEFAULT 0,
			fingerprint_hash TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`, i.tableName)

	if _, err := i.db.Exec(query); err != nil {
		return err
	}

	indexQuery := fmt.Sprintf(
		`CREATE INDEX IF NOT EXISTS %s_fingerprint_idx ON %s (fingerprint_hash)`,
		i.tableName, i.tableName)
	_, err := i.db.Exec(indexQuery)
	return err
}

const upsertColumns = `
		id, site, search_url, details_url,
		price, original_currency, price_per_m2, without_vat,
		city, neighborhood, offer_type, property_type,
		area, floor, total_floors,
		raw_title, raw_description,
		agency, agency_url, num_photos, ref_no,
		date_time_added, total_offers, fingerprint_hash, updated_at`

const upsertConflict = `
	ON CONFLICT (id) DO UPDATE SET
		price = EXCLUDED.price,
		original_currency = EXCLUDED.original_currency,
		price_per_m2 = EXCLUDED.price_per_m2,
		without_vat = EXCLUDED.without_vat,
		city = EXCLUDED.city,
		neighborhood = EXCLUDED.neighborhood,
		offer_type = EXCLUDED.offer_type,
		property_type = EXCLUDED.property_type,
		area = EXCLUDED.area,
		floor = EXCLUDED.floor,
		total_floors = EXCLUDED.total_floors,
		raw_title = EXCLUDED.raw_title,
		raw_description = EXCLUDED.raw_description,
		agency = EXCLUDED.agency,
		agency_url = EXCLUDED.agency_url,
		num_photos = EXCLUDED.num_photos,
		total_offers = EXCLUDED.total_offers,
		fingerprint_hash = EXCLUDED.fingerprint_hash,
		updated_at = NOW()`

func (i *PostgresIndexer) upsertQuery() string {
	return fmt.Sprintf(`
		INSERT INTO %s (%s) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10, $11, $12,
			$13, $14, $15,
			$16, $17,
			$18, $19, $20, $21,
			$22, $23, $24, NOW()
		)%s`, i.tableName, upsertColumns, upsertConflict)
}

func upsertArgs(l *domain.ListingData) []any {
	return []any{
		docID(l), l.Site, l.SearchURL, l.DetailsURL,
		l.Price, l.OriginalCurrency, l.PricePerM2, l.WithoutVAT,
		l.City, l.Neighborhood, l.OfferType, l.PropertyType,
		l.Area, l.Floor, l.TotalFloors,
		l.RawTitle, l.RawDescription,
		l.Agency, l.AgencyURL, l.NumPhotos, l.RefNo,
		l.DateTimeAdded, l.TotalOffers, l.FingerprintHash,
	}
}

// Index upserts a single listing.
func (i *PostgresIndexer) Index(ctx context.Context, listing *domain.ListingData) error {
	_, err := i.db.ExecContext(ctx, i.upsertQuery(), upsertArgs(listing)...)
	return err
}

// BulkIndex upserts multiple listings inside one transaction. A failing row
// is logged and skipped so the rest of the batch still commits.
func (i *PostgresIndexer) BulkIndex(ctx context.Context, listings []*domain.ListingData) error {
	if len(listings) == 0 {
		return nil
	}

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, i.upsertQuery())
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, listing := range listings {
		if _, err := stmt.ExecContext(ctx, upsertArgs(listing)...); err != nil {
			i.log.Warn("index listing", "id", docID(listing), "err", err)
			continue
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (i *PostgresIndexer) Close() error {
	return i.db.Close()
}
