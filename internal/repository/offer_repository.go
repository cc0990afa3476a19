package repository

import (
	"context"
	"errors"
	"fmt"

	"bank-offers/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

const offerColumns = `
	offer_id, title, description, bank_name, discount_type, discount_value,
	min_amount, max_discount, payment_instruments, valid_from, valid_till,
	is_active, created_at, updated_at`

// offerRepository implements OfferRepository using PostgreSQL.
type offerRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOfferRepository creates a new PostgreSQL-backed offer repository.
func NewOfferRepository(pool *pgxpool.Pool, logger zerolog.Logger) OfferRepository {
	return &offerRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "offer").Logger(),
	}
}

func scanOffer(row pgx.Row) (model.Offer, error) {
	var (
		o            model.Offer
		discountType string
		instruments  []string
	)

	err := row.Scan(
		&o.OfferID,
		&o.Title,
		&o.Description,
		&o.BankName,
		&discountType,
		&o.DiscountValue,
		&o.MinAmount,
		&o.MaxDiscount,
		&instruments,
		&o.ValidFrom,
		&o.ValidTill,
		&o.IsActive,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return model.Offer{}, err
	}

	o.DiscountType = model.DiscountType(discountType)
	o.PaymentInstruments = model.InstrumentsFromTokens(instruments)

	return o, nil
}

// FindByCriteria returns active, currently valid offers matching criteria.
func (r *offerRepository) FindByCriteria(ctx context.Context, criteria model.OfferCriteria) ([]model.Offer, error) {
	query := `
		SELECT ` + offerColumns + `
		FROM offers
		WHERE is_active = TRUE
		  AND (valid_from IS NULL OR valid_from <= NOW())
		  AND (valid_till IS NULL OR valid_till >= NOW())
		  AND ($1::text = '' OR bank_name = $1::text)
		  AND ($2::numeric IS NULL OR min_amount <= $2::numeric)
		  AND ($3::text IS NULL OR cardinality(payment_instruments) = 0 OR $3::text = ANY(payment_instruments))
		ORDER BY discount_value DESC, id ASC
	`

	var instrument *string
	if criteria.PaymentInstrument != nil {
		token := criteria.PaymentInstrument.Token()
		instrument = &token
	}

	rows, err := r.pool.Query(ctx, query, criteria.BankName, criteria.MinAmount, instrument)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("bank_name", criteria.BankName).
			Msg("failed to query offers")
		return nil, fmt.Errorf("failed to query offers: %w", err)
	}
	defer rows.Close()

	offers := []model.Offer{}
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan offer row")
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		offers = append(offers, o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating offer rows")
		return nil, fmt.Errorf("error iterating offers: %w", err)
	}

	r.logger.Debug().
		Str("bank_name", criteria.BankName).
		Int("count", len(offers)).
		Msg("offers found")

	return offers, nil
}

// BulkUpsert stores offers in one transaction, sent as a single batch.
func (r *offerRepository) BulkUpsert(ctx context.Context, offers []model.Offer) (model.UpsertResult, error) {
	var result model.UpsertResult
	if len(offers) == 0 {
		return result, nil
	}

	query := `
		INSERT INTO offers (
			offer_id, title, description, bank_name, discount_type, discount_value,
			min_amount, max_discount, payment_instruments, valid_from, valid_till, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (offer_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			bank_name = EXCLUDED.bank_name,
			discount_type = EXCLUDED.discount_type,
			discount_value = EXCLUDED.discount_value,
			min_amount = EXCLUDED.min_amount,
			max_discount = EXCLUDED.max_discount,
			payment_instruments = EXCLUDED.payment_instruments,
			valid_from = EXCLUDED.valid_from,
			valid_till = EXCLUDED.valid_till,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
		RETURNING (xmax = 0) AS inserted
	`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return result, fmt.Errorf("%w: failed to begin transaction: %w", model.ErrStoreFailure, err)
	}

	batch := &pgx.Batch{}
	for _, o := range offers {
		batch.Queue(query,
			o.OfferID,
			o.Title,
			o.Description,
			o.BankName,
			string(o.DiscountType),
			o.DiscountValue,
			o.MinAmount,
			o.MaxDiscount,
			model.TokensFromInstruments(o.PaymentInstruments),
			o.ValidFrom,
			o.ValidTill,
			o.IsActive,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for i := range offers {
		var inserted bool
		if err := results.QueryRow().Scan(&inserted); err != nil {
			r.logger.Error().
				Err(err).
				Str("offer_id", offers[i].OfferID).
				Msg("failed to upsert offer")
			err = multierr.Append(fmt.Errorf("failed to upsert offer %s: %w", offers[i].OfferID, err), results.Close())
			return model.UpsertResult{}, r.rollback(ctx, tx, err)
		}
		if inserted {
			result.SavedCount++
		} else {
			result.UpdatedCount++
		}
	}

	if err := results.Close(); err != nil {
		return model.UpsertResult{}, r.rollback(ctx, tx, fmt.Errorf("failed to close batch: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to commit offer upsert")
		return model.UpsertResult{}, r.rollback(ctx, tx, fmt.Errorf("failed to commit transaction: %w", err))
	}

	r.logger.Info().
		Int("saved", result.SavedCount).
		Int("updated", result.UpdatedCount).
		Msg("offers upserted")

	return result, nil
}

// rollback aborts tx and reports cause as a store failure.
func (r *offerRepository) rollback(ctx context.Context, tx pgx.Tx, cause error) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.Error().Err(err).Msg("failed to roll back transaction")
		cause = multierr.Append(cause, fmt.Errorf("rollback: %w", err))
	}
	return fmt.Errorf("%w: %w", model.ErrStoreFailure, cause)
}

// Deactivate marks an offer inactive.
func (r *offerRepository) Deactivate(ctx context.Context, offerID string) error {
	query := `
		UPDATE offers
		SET is_active = FALSE, updated_at = NOW()
		WHERE offer_id = $1
	`

	tag, err := r.pool.Exec(ctx, query, offerID)
	if err != nil {
		r.logger.Error().Err(err).Str("offer_id", offerID).Msg("failed to deactivate offer")
		return fmt.Errorf("failed to deactivate offer: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug().Str("offer_id", offerID).Msg("offer not found")
		return model.ErrOfferNotFound
	}

	r.logger.Info().Str("offer_id", offerID).Msg("offer deactivated")

	return nil
}

// Update changes the non-nil fields of update.
func (r *offerRepository) Update(ctx context.Context, offerID string, update model.OfferUpdate) (*model.Offer, error) {
	query := `
		UPDATE offers SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			discount_value = COALESCE($4, discount_value),
			min_amount = COALESCE($5, min_amount),
			max_discount = COALESCE($6, max_discount),
			valid_till = COALESCE($7, valid_till),
			is_active = COALESCE($8, is_active),
			updated_at = NOW()
		WHERE offer_id = $1
		RETURNING ` + offerColumns

	row := r.pool.QueryRow(ctx, query,
		offerID,
		update.Title,
		update.Description,
		nullableDecimal(update.DiscountValue),
		nullableDecimal(update.MinAmount),
		nullableDecimal(update.MaxDiscount),
		update.ValidTill,
		update.IsActive,
	)

	o, err := scanOffer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("offer_id", offerID).Msg("offer not found")
			return nil, model.ErrOfferNotFound
		}
		r.logger.Error().Err(err).Str("offer_id", offerID).Msg("failed to update offer")
		return nil, fmt.Errorf("failed to update offer: %w", err)
	}

	r.logger.Info().Str("offer_id", offerID).Msg("offer updated")

	return &o, nil
}

func nullableDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

// Stats aggregates the active offers per bank, busiest bank first.
func (r *offerRepository) Stats(ctx context.Context) (*model.OfferStats, error) {
	query := `
		SELECT
			bank_name,
			COUNT(*) AS offer_count,
			ROUND(AVG(discount_value), 2) AS avg_discount,
			MAX(discount_value) AS max_discount,
			MIN(min_amount) AS min_threshold
		FROM offers
		WHERE is_active = TRUE
		GROUP BY bank_name
		ORDER BY offer_count DESC, bank_name ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query offer stats")
		return nil, fmt.Errorf("failed to query offer stats: %w", err)
	}
	defer rows.Close()

	stats := &model.OfferStats{BankStats: []model.BankStats{}}
	for rows.Next() {
		var s model.BankStats
		if err := rows.Scan(&s.BankName, &s.OfferCount, &s.AverageDiscount, &s.MaxDiscount, &s.MinThreshold); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan offer stats row")
			return nil, fmt.Errorf("failed to scan offer stats: %w", err)
		}
		stats.TotalOffers += s.OfferCount
		stats.BankStats = append(stats.BankStats, s)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating offer stats rows")
		return nil, fmt.Errorf("error iterating offer stats: %w", err)
	}

	return stats, nil
}
