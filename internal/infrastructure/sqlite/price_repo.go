package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"metalstats-service/internal/application"
	"metalstats-service/internal/domain"
	"metalstats-service/internal/infrastructure/logx"

	"go.uber.org/zap"
)

type PriceRepo struct{ db *DB }

func NewPriceRepo(db *DB) *PriceRepo { return &PriceRepo{db: db} }

func (r *PriceRepo) Get(ctx context.Context, date, base string, symbol domain.Metal, source string) (domain.SpotPrice, error) {
	const q = `
        SELECT rate, usd_per_oz, raw_json
        FROM spot_prices
        WHERE date=? AND base=? AND symbol=? AND source=?`
	out := domain.SpotPrice{Date: date, Base: base, Symbol: symbol, Source: source}
	var oz sql.NullFloat64
	err := r.db.SQL.QueryRowContext(ctx, q, date, base, string(symbol), source).Scan(&out.Rate, &oz, &out.Raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SpotPrice{}, application.ErrNotFound
	}
	if err != nil {
		return domain.SpotPrice{}, err
	}
	if oz.Valid {
		out.USDPerOz = &oz.Float64
	}
	return out, nil
}

func (r *PriceRepo) Upsert(ctx context.Context, p domain.SpotPrice) error {
	const up = `
        INSERT INTO spot_prices(date, base, symbol, rate, usd_per_oz, source, raw_json)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (date, base, symbol, source) DO UPDATE
          SET rate=excluded.rate, usd_per_oz=excluded.usd_per_oz, raw_json=excluded.raw_json`
	var oz sql.NullFloat64
	if p.USDPerOz != nil {
		oz = sql.NullFloat64{Float64: *p.USDPerOz, Valid: true}
	}
	_, err := r.db.SQL.ExecContext(ctx, up, p.Date, p.Base, string(p.Symbol), p.Rate, oz, p.Source, p.Raw)
	return err
}

func (r *PriceRepo) MaxDate(ctx context.Context, symbol domain.Metal) (string, error) {
	const q = `SELECT COALESCE(MAX(date), '') FROM spot_prices WHERE symbol=?`
	var out string
	if err := r.db.SQL.QueryRowContext(ctx, q, string(symbol)).Scan(&out); err != nil {
		return "", err
	}
	return out, nil
}

// BackfillUSDPerOz fills the derived column where the raw rate allows it,
// covering both request directions.
func (r *PriceRepo) BackfillUSDPerOz(ctx context.Context) (int64, error) {
	const up = `
        UPDATE spot_prices
        SET usd_per_oz = CASE
            WHEN base = 'USD' AND symbol IN ('XAU','XAG') AND rate > 0 THEN (1.0 / rate)
            WHEN base IN ('XAU','XAG') AND symbol = 'USD' THEN rate
            ELSE usd_per_oz
        END
        WHERE usd_per_oz IS NULL
          AND ((base = 'USD' AND symbol IN ('XAU','XAG') AND rate > 0)
               OR (base IN ('XAU','XAG') AND symbol = 'USD'))`
	log := logx.L().With(
		zap.String("repo", "price"),
		zap.String("operation", "BackfillUSDPerOz"),
	)
	log.Info("sql.exec_start")
	res, err := r.db.SQL.ExecContext(ctx, up)
	if err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	log.Info("sql.exec_success", zap.Int64("rows_affected", n))
	return n, nil
}

func (r *PriceRepo) Series(ctx context.Context, symbol domain.Metal) (domain.Series, error) {
	const q = `
        SELECT date, usd_per_oz
        FROM spot_prices
        WHERE symbol=? AND usd_per_oz IS NOT NULL
        ORDER BY date ASC`
	rows, err := r.db.SQL.QueryContext(ctx, q, string(symbol))
	if err != nil {
		return domain.Series{}, err
	}
	defer rows.Close()
	var out domain.Series
	for rows.Next() {
		var d string
		var v float64
		if err := rows.Scan(&d, &v); err != nil {
			return domain.Series{}, err
		}
		out.Dates = append(out.Dates, d)
		out.Values = append(out.Values, v)
	}
	return out, rows.Err()
}

func (r *PriceRepo) JoinedSeries(ctx context.Context) ([]application.JoinedPoint, error) {
	const q = `
        SELECT g.date, g.usd_per_oz, s.usd_per_oz
        FROM spot_prices g
        JOIN spot_prices s
          ON s.date = g.date AND s.base = g.base AND s.source = g.source AND s.symbol = 'XAG'
        WHERE g.symbol = 'XAU'
          AND g.usd_per_oz IS NOT NULL AND s.usd_per_oz IS NOT NULL
        ORDER BY g.date ASC`
	rows, err := r.db.SQL.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []application.JoinedPoint
	for rows.Next() {
		var p application.JoinedPoint
		if err := rows.Scan(&p.Date, &p.XAUUSD, &p.XAGUSD); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
