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

type StatRepo struct{ db *DB }

func NewStatRepo(db *DB) *StatRepo { return &StatRepo{db: db} }

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func (r *StatRepo) UpsertBatch(ctx context.Context, stats []domain.DailyStat) error {
	if len(stats) == 0 {
		return nil
	}
	const up = `
        INSERT INTO daily_stats(date, xauusd, xagusd, gsr, usdpln, xaupln, xagpln)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (date) DO UPDATE
          SET xauusd=excluded.xauusd, xagusd=excluded.xagusd, gsr=excluded.gsr,
              usdpln=excluded.usdpln, xaupln=excluded.xaupln, xagpln=excluded.xagpln`
	log := logx.L().With(
		zap.String("repo", "stat"),
		zap.String("operation", "UpsertBatch"),
		zap.Int("rows", len(stats)),
	)
	log.Info("sql.exec_start")
	tx, err := r.db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, up)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, st := range stats {
		if _, err := stmt.ExecContext(ctx, st.Date, st.XAUUSD, st.XAGUSD, st.GSR,
			nullFloat(st.USDPLN), nullFloat(st.XAUPLN), nullFloat(st.XAGPLN)); err != nil {
			tx.Rollback()
			log.Error("sql.exec_failed", zap.String("date", st.Date), zap.Error(err))
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info("sql.exec_success")
	return nil
}

func (r *StatRepo) All(ctx context.Context) ([]domain.DailyStat, error) {
	return r.Range(ctx, "", "")
}

func (r *StatRepo) Range(ctx context.Context, from, to string) ([]domain.DailyStat, error) {
	q := `
        SELECT date, xauusd, xagusd, gsr, usdpln, xaupln, xagpln
        FROM daily_stats WHERE 1=1`
	var args []any
	if from != "" {
		q += ` AND date >= ?`
		args = append(args, from)
	}
	if to != "" {
		q += ` AND date <= ?`
		args = append(args, to)
	}
	q += ` ORDER BY date ASC`

	rows, err := r.db.SQL.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.DailyStat
	for rows.Next() {
		st, err := scanStat(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *StatRepo) Latest(ctx context.Context) (domain.DailyStat, error) {
	const q = `
        SELECT date, xauusd, xagusd, gsr, usdpln, xaupln, xagpln
        FROM daily_stats
        WHERE xauusd IS NOT NULL AND xagusd IS NOT NULL
        ORDER BY date DESC
        LIMIT 1`
	row := r.db.SQL.QueryRowContext(ctx, q)
	st, err := scanStat(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DailyStat{}, application.ErrNotFound
	}
	if err != nil {
		return domain.DailyStat{}, err
	}
	return st, nil
}

type scanner interface{ Scan(dest ...any) error }

func scanStat(s scanner) (domain.DailyStat, error) {
	var st domain.DailyStat
	var usdpln, xaupln, xagpln sql.NullFloat64
	if err := s.Scan(&st.Date, &st.XAUUSD, &st.XAGUSD, &st.GSR, &usdpln, &xaupln, &xagpln); err != nil {
		return domain.DailyStat{}, err
	}
	if usdpln.Valid {
		st.USDPLN = &usdpln.Float64
	}
	if xaupln.Valid {
		st.XAUPLN = &xaupln.Float64
	}
	if xagpln.Valid {
		st.XAGPLN = &xagpln.Float64
	}
	return st, nil
}
