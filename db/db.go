package db

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"contractors/models"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
)

// advisoryLockKey сериализует циклы чтения-записи между экземплярами сервиса.
const advisoryLockKey int64 = 0x636f6e7472

// Storage хранит набор данных в Postgres: подрядчики целиком в JSONB,
// остальные сущности в типизированных колонках.
type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

// contractorRow: строка таблицы contractors
type contractorRow struct {
	ID   string         `db:"id"`
	Data types.JSONText `db:"data"`
}

type settingRow struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

func (s *Storage) Load(ctx context.Context) (*models.Dataset, error) {
	return load(ctx, s.db)
}

// Update выполняет fn над набором данных в одной транзакции под advisory-блокировкой.
func (s *Storage) Update(ctx context.Context, fn func(*models.Dataset) error) (*models.Dataset, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, advisoryLockKey); err != nil {
		return nil, fmt.Errorf("advisory lock: %w", err)
	}

	ds, err := load(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := fn(ds); err != nil {
		return nil, err
	}
	if err := save(ctx, tx, ds); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return ds, nil
}

func load(ctx context.Context, q sqlx.QueryerContext) (*models.Dataset, error) {
	ds := &models.Dataset{}

	var rows []contractorRow
	if err := sqlx.SelectContext(ctx, q, &rows, `SELECT id, data FROM contractors ORDER BY position`); err != nil {
		return nil, fmt.Errorf("load contractors: %w", err)
	}
	ds.Contractors = make([]models.Contractor, 0, len(rows))
	for _, r := range rows {
		var c models.Contractor
		if err := r.Data.Unmarshal(&c); err != nil {
			return nil, fmt.Errorf("decode contractor %s: %w", r.ID, err)
		}
		ds.Contractors = append(ds.Contractors, c)
	}

	if err := sqlx.SelectContext(ctx, q, &ds.Packages, `
        SELECT id, created_at, name, trade_category, region, allocation_type, status
        FROM packages ORDER BY position`); err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}
	if err := sqlx.SelectContext(ctx, q, &ds.Offers, `
        SELECT id, package_id, contractor_id, sent_at, expires_at, status
        FROM offers ORDER BY position`); err != nil {
		return nil, fmt.Errorf("load offers: %w", err)
	}
	if err := sqlx.SelectContext(ctx, q, &ds.Projects, `
        SELECT id, contractor_id, project_name, completed_at, rating, parts, status
        FROM projects ORDER BY position`); err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}

	var settings []settingRow
	if err := sqlx.SelectContext(ctx, q, &settings, `SELECT key, value FROM settings`); err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	ds.Settings = make(map[string]string, len(settings))
	for _, st := range settings {
		ds.Settings[st.Key] = st.Value
	}

	ds.Normalize()
	return ds, nil
}

func save(ctx context.Context, tx *sqlx.Tx, ds *models.Dataset) error {
	for i, c := range ds.Contractors {
		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encode contractor %s: %w", c.ID, err)
		}
		query := `
            INSERT INTO contractors (id, position, created_at, trade_category, tier_level, status, data)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
            ON CONFLICT (id) DO UPDATE SET
                position = EXCLUDED.position,
                trade_category = EXCLUDED.trade_category,
                tier_level = EXCLUDED.tier_level,
                status = EXCLUDED.status,
                data = EXCLUDED.data`
		if _, err := tx.ExecContext(ctx, query,
			c.ID, i, c.CreatedAt, c.TradeCategory, c.TierLevel, c.Status, types.JSONText(data)); err != nil {
			return fmt.Errorf("save contractor %s: %w", c.ID, err)
		}
	}

	for i, p := range ds.Packages {
		query := `
            INSERT INTO packages (id, position, created_at, name, trade_category, region, allocation_type, status)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
            ON CONFLICT (id) DO UPDATE SET
                position = EXCLUDED.position,
                name = EXCLUDED.name,
                trade_category = EXCLUDED.trade_category,
                region = EXCLUDED.region,
                allocation_type = EXCLUDED.allocation_type,
                status = EXCLUDED.status`
		if _, err := tx.ExecContext(ctx, query,
			p.ID, i, p.CreatedAt, p.Name, p.TradeCategory, p.Region, p.AllocationType, p.Status); err != nil {
			return fmt.Errorf("save package %s: %w", p.ID, err)
		}
	}

	for i, o := range ds.Offers {
		query := `
            INSERT INTO offers (id, position, package_id, contractor_id, sent_at, expires_at, status)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
            ON CONFLICT (id) DO UPDATE SET
                position = EXCLUDED.position,
                status = EXCLUDED.status`
		if _, err := tx.ExecContext(ctx, query,
			o.ID, i, o.PackageID, o.ContractorID, o.SentAt, o.ExpiresAt, o.Status); err != nil {
			return fmt.Errorf("save offer %s: %w", o.ID, err)
		}
	}

	for i, p := range ds.Projects {
		query := `
            INSERT INTO projects (id, position, contractor_id, project_name, completed_at, rating, parts, status)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
            ON CONFLICT (id) DO UPDATE SET
                position = EXCLUDED.position,
                status = EXCLUDED.status`
		if _, err := tx.ExecContext(ctx, query,
			p.ID, i, p.ContractorID, p.ProjectName, p.CompletedAt, p.Rating, p.Parts, p.Status); err != nil {
			return fmt.Errorf("save project %s: %w", p.ID, err)
		}
	}

	keys := make([]string, 0, len(ds.Settings))
	for k := range ds.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := ds.Settings[k]
		query := `
            INSERT INTO settings (key, value) VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
		if _, err := tx.ExecContext(ctx, query, k, v); err != nil {
			return fmt.Errorf("save setting %s: %w", k, err)
		}
	}
	return nil
}
