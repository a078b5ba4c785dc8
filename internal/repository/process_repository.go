package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/spec-kit/process-desk/internal/domain"
	"github.com/spec-kit/process-desk/internal/persistence"
)

// ProcessRepository encapsulates process persistence.
type ProcessRepository interface {
	List(ctx context.Context) ([]domain.Process, error)
	GetByID(ctx context.Context, id int64) (*domain.Process, error)
	Create(ctx context.Context, process *domain.Process) error
	Update(ctx context.Context, process *domain.Process) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type processRepository struct {
	gw *persistence.Gateway
}

// NewProcessRepository instantiates repository.
func NewProcessRepository(gw *persistence.Gateway) ProcessRepository {
	return &processRepository{gw: gw}
}

func (r *processRepository) List(ctx context.Context) ([]domain.Process, error) {
	const query = `
        SELECT processoid, numeroprocesso, titulo, descricao, status, datainicio, datafim
        FROM processos
        ORDER BY datainicio DESC, processoid DESC`

	var result []domain.Process
	err := r.gw.WithConn(ctx, func(ctx context.Context, q persistence.DBTX) error {
		rows, err := q.QueryContext(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			p, err := scanProcess(rows)
			if err != nil {
				return err
			}
			result = append(result, *p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	return result, nil
}

func (r *processRepository) GetByID(ctx context.Context, id int64) (*domain.Process, error) {
	const query = `
        SELECT processoid, numeroprocesso, titulo, descricao, status, datainicio, datafim
        FROM processos WHERE processoid=$1`

	var process *domain.Process
	err := r.gw.WithConn(ctx, func(ctx context.Context, q persistence.DBTX) error {
		p, err := scanProcess(q.QueryRowContext(ctx, query, id))
		if err != nil {
			return err
		}
		process = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get process %d: %w", id, err)
	}
	return process, nil
}

func (r *processRepository) Create(ctx context.Context, process *domain.Process) error {
	const query = `
        INSERT INTO processos (numeroprocesso, titulo, descricao, status, datainicio, datafim)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING processoid`

	err := r.gw.WithTx(ctx, func(ctx context.Context, tx persistence.DBTX) error {
		return tx.QueryRowContext(ctx, query,
			process.Number,
			process.Title,
			nullableString(process.Description),
			string(process.Status),
			process.StartDate,
			nullableTime(process.EndDate),
		).Scan(&process.ID)
	})
	if err != nil {
		return fmt.Errorf("create process: %w", err)
	}
	return nil
}

func (r *processRepository) Update(ctx context.Context, process *domain.Process) error {
	const query = `
        UPDATE processos SET numeroprocesso=$1, titulo=$2, descricao=$3, status=$4, datainicio=$5, datafim=$6
        WHERE processoid=$7`

	err := r.gw.WithTx(ctx, func(ctx context.Context, tx persistence.DBTX) error {
		res, err := tx.ExecContext(ctx, query,
			process.Number,
			process.Title,
			nullableString(process.Description),
			string(process.Status),
			process.StartDate,
			nullableTime(process.EndDate),
			process.ID,
		)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update process %d: %w", process.ID, err)
	}
	return nil
}

// Delete removes a process and reports whether a row existed.
func (r *processRepository) Delete(ctx context.Context, id int64) (bool, error) {
	const query = `DELETE FROM processos WHERE processoid=$1`

	var deleted bool
	err := r.gw.WithTx(ctx, func(ctx context.Context, tx persistence.DBTX) error {
		res, err := tx.ExecContext(ctx, query, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		deleted = n > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete process %d: %w", id, err)
	}
	return deleted, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProcess(row rowScanner) (*domain.Process, error) {
	var (
		p           domain.Process
		description sql.NullString
		status      string
		endDate     sql.NullTime
	)
	if err := row.Scan(
		&p.ID,
		&p.Number,
		&p.Title,
		&description,
		&status,
		&p.StartDate,
		&endDate,
	); err != nil {
		return nil, err
	}
	p.Description = description.String
	p.Status = domain.ProcessStatus(status)
	if endDate.Valid {
		end := endDate.Time
		p.EndDate = &end
	}
	return &p, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
