package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/DavidLanz/msdtools/internal/model"
)

// ErrRunNotFound 运行记录不存在
var ErrRunNotFound = errors.New("run not found")

// CreateRun 创建运行记录（状态为 processing）
func (s *Store) CreateRun(id, inputA, inputB string, createdAt time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (id, input_a, input_b, status, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, inputA, inputB, string(model.RunStatusProcessing), createdAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// FinishRun 完成运行记录更新
func (s *Store) FinishRun(rec model.RunRecord) error {
	res, err := s.db.Exec(`
		UPDATE runs SET
			seven_day_source = ?,
			fourteen_day_source = ?,
			row_count = ?,
			file_name = ?,
			status = ?,
			error_kind = ?,
			duration_ms = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, rec.SevenDaySource, rec.FourteenDaySource, rec.Rows, rec.FileName,
		string(rec.Status), rec.ErrorKind, rec.DurationMS, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if n == 0 {
		return ErrRunNotFound
	}
	return nil
}

// GetRun 查询单条运行记录
func (s *Store) GetRun(id string) (model.RunRecord, error) {
	row := s.db.QueryRow(`
		SELECT id, input_a, input_b, seven_day_source, fourteen_day_source,
		       row_count, file_name, status, error_kind, duration_ms, created_at
		FROM runs WHERE id = ?
	`, id)
	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RunRecord{}, ErrRunNotFound
	}
	return rec, err
}

// ListRuns 按创建时间倒序列出最近的运行记录
func (s *Store) ListRuns(limit int) ([]model.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, input_a, input_b, seven_day_source, fourteen_day_source,
		       row_count, file_name, status, error_kind, duration_ms, created_at
		FROM runs
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []model.RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CountRuns 统计运行次数
func (s *Store) CountRuns() (total, failed int, err error) {
	err = s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
		FROM runs
	`, string(model.RunStatusFailed)).Scan(&total, &failed)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return total, failed, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (model.RunRecord, error) {
	var (
		rec    model.RunRecord
		status string
	)
	err := sc.Scan(&rec.ID, &rec.InputA, &rec.InputB, &rec.SevenDaySource, &rec.FourteenDaySource,
		&rec.Rows, &rec.FileName, &status, &rec.ErrorKind, &rec.DurationMS, &rec.CreatedAt)
	if err != nil {
		return model.RunRecord{}, err
	}
	rec.Status = model.RunStatus(status)
	return rec, nil
}
