package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"foodhub/food-svc/internal/domain"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

func toJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}

// nullJSON is toJSON for nullable columns: a nil value is stored as SQL NULL.
func nullJSON(v any) any {
	b := toJSON(v)
	if string(b) == "null" {
		return nil
	}
	return b
}

// jsonColumn scans a JSONB column into dst. NULL leaves dst untouched.
type jsonColumn[T any] struct {
	dst *T
}

func jsonb[T any](dst *T) jsonColumn[T] {
	return jsonColumn[T]{dst: dst}
}

func (j jsonColumn[T]) Scan(src any) error {
	switch s := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(s, j.dst)
	case string:
		return json.Unmarshal([]byte(s), j.dst)
	default:
		return fmt.Errorf("jsonb: unsupported source type %T", src)
	}
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
