package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/hapkiduki/boxspec-go/internal/domain/entity"
	"github.com/hapkiduki/boxspec-go/internal/domain/repository"
	"github.com/hapkiduki/boxspec-go/internal/domain/valueobject"
)

// timeLayout is fixed width so that created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const templateColumns = `id, name, length_cm, breadth_cm, height_cm, flute_type, num_plies,
	print_color, order_quantity, gsm_json, prices_json, bf_json, notes, created_at, updated_at, version`

// BoxTemplateRepository stores box templates in SQLite.
type BoxTemplateRepository struct {
	db *sql.DB
}

var _ repository.BoxTemplateRepository = (*BoxTemplateRepository)(nil)

// NewBoxTemplateRepository returns a repository backed by db.
// The schema must already be migrated with Migrate.
func NewBoxTemplateRepository(db *sql.DB) *BoxTemplateRepository {
	return &BoxTemplateRepository{db: db}
}

// Create inserts tpl.
func (r *BoxTemplateRepository) Create(ctx context.Context, tpl *entity.BoxTemplate) error {
	if tpl == nil {
		return repository.ErrInvalidInput
	}
	layers, err := encodeLayers(tpl)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO box_templates (`+templateColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		tpl.ID.String(), tpl.Name,
		tpl.Dimensions.Length, tpl.Dimensions.Breadth, tpl.Dimensions.Height,
		string(tpl.FluteType), int(tpl.Ply), tpl.PrintColor, tpl.OrderQuantity,
		layers.gsm, layers.prices, layers.bf, tpl.Notes,
		formatTime(tpl.CreatedAt), formatTime(tpl.UpdatedAt), tpl.Version,
	)
	if err != nil {
		return translateError("insert box template", err)
	}
	return nil
}

// GetByID loads a template by ID.
func (r *BoxTemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.BoxTemplate, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM box_templates WHERE id = ?`, id.String())
	return scanTemplate(row)
}

// GetByName loads a template by name. Names compare case-insensitively.
func (r *BoxTemplateRepository) GetByName(ctx context.Context, name string) (*entity.BoxTemplate, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM box_templates WHERE name = ?`, strings.TrimSpace(name))
	return scanTemplate(row)
}

// Update writes tpl if the stored version still equals tpl.Version.
func (r *BoxTemplateRepository) Update(ctx context.Context, tpl *entity.BoxTemplate) error {
	if tpl == nil {
		return repository.ErrInvalidInput
	}
	layers, err := encodeLayers(tpl)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE box_templates SET
			name = ?, length_cm = ?, breadth_cm = ?, height_cm = ?, flute_type = ?, num_plies = ?,
			print_color = ?, order_quantity = ?, gsm_json = ?, prices_json = ?, bf_json = ?, notes = ?,
			updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?
	`,
		tpl.Name, tpl.Dimensions.Length, tpl.Dimensions.Breadth, tpl.Dimensions.Height,
		string(tpl.FluteType), int(tpl.Ply), tpl.PrintColor, tpl.OrderQuantity,
		layers.gsm, layers.prices, layers.bf, tpl.Notes, formatTime(tpl.UpdatedAt),
		tpl.ID.String(), tpl.Version,
	)
	if err != nil {
		return translateError("update box template", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update box template: %w", err)
	}
	if n == 0 {
		exists, err := r.exists(ctx, `id = ?`, tpl.ID.String())
		if err != nil {
			return err
		}
		if !exists {
			return repository.ErrBoxTemplateNotFound
		}
		return repository.ErrOptimisticLock
	}

	tpl.Version++
	return nil
}

// Delete removes a template by ID.
func (r *BoxTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM box_templates WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete box template: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete box template: %w", err)
	}
	if n == 0 {
		return repository.ErrBoxTemplateNotFound
	}
	return nil
}

// List returns matching templates, newest first.
func (r *BoxTemplateRepository) List(ctx context.Context, filter repository.BoxTemplateFilter) ([]*entity.BoxTemplate, error) {
	where, args := buildWhere(filter)
	query := `SELECT ` + templateColumns + ` FROM box_templates` + where + ` ORDER BY created_at DESC, id`

	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, max(filter.Offset, 0))
	} else if filter.Offset > 0 {
		query += ` LIMIT -1 OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list box templates: %w", err)
	}
	defer rows.Close()

	templates := make([]*entity.BoxTemplate, 0)
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list box templates: %w", err)
	}
	return templates, nil
}

// Count returns the number of matching templates.
func (r *BoxTemplateRepository) Count(ctx context.Context, filter repository.BoxTemplateFilter) (int64, error) {
	where, args := buildWhere(filter)
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM box_templates`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count box templates: %w", err)
	}
	return n, nil
}

// ExistsByName reports whether name is taken.
func (r *BoxTemplateRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, `name = ?`, strings.TrimSpace(name))
}

func (r *BoxTemplateRepository) exists(ctx context.Context, cond string, arg any) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM box_templates WHERE `+cond+` LIMIT 1`, arg).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check box template: %w", err)
	}
	return true, nil
}

func buildWhere(filter repository.BoxTemplateFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if term := strings.TrimSpace(filter.SearchTerm); term != "" {
		like := "%" + escapeLike(term) + "%"
		conds = append(conds, `(name LIKE ? ESCAPE '\' OR print_color LIKE ? ESCAPE '\' OR notes LIKE ? ESCAPE '\')`)
		args = append(args, like, like, like)
	}
	if filter.Ply != nil {
		conds = append(conds, `num_plies = ?`)
		args = append(args, int(*filter.Ply))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (*entity.BoxTemplate, error) {
	var (
		tpl                  entity.BoxTemplate
		id, flute            string
		ply                  int
		gsm, prices, bf      string
		createdAt, updatedAt string
	)
	err := row.Scan(
		&id, &tpl.Name,
		&tpl.Dimensions.Length, &tpl.Dimensions.Breadth, &tpl.Dimensions.Height,
		&flute, &ply, &tpl.PrintColor, &tpl.OrderQuantity,
		&gsm, &prices, &bf, &tpl.Notes, &createdAt, &updatedAt, &tpl.Version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrBoxTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan box template: %w", err)
	}

	if tpl.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("scan box template id: %w", err)
	}
	tpl.FluteType = valueobject.FluteType(flute)
	tpl.Ply = valueobject.Ply(ply)
	if tpl.GSM, err = decodeLayerMap("gsm", gsm); err != nil {
		return nil, err
	}
	if tpl.Prices, err = decodeLayerMap("prices", prices); err != nil {
		return nil, err
	}
	if tpl.BurstFactors, err = decodeLayerMap("bf", bf); err != nil {
		return nil, err
	}
	if tpl.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("scan box template created_at: %w", err)
	}
	if tpl.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("scan box template updated_at: %w", err)
	}
	return &tpl, nil
}

// layerColumns are the JSON encoded per-layer maps of a template.
type layerColumns struct {
	gsm, prices, bf string
}

func encodeLayers(tpl *entity.BoxTemplate) (layerColumns, error) {
	var cols layerColumns
	for _, c := range []struct {
		name string
		m    map[valueobject.Layer]float64
		dst  *string
	}{
		{"gsm", tpl.GSM, &cols.gsm},
		{"prices", tpl.Prices, &cols.prices},
		{"bf", tpl.BurstFactors, &cols.bf},
	} {
		v, err := encodeLayerMap(c.m)
		if err != nil {
			return layerColumns{}, fmt.Errorf("encode box template %s: %w", c.name, err)
		}
		*c.dst = v
	}
	return cols, nil
}

func decodeLayerMap(column, raw string) (map[valueobject.Layer]float64, error) {
	m := make(map[valueobject.Layer]float64)
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("decode box template %s: %w", column, err)
	}
	return m, nil
}

func encodeLayerMap(m map[valueobject.Layer]float64) (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func translateError(op string, err error) error {
	var se *sqlitedrv.Error
	if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return repository.ErrDuplicateBoxName
	}
	return fmt.Errorf("%s: %w", op, err)
}
