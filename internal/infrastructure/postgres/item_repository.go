package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

var _ repository.ItemStore = (*ItemRepo)(nil)

var errQueryInTx = errors.New("query no permitido dentro de una transacción")

// columnas que admite Merge (nombre de campo → columna).
var mergeColumns = map[string]bool{
	entity.FieldQuantity:    true,
	entity.FieldCategory:    true,
	entity.FieldDescription: true,
	entity.FieldPrice:       true,
	entity.FieldSupplier:    true,
}

// ItemRepo implementación del puerto ItemStore sobre PostgreSQL (usable con pool o tx).
// Una fila por documento; name es la clave primaria.
type ItemRepo struct {
	q     Querier
	table string // identificador ya saneado
	inTx  bool
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier, table string) *ItemRepo {
	if table == "" {
		table = "inventory"
	}
	return &ItemRepo{q: q, table: pgx.Identifier{table}.Sanitize()}
}

// EnsureSchema crea la tabla si no existe.
func (r *ItemRepo) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS ` + r.table + ` (
			name        TEXT PRIMARY KEY,
			quantity    BIGINT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
			category    TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			price       TEXT NOT NULL DEFAULT '',
			supplier    TEXT NOT NULL DEFAULT ''
		)`
	if _, err := r.q.Exec(ctx, query); err != nil {
		return wrap("schema", "", err)
	}
	return nil
}

// Get obtiene un ítem por nombre. Dentro de una transacción toma antes un advisory lock
// por clave (también cubre filas que aún no existen) y bloquea la fila (SELECT FOR UPDATE).
func (r *ItemRepo) Get(ctx context.Context, name string) (*entity.Item, error) {
	query := `SELECT name, quantity, category, description, price, supplier FROM ` + r.table + ` WHERE name = $1`
	if r.inTx {
		if err := r.lockKey(ctx, name); err != nil {
			return nil, err
		}
		query += ` FOR UPDATE`
	}
	var it entity.Item
	err := r.q.QueryRow(ctx, query, name).Scan(
		&it.Name, &it.Quantity, &it.Category, &it.Description, &it.Price, &it.Supplier,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get", name, err)
	}
	return &it, nil
}

// lockKey serializa las transacciones sobre el mismo nombre hasta el commit o rollback.
// Con READ COMMITTED, FOR UPDATE no bloquea nada si la fila no existe y dos altas
// concurrentes verían el ítem ausente.
func (r *ItemRepo) lockKey(ctx context.Context, name string) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, r.table+"/"+name); err != nil {
		return wrap("lock", name, err)
	}
	return nil
}

// Set inserta o reemplaza todas las columnas del ítem.
func (r *ItemRepo) Set(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO ` + r.table + ` (name, quantity, category, description, price, supplier)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO UPDATE SET
			quantity = EXCLUDED.quantity, category = EXCLUDED.category, description = EXCLUDED.description,
			price = EXCLUDED.price, supplier = EXCLUDED.supplier`
	_, err := r.q.Exec(ctx, query,
		item.Name, item.Quantity, item.Category, item.Description, item.Price, item.Supplier,
	)
	if err != nil {
		return wrap("set", item.Name, err)
	}
	return nil
}

// Merge actualiza solo las columnas presentes en fields; si la fila no existe la crea con defaults.
func (r *ItemRepo) Merge(ctx context.Context, name string, fields entity.Fields) error {
	cols := make([]string, 0, len(fields))
	for k := range fields {
		if !mergeColumns[k] {
			return domain.NewStoreError("merge", name, domain.KindUnknown, fmt.Errorf("campo desconocido %q", k))
		}
		cols = append(cols, k)
	}
	if len(cols) == 0 {
		return nil
	}
	sort.Strings(cols)

	args := make([]any, 0, len(cols)+1)
	args = append(args, name)
	placeholders := make([]string, 0, len(cols))
	sets := make([]string, 0, len(cols))
	for i, c := range cols {
		args = append(args, fields[c])
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}

	query := `INSERT INTO ` + r.table + ` (name, ` + strings.Join(cols, ", ") + `)
		VALUES ($1, ` + strings.Join(placeholders, ", ") + `)
		ON CONFLICT (name) DO UPDATE SET ` + strings.Join(sets, ", ")
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return wrap("merge", name, err)
	}
	return nil
}

// Delete elimina un ítem por nombre.
func (r *ItemRepo) Delete(ctx context.Context, name string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM `+r.table+` WHERE name = $1`, name); err != nil {
		return wrap("delete", name, err)
	}
	return nil
}

// Query lista ítems por categoría con paginación por cursor (orden binario de name, como Firestore).
func (r *ItemRepo) Query(ctx context.Context, q entity.PageQuery) ([]*entity.Item, error) {
	if r.inTx {
		return nil, domain.NewStoreError("query", "", domain.KindUnknown, errQueryInTx)
	}
	var limit any
	if q.Limit > 0 {
		limit = q.Limit
	}
	query := `
		SELECT name, quantity, category, description, price, supplier
		FROM ` + r.table + `
		WHERE ($1 = '' OR category = $1) AND ($2 = '' OR name COLLATE "C" > $2)
		ORDER BY name COLLATE "C"
		LIMIT $3`
	rows, err := r.q.Query(ctx, query, q.Category, q.After, limit)
	if err != nil {
		return nil, wrap("query", "", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		var it entity.Item
		if err := rows.Scan(&it.Name, &it.Quantity, &it.Category, &it.Description, &it.Price, &it.Supplier); err != nil {
			return nil, wrap("scan", "", err)
		}
		list = append(list, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("query", "", err)
	}
	return list, nil
}
