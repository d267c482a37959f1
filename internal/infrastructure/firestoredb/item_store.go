// Package firestoredb implementa el almacén de inventario sobre Google Cloud Firestore.
// Con FIRESTORE_EMULATOR_HOST definido el cliente apunta al emulador local.
package firestoredb

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

var (
	_ repository.ItemStore  = (*ItemStore)(nil)
	_ repository.Transactor = (*ItemStore)(nil)
)

var errQueryInTx = errors.New("query no permitido dentro de una transacción")

// Config parámetros de conexión.
type Config struct {
	ProjectID       string
	Collection      string
	CredentialsFile string // vacío = credenciales por defecto de la aplicación
}

// ItemStore adaptador del puerto ItemStore sobre una colección de Firestore.
// Cada documento usa el nombre del ítem como id.
type ItemStore struct {
	fs   *firestore.Client
	data *firestore.CollectionRef
}

// NewItemStore abre el cliente de Firestore.
func NewItemStore(ctx context.Context, cfg Config) (*ItemStore, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("firestore: falta project id")
	}
	if cfg.Collection == "" {
		cfg.Collection = "inventory"
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("crear cliente firestore: %w", err)
	}
	return &ItemStore{fs: client, data: client.Collection(cfg.Collection)}, nil
}

// Close libera el cliente.
func (s *ItemStore) Close() error {
	return s.fs.Close()
}

// Get obtiene el documento; NotFound se traduce a (nil, nil).
func (s *ItemStore) Get(ctx context.Context, name string) (*entity.Item, error) {
	doc, err := s.data.Doc(name).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, wrap("get", name, err)
	}
	return decode(doc)
}

// Set reemplaza el documento completo.
func (s *ItemStore) Set(ctx context.Context, item *entity.Item) error {
	if _, err := s.data.Doc(item.Name).Set(ctx, encode(item)); err != nil {
		return wrap("set", item.Name, err)
	}
	return nil
}

// Merge escribe solo los campos indicados (MergeAll).
func (s *ItemStore) Merge(ctx context.Context, name string, fields entity.Fields) error {
	if _, err := s.data.Doc(name).Set(ctx, map[string]interface{}(fields), firestore.MergeAll); err != nil {
		return wrap("merge", name, err)
	}
	return nil
}

// Delete elimina el documento.
func (s *ItemStore) Delete(ctx context.Context, name string) error {
	if _, err := s.data.Doc(name).Delete(ctx); err != nil {
		return wrap("delete", name, err)
	}
	return nil
}

// Query where(category ==) + orden por id de documento + startAfter(cursor) + limit.
func (s *ItemStore) Query(ctx context.Context, q entity.PageQuery) ([]*entity.Item, error) {
	query := s.data.OrderBy(firestore.DocumentID, firestore.Asc)
	if q.Category != "" {
		query = query.Where(entity.FieldCategory, "==", q.Category)
	}
	if q.After != "" {
		query = query.StartAfter(q.After)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, wrap("query", "", err)
	}

	out := make([]*entity.Item, 0, len(docs))
	for _, doc := range docs {
		item, err := decode(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// RunInTransaction ejecuta fn en una transacción de Firestore (reintentada por el cliente si hay contención).
func (s *ItemStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.ItemStore) error) error {
	err := s.fs.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(ctx, &txStore{data: s.data, tx: tx})
	})
	if err == nil {
		return nil
	}
	var se *domain.StoreError
	if errors.As(err, &se) {
		return err
	}
	return wrap("tx", "", err)
}

// txStore ItemStore atado a una *firestore.Transaction.
type txStore struct {
	data *firestore.CollectionRef
	tx   *firestore.Transaction
}

func (t *txStore) Get(_ context.Context, name string) (*entity.Item, error) {
	doc, err := t.tx.Get(t.data.Doc(name)) // tx.Get, no ref.Get
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, wrap("get", name, err)
	}
	return decode(doc)
}

func (t *txStore) Set(_ context.Context, item *entity.Item) error {
	if err := t.tx.Set(t.data.Doc(item.Name), encode(item)); err != nil {
		return wrap("set", item.Name, err)
	}
	return nil
}

func (t *txStore) Merge(_ context.Context, name string, fields entity.Fields) error {
	if err := t.tx.Set(t.data.Doc(name), map[string]interface{}(fields), firestore.MergeAll); err != nil {
		return wrap("merge", name, err)
	}
	return nil
}

func (t *txStore) Delete(_ context.Context, name string) error {
	if err := t.tx.Delete(t.data.Doc(name)); err != nil {
		return wrap("delete", name, err)
	}
	return nil
}

func (t *txStore) Query(context.Context, entity.PageQuery) ([]*entity.Item, error) {
	return nil, domain.NewStoreError("query", "", domain.KindUnknown, errQueryInTx)
}

func encode(item *entity.Item) map[string]interface{} {
	return map[string]interface{}{
		entity.FieldQuantity:    item.Quantity,
		entity.FieldCategory:    item.Category,
		entity.FieldDescription: item.Description,
		entity.FieldPrice:       item.Price,
		entity.FieldSupplier:    item.Supplier,
	}
}

func decode(doc *firestore.DocumentSnapshot) (*entity.Item, error) {
	var item entity.Item
	if err := doc.DataTo(&item); err != nil {
		return nil, domain.NewStoreError("decode", doc.Ref.ID, domain.KindUnknown, err)
	}
	item.Name = doc.Ref.ID
	return &item, nil
}

func wrap(op, key string, err error) error {
	return domain.NewStoreError(op, key, Classify(err), err)
}

// Classify traduce códigos gRPC de Firestore a la taxonomía del dominio.
func Classify(err error) domain.ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.KindUnavailable
	}
	switch status.Code(err) {
	case codes.NotFound:
		return domain.KindNotFound
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted, codes.Canceled:
		return domain.KindUnavailable
	case codes.PermissionDenied, codes.Unauthenticated:
		return domain.KindPermissionDenied
	default:
		return domain.KindUnknown
	}
}
