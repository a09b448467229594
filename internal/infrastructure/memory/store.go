// Package memory implementa los repositorios sobre mapas en memoria.
// Se usa en tests y en el modo local de la TUI; Run serializa las escrituras con un
// mutex y restaura la foto previa si la función falla.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/stock-tracker/internal/application/inventory"
	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

var (
	_ inventory.TxRunner                    = (*Store)(nil)
	_ repository.StockItemRepository        = (*itemRepo)(nil)
	_ repository.StockTransactionRepository = (*txRepo)(nil)
	_ repository.UserRepository             = (*userRepo)(nil)
)

type state struct {
	items map[string]entity.StockItem
	txs   map[string]entity.StockTransaction
	seq   map[string]uint64 // orden de inserción, desempata CreatedAt
	next  uint64
}

func newState() state {
	return state{
		items: map[string]entity.StockItem{},
		txs:   map[string]entity.StockTransaction{},
		seq:   map[string]uint64{},
	}
}

func (s state) clone() state {
	c := state{
		items: make(map[string]entity.StockItem, len(s.items)),
		txs:   make(map[string]entity.StockTransaction, len(s.txs)),
		seq:   make(map[string]uint64, len(s.seq)),
		next:  s.next,
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.txs {
		c.txs[k] = v
	}
	for k, v := range s.seq {
		c.seq[k] = v
	}
	return c
}

// Store almacén en memoria de artículos, transacciones y usuarios.
type Store struct {
	mu    sync.RWMutex
	state state
	users map[string]entity.User
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{state: newState(), users: map[string]entity.User{}}
}

// Items repositorio de artículos fuera de transacción.
func (s *Store) Items() repository.StockItemRepository { return &itemRepo{s: s} }

// Transactions repositorio del libro fuera de transacción.
func (s *Store) Transactions() repository.StockTransactionRepository { return &txRepo{s: s} }

// Users repositorio de usuarios.
func (s *Store) Users() repository.UserRepository { return &userRepo{s: s} }

// Run ejecuta fn con acceso exclusivo. Si fn devuelve error el estado vuelve a la foto previa.
func (s *Store) Run(ctx context.Context, fn func(
	itemRepo repository.StockItemRepository,
	txRepo repository.StockTransactionRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(&itemRepo{s: s, held: true}, &txRepo{s: s, held: true}); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

// read ejecuta fn con lectura compartida salvo que el llamador ya tenga el lock.
func (s *Store) read(held bool, fn func(st *state)) {
	if !held {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	fn(&s.state)
}

func (s *Store) write(held bool, fn func(st *state) error) error {
	if !held {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(&s.state)
}

type itemRepo struct {
	s    *Store
	held bool
}

func (r *itemRepo) Create(_ context.Context, item *entity.StockItem) error {
	return r.s.write(r.held, func(st *state) error {
		if _, ok := st.items[item.ID]; ok {
			return domain.ErrDuplicate
		}
		st.items[item.ID] = *item
		return nil
	})
}

func (r *itemRepo) GetByID(_ context.Context, id string) (*entity.StockItem, error) {
	var out *entity.StockItem
	r.s.read(r.held, func(st *state) {
		if v, ok := st.items[id]; ok {
			out = &v
		}
	})
	return out, nil
}

func (r *itemRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.GetByID(ctx, id)
}

func (r *itemRepo) ListByOwner(_ context.Context, ownerID string, limit, offset int) ([]*entity.StockItem, error) {
	var list []*entity.StockItem
	r.s.read(r.held, func(st *state) {
		for _, v := range st.items {
			if v.OwnerID == ownerID {
				v := v
				list = append(list, &v)
			}
		}
	})
	sortItems(list)
	return paginate(list, limit, offset), nil
}

func (r *itemRepo) CountByOwner(_ context.Context, ownerID string) (int, error) {
	n := 0
	r.s.read(r.held, func(st *state) {
		for _, v := range st.items {
			if v.OwnerID == ownerID {
				n++
			}
		}
	})
	return n, nil
}

func (r *itemRepo) ListAll(_ context.Context) ([]*entity.StockItem, error) {
	var list []*entity.StockItem
	r.s.read(r.held, func(st *state) {
		for _, v := range st.items {
			v := v
			list = append(list, &v)
		}
	})
	sortItems(list)
	return list, nil
}

func (r *itemRepo) Update(_ context.Context, item *entity.StockItem) error {
	return r.s.write(r.held, func(st *state) error {
		cur, ok := st.items[item.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Name = item.Name
		cur.Unit = item.Unit
		cur.Price = item.Price
		cur.UpdatedAt = item.UpdatedAt
		st.items[item.ID] = cur
		return nil
	})
}

func (r *itemRepo) UpdateStockCount(_ context.Context, id string, newCount int64) error {
	return r.s.write(r.held, func(st *state) error {
		cur, ok := st.items[id]
		if !ok {
			return domain.ErrNotFound
		}
		cur.CurrentStock = newCount
		st.items[id] = cur
		return nil
	})
}

func (r *itemRepo) Delete(_ context.Context, id string) error {
	return r.s.write(r.held, func(st *state) error {
		if _, ok := st.items[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.items, id)
		return nil
	})
}

type txRepo struct {
	s    *Store
	held bool
}

func (r *txRepo) Create(_ context.Context, tx *entity.StockTransaction) error {
	return r.s.write(r.held, func(st *state) error {
		if _, ok := st.items[tx.ItemID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.txs[tx.ID]; ok {
			return domain.ErrDuplicate
		}
		st.next++
		st.seq[tx.ID] = st.next
		st.txs[tx.ID] = *tx
		return nil
	})
}

func (r *txRepo) GetByID(_ context.Context, id string) (*entity.StockTransaction, error) {
	var out *entity.StockTransaction
	r.s.read(r.held, func(st *state) {
		if v, ok := st.txs[id]; ok {
			out = &v
		}
	})
	return out, nil
}

func (r *txRepo) ListByItem(_ context.Context, itemID string) ([]*entity.StockTransaction, error) {
	var list []*entity.StockTransaction
	r.s.read(r.held, func(st *state) {
		list = collectTxs(st, func(t entity.StockTransaction) bool { return t.ItemID == itemID })
	})
	return list, nil
}

func (r *txRepo) ListByOwner(_ context.Context, ownerID string, limit, offset int) ([]*entity.StockTransaction, error) {
	var list []*entity.StockTransaction
	r.s.read(r.held, func(st *state) {
		list = collectTxs(st, func(t entity.StockTransaction) bool { return t.OwnerID == ownerID })
	})
	return paginate(list, limit, offset), nil
}

func (r *txRepo) CountByOwner(_ context.Context, ownerID string) (int, error) {
	n := 0
	r.s.read(r.held, func(st *state) {
		for _, t := range st.txs {
			if t.OwnerID == ownerID {
				n++
			}
		}
	})
	return n, nil
}

func (r *txRepo) Update(_ context.Context, tx *entity.StockTransaction) error {
	return r.s.write(r.held, func(st *state) error {
		cur, ok := st.txs[tx.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Quantity = tx.Quantity
		cur.PersonName = tx.PersonName
		cur.Notes = tx.Notes
		cur.UpdatedAt = tx.UpdatedAt
		st.txs[tx.ID] = cur
		return nil
	})
}

func (r *txRepo) Delete(_ context.Context, id string) error {
	return r.s.write(r.held, func(st *state) error {
		if _, ok := st.txs[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.txs, id)
		delete(st.seq, id)
		return nil
	})
}

func (r *txRepo) DeleteByItem(_ context.Context, itemID string) error {
	return r.s.write(r.held, func(st *state) error {
		for id, t := range st.txs {
			if t.ItemID == itemID {
				delete(st.txs, id)
				delete(st.seq, id)
			}
		}
		return nil
	})
}

// collectTxs filtra y ordena más recientes primero.
func collectTxs(st *state, keep func(entity.StockTransaction) bool) []*entity.StockTransaction {
	var list []*entity.StockTransaction
	for _, t := range st.txs {
		if keep(t) {
			t := t
			list = append(list, &t)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return st.seq[a.ID] > st.seq[b.ID]
	})
	return list
}

func sortItems(list []*entity.StockItem) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
