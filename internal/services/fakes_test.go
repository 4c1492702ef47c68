package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"construction_inventory_backend/internal/models"
	"construction_inventory_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// memStore is an in-memory stand-in for the PostgreSQL schema. It enforces the
// same UNIQUE, RESTRICT and CASCADE rules the migrations declare.
type memStore struct {
	mu           sync.Mutex
	nextID       int64
	categories   map[int64]models.MaterialCategory
	units        map[int64]models.UnitOfMeasure
	materials    map[int64]models.ConstructionMaterial
	transactions []models.MaterialTransaction
	users        map[int64]models.User
	hashes       map[int64]string
	priceErr     error
}

func newMemStore() *memStore {
	return &memStore{
		categories: map[int64]models.MaterialCategory{},
		units:      map[int64]models.UnitOfMeasure{},
		materials:  map[int64]models.ConstructionMaterial{},
		users:      map[int64]models.User{},
		hashes:     map[int64]string{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func duplicate(constraint string) error {
	return &repositories.ConstraintError{Kind: repositories.ErrDuplicateKey, Constraint: constraint}
}

func restricted(constraint string) error {
	return &repositories.ConstraintError{Kind: repositories.ErrForeignKeyViolation, Constraint: constraint}
}

// fakeTx runs fn directly; memStore methods are individually locked.
type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTx(_ context.Context, fn func(repositories.SQLExecutor) error) error {
	f.calls++
	return fn(nil)
}

func (f *fakeTx) DB() repositories.SQLExecutor { return nil }

// --- CategoryRepository ---

func (s *memStore) CreateCategory(_ context.Context, _ repositories.SQLExecutor, c *models.MaterialCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.categories {
		if existing.Name == c.Name {
			return duplicate("material_categories_name_key")
		}
	}
	c.ID = s.id()
	s.categories[c.ID] = *c
	return nil
}

func (s *memStore) GetCategoryByID(_ context.Context, _ repositories.SQLExecutor, id int64) (*models.MaterialCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

func (s *memStore) ListCategories(_ context.Context, search string) ([]models.MaterialCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.MaterialCategory
	for _, c := range s.categories {
		if contains(c.Name, search) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) UpdateCategory(_ context.Context, _ repositories.SQLExecutor, c *models.MaterialCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[c.ID]; !ok {
		return repositories.ErrNotFound
	}
	for id, existing := range s.categories {
		if id != c.ID && existing.Name == c.Name {
			return duplicate("material_categories_name_key")
		}
	}
	s.categories[c.ID] = *c
	return nil
}

func (s *memStore) DeleteCategory(_ context.Context, _ repositories.SQLExecutor, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return repositories.ErrNotFound
	}
	for _, m := range s.materials {
		if m.CategoryID == id {
			return restricted("construction_materials_category_id_fkey")
		}
	}
	delete(s.categories, id)
	return nil
}

// --- UnitRepository ---

func (s *memStore) CreateUnit(_ context.Context, _ repositories.SQLExecutor, u *models.UnitOfMeasure) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.uniqueUnit(u); err != nil {
		return err
	}
	u.ID = s.id()
	s.units[u.ID] = *u
	return nil
}

func (s *memStore) uniqueUnit(u *models.UnitOfMeasure) error {
	for id, existing := range s.units {
		if id == u.ID {
			continue
		}
		if existing.Name == u.Name {
			return duplicate("units_of_measure_name_key")
		}
		if existing.Abbreviation == u.Abbreviation {
			return duplicate("units_of_measure_abbreviation_key")
		}
	}
	return nil
}

func (s *memStore) GetUnitByID(_ context.Context, _ repositories.SQLExecutor, id int64) (*models.UnitOfMeasure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.units[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (s *memStore) ListUnits(_ context.Context, search string) ([]models.UnitOfMeasure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.UnitOfMeasure
	for _, u := range s.units {
		if contains(u.Name, search) || contains(u.Abbreviation, search) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) UpdateUnit(_ context.Context, _ repositories.SQLExecutor, u *models.UnitOfMeasure) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.units[u.ID]; !ok {
		return repositories.ErrNotFound
	}
	if err := s.uniqueUnit(u); err != nil {
		return err
	}
	s.units[u.ID] = *u
	return nil
}

func (s *memStore) DeleteUnit(_ context.Context, _ repositories.SQLExecutor, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.units[id]; !ok {
		return repositories.ErrNotFound
	}
	for _, m := range s.materials {
		if m.UnitOfMeasureID == id {
			return restricted("construction_materials_unit_of_measure_id_fkey")
		}
	}
	delete(s.units, id)
	return nil
}

// --- MaterialRepository ---

func (s *memStore) joined(m models.ConstructionMaterial) models.ConstructionMaterial {
	if c, ok := s.categories[m.CategoryID]; ok {
		m.Category = &c
	}
	if u, ok := s.units[m.UnitOfMeasureID]; ok {
		m.UnitOfMeasure = &u
	}
	return m
}

func (s *memStore) CreateMaterial(_ context.Context, _ repositories.SQLExecutor, m *models.ConstructionMaterial) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[m.CategoryID]; !ok {
		return restricted("construction_materials_category_id_fkey")
	}
	if _, ok := s.units[m.UnitOfMeasureID]; !ok {
		return restricted("construction_materials_unit_of_measure_id_fkey")
	}
	m.ID = s.id()
	stored := *m
	stored.Category, stored.UnitOfMeasure = nil, nil
	s.materials[m.ID] = stored
	return nil
}

func (s *memStore) GetMaterialByID(_ context.Context, _ repositories.SQLExecutor, id int64) (*models.ConstructionMaterial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.materials[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	m = s.joined(m)
	return &m, nil
}

func (s *memStore) LockMaterial(ctx context.Context, ex repositories.SQLExecutor, id int64) (*models.ConstructionMaterial, error) {
	return s.GetMaterialByID(ctx, ex, id)
}

func (s *memStore) filteredMaterials(filter models.MaterialFilter) []models.ConstructionMaterial {
	var out []models.ConstructionMaterial
	for _, m := range s.materials {
		if filter.CategoryID != nil && m.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.UnitID != nil && m.UnitOfMeasureID != *filter.UnitID {
			continue
		}
		if !contains(m.Name, filter.Search) && !contains(m.Notes, filter.Search) {
			continue
		}
		out = append(out, s.joined(m))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (s *memStore) ListMaterials(_ context.Context, filter models.MaterialFilter, page, pageSize int) ([]models.ConstructionMaterial, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.filteredMaterials(filter)
	start := (page - 1) * pageSize
	if start >= len(all) {
		return []models.ConstructionMaterial{}, len(all), nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (s *memStore) ListAllMaterials(_ context.Context, filter models.MaterialFilter) ([]models.ConstructionMaterial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filteredMaterials(filter), nil
}

func (s *memStore) UpdateMaterial(_ context.Context, _ repositories.SQLExecutor, m *models.ConstructionMaterial) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.materials[m.ID]; !ok {
		return repositories.ErrNotFound
	}
	if _, ok := s.categories[m.CategoryID]; !ok {
		return restricted("construction_materials_category_id_fkey")
	}
	if _, ok := s.units[m.UnitOfMeasureID]; !ok {
		return restricted("construction_materials_unit_of_measure_id_fkey")
	}
	stored := *m
	stored.Category, stored.UnitOfMeasure = nil, nil
	s.materials[m.ID] = stored
	return nil
}

func (s *memStore) DeleteMaterial(_ context.Context, _ repositories.SQLExecutor, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.materials[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.materials, id)
	kept := s.transactions[:0]
	for _, t := range s.transactions {
		if t.MaterialID != id {
			kept = append(kept, t)
		}
	}
	s.transactions = kept
	return nil
}

func (s *memStore) GetPrice(_ context.Context, id int64) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.priceErr != nil {
		return decimal.Zero, s.priceErr
	}
	m, ok := s.materials[id]
	if !ok {
		return decimal.Zero, repositories.ErrNotFound
	}
	return m.PricePerUnit, nil
}

// --- TransactionRepository ---

func (s *memStore) CreateTransaction(_ context.Context, _ repositories.SQLExecutor, t *models.MaterialTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.materials[t.MaterialID]; !ok {
		return restricted("material_transactions_material_id_fkey")
	}
	t.ID = s.id()
	stored := *t
	stored.Material = nil
	s.transactions = append(s.transactions, stored)
	return nil
}

func (s *memStore) withMaterial(t models.MaterialTransaction) models.MaterialTransaction {
	if m, ok := s.materials[t.MaterialID]; ok {
		m = s.joined(m)
		t.Material = &m
	}
	return t
}

func (s *memStore) GetTransactionByID(_ context.Context, id int64) (*models.MaterialTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.transactions {
		if t.ID == id {
			t = s.withMaterial(t)
			return &t, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// newestFirst returns matching transactions ordered by descending id.
func (s *memStore) newestFirst(keep func(models.MaterialTransaction) bool) []models.MaterialTransaction {
	var out []models.MaterialTransaction
	for i := len(s.transactions) - 1; i >= 0; i-- {
		if keep(s.transactions[i]) {
			out = append(out, s.withMaterial(s.transactions[i]))
		}
	}
	return out
}

func (s *memStore) ListTransactions(_ context.Context, filter models.TransactionFilter, page, pageSize int) ([]models.MaterialTransaction, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.newestFirst(func(t models.MaterialTransaction) bool {
		if filter.MaterialID != nil && t.MaterialID != *filter.MaterialID {
			return false
		}
		if filter.Type != nil && t.TransactionType != *filter.Type {
			return false
		}
		return contains(t.Reference, filter.Search) || contains(t.Notes, filter.Search) ||
			contains(s.materials[t.MaterialID].Name, filter.Search)
	})
	start := (page - 1) * pageSize
	if start >= len(all) {
		return []models.MaterialTransaction{}, len(all), nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (s *memStore) ListRecent(_ context.Context, materialID *int64, limit int) ([]models.MaterialTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.newestFirst(func(t models.MaterialTransaction) bool {
		return materialID == nil || t.MaterialID == *materialID
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *memStore) CountForMaterial(_ context.Context, _ repositories.SQLExecutor, materialID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.transactions {
		if t.MaterialID == materialID {
			n++
		}
	}
	return n, nil
}

// --- DashboardRepository ---

func (s *memStore) TotalInventoryValue(_ context.Context) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, m := range s.materials {
		total = total.Add(m.StockValue())
	}
	return total, nil
}

func (s *memStore) CountMaterials(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.materials), nil
}

func (s *memStore) LowStockItems(_ context.Context) ([]models.ConstructionMaterial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ConstructionMaterial
	for _, m := range s.filteredMaterials(models.MaterialFilter{}) {
		if m.IsLowStock() {
			out = append(out, m)
		}
	}
	return out, nil
}

// --- AuthRepository ---

func (s *memStore) CreateUser(_ context.Context, _ repositories.SQLExecutor, u *models.User, hash string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return 0, duplicate("users_username_key")
		}
	}
	u.ID = s.id()
	u.IsActive = true
	s.users[u.ID] = *u
	s.hashes[u.ID] = hash
	return u.ID, nil
}

func (s *memStore) FindUserByUsername(_ context.Context, username string) (*models.User, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, u := range s.users {
		if u.Username == username {
			return &u, s.hashes[id], nil
		}
	}
	return nil, "", repositories.ErrNotFound
}

func (s *memStore) FindUserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (s *memStore) CountUsers(_ context.Context, _ repositories.SQLExecutor) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users), nil
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

var (
	_ repositories.CategoryRepository    = (*memStore)(nil)
	_ repositories.UnitRepository        = (*memStore)(nil)
	_ repositories.MaterialRepository    = (*memStore)(nil)
	_ repositories.TransactionRepository = (*memStore)(nil)
	_ repositories.DashboardRepository   = (*memStore)(nil)
	_ repositories.AuthRepository        = (*memStore)(nil)
)

// testServices wires every service over one memStore.
type testServices struct {
	store        *memStore
	tx           *fakeTx
	registry     RegistryService
	materials    MaterialService
	transactions TransactionService
	dashboard    DashboardService
	export       ExportService
}

func newTestServices() *testServices {
	store := newMemStore()
	tx := &fakeTx{}
	return &testServices{
		store:        store,
		tx:           tx,
		registry:     NewRegistryService(store, store, tx),
		materials:    NewMaterialService(store, store, store, store, tx),
		transactions: NewTransactionService(store, store, tx),
		dashboard:    NewDashboardService(store, store),
		export:       NewExportService(store),
	}
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func int64Ptr(v int64) *int64 { return &v }
