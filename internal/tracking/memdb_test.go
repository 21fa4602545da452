package tracking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/persistence"
)

// memDB is an in-memory stand-in for postgres: WithinTx serializes units of
// work like a row lock and restores the previous state when fn fails.
type memDB struct {
	txMu sync.Mutex
	mu   sync.Mutex

	nextID    int
	assets    map[string]domain.Asset
	countries map[string]domain.Country
	notes     map[string]note
	records   []domain.ChangeRecord

	commits int
}

func newMemDB() *memDB {
	return &memDB{
		assets:    make(map[string]domain.Asset),
		countries: make(map[string]domain.Country),
		notes:     make(map[string]note),
	}
}

func (m *memDB) WithinTx(ctx context.Context, fn persistence.TxFunc) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	saved := m.clone()
	if err := fn(ctx, nil); err != nil {
		m.restore(saved)
		return err
	}
	m.mu.Lock()
	m.commits++
	m.mu.Unlock()
	return nil
}

func (m *memDB) Handle() persistence.DBTX { return nil }

type memState struct {
	nextID    int
	assets    map[string]domain.Asset
	countries map[string]domain.Country
	notes     map[string]note
	records   []domain.ChangeRecord
}

func (m *memDB) clone() memState {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := memState{
		nextID:    m.nextID,
		assets:    make(map[string]domain.Asset, len(m.assets)),
		countries: make(map[string]domain.Country, len(m.countries)),
		notes:     make(map[string]note, len(m.notes)),
		records:   append([]domain.ChangeRecord(nil), m.records...),
	}
	for k, v := range m.assets {
		s.assets[k] = v
	}
	for k, v := range m.countries {
		s.countries[k] = v
	}
	for k, v := range m.notes {
		s.notes[k] = v
	}
	return s
}

func (m *memDB) restore(s memState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID = s.nextID
	m.assets = s.assets
	m.countries = s.countries
	m.notes = s.notes
	m.records = s.records
}

func (m *memDB) newID(prefix string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

// list mimics the change_records read query: tenant-scoped, ascending.
func (m *memDB) list(filter domain.ChangeFilter) []domain.ChangeRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ChangeRecord
	for _, rec := range m.records {
		if rec.TenantID != filter.TenantID {
			continue
		}
		if filter.EntityType != nil && rec.EntityType != *filter.EntityType {
			continue
		}
		if filter.EntityID != nil && rec.EntityID != *filter.EntityID {
			continue
		}
		if filter.Since != nil && rec.OccurredAt.Before(*filter.Since) {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out
}

// assetRepo implements Repository[*domain.Asset].
type assetRepo struct {
	db *memDB

	failCreate     error
	failUpdate     error
	failGetAfterOp bool
	mutated        bool
}

func (r *assetRepo) Get(_ context.Context, _ persistence.DBTX, tenantID, id string) (*domain.Asset, error) {
	if r.failGetAfterOp && r.mutated {
		return nil, errors.New("connection reset")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.assets[id]
	if !ok || a.TenantID != tenantID {
		return nil, pgx.ErrNoRows
	}
	return &a, nil
}

func (r *assetRepo) GetForUpdate(ctx context.Context, db persistence.DBTX, tenantID, id string) (*domain.Asset, error) {
	return r.Get(ctx, db, tenantID, id)
}

func (r *assetRepo) Create(_ context.Context, _ persistence.DBTX, a *domain.Asset) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	a.ID = r.db.newID("asset")
	r.db.mu.Lock()
	r.db.assets[a.ID] = *a
	r.db.mu.Unlock()
	r.mutated = true
	return nil
}

func (r *assetRepo) Update(_ context.Context, _ persistence.DBTX, a *domain.Asset) error {
	if r.failUpdate != nil {
		return r.failUpdate
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.assets[a.ID]
	if !ok || cur.TenantID != a.TenantID {
		return pgx.ErrNoRows
	}
	r.db.assets[a.ID] = *a
	r.mutated = true
	return nil
}

// countryRepo implements Repository[*domain.Country].
type countryRepo struct {
	db *memDB
}

func (r *countryRepo) Get(_ context.Context, _ persistence.DBTX, tenantID, id string) (*domain.Country, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.countries[id]
	if !ok || c.TenantID != tenantID {
		return nil, pgx.ErrNoRows
	}
	return &c, nil
}

func (r *countryRepo) GetForUpdate(ctx context.Context, db persistence.DBTX, tenantID, id string) (*domain.Country, error) {
	return r.Get(ctx, db, tenantID, id)
}

func (r *countryRepo) Create(_ context.Context, _ persistence.DBTX, c *domain.Country) error {
	c.ID = r.db.newID("country")
	r.db.mu.Lock()
	r.db.countries[c.ID] = *c
	r.db.mu.Unlock()
	return nil
}

func (r *countryRepo) Update(_ context.Context, _ persistence.DBTX, c *domain.Country) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.countries[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.db.countries[c.ID] = *c
	return nil
}

// note is an entity type that is deliberately absent from every registry.
type note struct {
	ID       string
	TenantID string
	Body     string `audit:"body"`
}

func (n *note) EntityRef() domain.EntityRef {
	return domain.EntityRef{TenantID: n.TenantID, Type: "note", ID: n.ID}
}

type noteRepo struct {
	db *memDB
}

func (r *noteRepo) Get(_ context.Context, _ persistence.DBTX, tenantID, id string) (*note, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n, ok := r.db.notes[id]
	if !ok || n.TenantID != tenantID {
		return nil, pgx.ErrNoRows
	}
	return &n, nil
}

func (r *noteRepo) GetForUpdate(ctx context.Context, db persistence.DBTX, tenantID, id string) (*note, error) {
	return r.Get(ctx, db, tenantID, id)
}

func (r *noteRepo) Create(_ context.Context, _ persistence.DBTX, n *note) error {
	n.ID = r.db.newID("note")
	r.db.mu.Lock()
	r.db.notes[n.ID] = *n
	r.db.mu.Unlock()
	return nil
}

func (r *noteRepo) Update(_ context.Context, _ persistence.DBTX, n *note) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.notes[n.ID] = *n
	return nil
}

// memStore implements RecordStore on memDB.
type memStore struct {
	db         *memDB
	failInsert error
}

func (s *memStore) LastOccurredAt(_ context.Context, _ persistence.DBTX, ref domain.EntityRef) (time.Time, bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var last time.Time
	found := false
	for _, rec := range s.db.records {
		if rec.Ref() != ref {
			continue
		}
		if !found || rec.OccurredAt.After(last) {
			last, found = rec.OccurredAt, true
		}
	}
	return last, found, nil
}

func (s *memStore) Insert(_ context.Context, _ persistence.DBTX, rec *domain.ChangeRecord) error {
	if s.failInsert != nil {
		return s.failInsert
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	rec.Seq = int64(len(s.db.records) + 1)
	s.db.records = append(s.db.records, *rec)
	return nil
}

// memResolver resolves countries straight from memDB and fails for ids in broken.
type memResolver struct {
	db     *memDB
	broken map[string]bool
}

func (r *memResolver) Resolve(_ context.Context, _ persistence.DBTX, tenantID string, refType domain.EntityType, id string) (map[string]any, error) {
	if r.broken[id] {
		return nil, errors.New("lookup timeout")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	switch refType {
	case domain.EntityTypeCountry:
		c, ok := r.db.countries[id]
		if !ok || c.TenantID != tenantID {
			return nil, ErrReferenceNotFound
		}
		return map[string]any{
			"name":                c.Name,
			"code":                c.Code,
			"isEuEea":             c.IsEUEEA,
			"hasAdequacyDecision": c.HasAdequacyDecision,
		}, nil
	}
	return nil, ErrReferenceNotFound
}
