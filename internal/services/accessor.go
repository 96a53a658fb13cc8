package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/cache"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/models"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaxListLimit caps the page size of List.
const MaxListLimit = 500

// ValidationError carries per-field violation codes.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f := range e.Violations {
		fields = append(fields, f)
	}
	return "validation failed: " + strings.Join(fields, ", ")
}

// ListParams filters and pages List.
type ListParams struct {
	Query      string
	Limit      int
	Offset     int
	JobOrderID *uuid.UUID
}

func (p ListParams) scope() string {
	jo := ""
	if p.JobOrderID != nil {
		jo = p.JobOrderID.String()
	}
	return fmt.Sprintf("q=%s|limit=%d|offset=%d|jo=%s", strings.ToLower(strings.TrimSpace(p.Query)), p.Limit, p.Offset, jo)
}

type normalizer interface{ Normalize() }

type validator interface {
	Validate(v validation.Violations)
}

// Options describes one table.
type Options[PT any] struct {
	// Tag is the cache entity of the table's own queries.
	Tag string
	// Dependents are cache entities derived from this table.
	Dependents    []string
	SearchColumns []string
	// Order defaults to "created_at DESC".
	Order string
	// JobOrderScoped enables ListParams.JobOrderID filtering.
	JobOrderScoped bool
	// Prepare runs inside Create before validation, e.g. to assign numbers.
	Prepare func(ctx context.Context, tx *gorm.DB, rec PT) error
	// Preserve runs inside Update before validation and copies server
	// assigned fields the caller left blank from the stored row.
	Preserve func(existing, rec PT)
}

// Accessor is the list/get/create/update/soft-delete gateway of one table.
// Itemized records (those implementing models.ItemizedRecord) get their items
// written in the same transaction and replaced wholesale on update.
type Accessor[T any, PT interface {
	*T
	models.Record
}] struct {
	db    *gorm.DB
	cache *cache.Cache
	opts  Options[PT]
}

// NewAccessor binds a table to the database and cache.
func NewAccessor[T any, PT interface {
	*T
	models.Record
}](db *gorm.DB, c *cache.Cache, opts Options[PT]) *Accessor[T, PT] {
	if opts.Order == "" {
		opts.Order = "created_at DESC"
	}
	return &Accessor[T, PT]{db: db, cache: c, opts: opts}
}

// Tag returns the cache entity of this table.
func (a *Accessor[T, PT]) Tag() string { return a.opts.Tag }

func (a *Accessor[T, PT]) itemized() (models.ItemizedRecord, bool) {
	ir, ok := any(PT(new(T))).(models.ItemizedRecord)
	return ir, ok
}

func (a *Accessor[T, PT]) query(ctx context.Context) *gorm.DB {
	q := a.db.WithContext(ctx).Model(PT(new(T)))
	if _, ok := a.itemized(); ok {
		q = q.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
	}
	return q
}

// List returns live rows. Results are cached per parameter set until the
// table is mutated; callers must not modify the returned slice.
func (a *Accessor[T, PT]) List(ctx context.Context, p ListParams) ([]T, error) {
	if p.Limit <= 0 || p.Limit > MaxListLimit {
		p.Limit = MaxListLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	key := cache.Key{Entity: a.opts.Tag, Scope: p.scope()}
	return cache.Load(a.cache, key, func() ([]T, error) {
		q := a.query(ctx)
		if term := strings.ToLower(strings.TrimSpace(p.Query)); term != "" && len(a.opts.SearchColumns) > 0 {
			like := "%" + term + "%"
			conds := make([]string, len(a.opts.SearchColumns))
			args := make([]any, len(a.opts.SearchColumns))
			for i, col := range a.opts.SearchColumns {
				conds[i] = "LOWER(" + col + ") LIKE ?"
				args[i] = like
			}
			q = q.Where(strings.Join(conds, " OR "), args...)
		}
		if a.opts.JobOrderScoped && p.JobOrderID != nil {
			q = q.Where("job_order_id = ?", *p.JobOrderID)
		}
		rows := make([]T, 0)
		err := q.Order(a.opts.Order).Limit(p.Limit).Offset(p.Offset).Find(&rows).Error
		return rows, err
	})
}

// Get returns one live row. Missing or soft-deleted rows yield gorm.ErrRecordNotFound.
func (a *Accessor[T, PT]) Get(ctx context.Context, id uuid.UUID) (PT, error) {
	rec := PT(new(T))
	if err := a.query(ctx).Where("id = ?", id).First(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

func check(rec any) error {
	if n, ok := rec.(normalizer); ok {
		n.Normalize()
	}
	if val, ok := rec.(validator); ok {
		v := validation.Violations{}
		val.Validate(v)
		if !v.Empty() {
			return &ValidationError{Violations: v}
		}
	}
	return nil
}

// Create inserts rec (and its items) and invalidates dependent caches.
func (a *Accessor[T, PT]) Create(ctx context.Context, rec PT) error {
	base := rec.BaseFields()
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if a.opts.Prepare != nil {
			if err := a.opts.Prepare(ctx, tx, rec); err != nil {
				return err
			}
		}
		if err := check(rec); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(rec).Error; err != nil {
			return err
		}
		return a.writeItems(tx, rec)
	})
	if err != nil {
		return err
	}
	a.invalidate()
	return nil
}

// Update replaces the row identified by id with rec. Items, when present,
// are deleted and reinserted.
func (a *Accessor[T, PT]) Update(ctx context.Context, id uuid.UUID, rec PT) error {
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing := PT(new(T))
		if err := tx.Where("id = ?", id).First(existing).Error; err != nil {
			return err
		}
		base := rec.BaseFields()
		base.ID = id
		base.CreatedAt = existing.BaseFields().CreatedAt
		base.DeletedAt = gorm.DeletedAt{}
		if a.opts.Preserve != nil {
			a.opts.Preserve(existing, rec)
		}
		if err := check(rec); err != nil {
			return err
		}
		if ir, ok := any(rec).(models.ItemizedRecord); ok {
			if err := tx.Where(ir.ItemForeignKey()+" = ?", id).Delete(ir.ItemModel()).Error; err != nil {
				return fmt.Errorf("delete items: %w", err)
			}
		}
		if err := tx.Omit(clause.Associations).Save(rec).Error; err != nil {
			return err
		}
		return a.writeItems(tx, rec)
	})
	if err != nil {
		return err
	}
	a.invalidate()
	return nil
}

func (a *Accessor[T, PT]) writeItems(tx *gorm.DB, rec PT) error {
	ir, ok := any(rec).(models.ItemizedRecord)
	if !ok {
		return nil
	}
	items := ir.PrepareItems()
	if items == nil {
		return nil
	}
	if err := tx.Create(items).Error; err != nil {
		return fmt.Errorf("insert items: %w", err)
	}
	return nil
}

// Delete soft-deletes the row; it then shows up in the recycle bin.
func (a *Accessor[T, PT]) Delete(ctx context.Context, id uuid.UUID) error {
	res := a.db.WithContext(ctx).Where("id = ?", id).Delete(PT(new(T)))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	a.invalidate()
	return nil
}

func (a *Accessor[T, PT]) invalidate() {
	a.cache.Invalidate(append([]string{a.opts.Tag, cache.TagRecycleBin}, a.opts.Dependents...)...)
}

// IsValidation reports whether err carries field violations.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
