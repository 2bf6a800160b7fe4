package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"devconnector/internal/domain"
	"devconnector/pkg/utils"
)

type ProfileRepo struct{ db *gorm.DB }

func NewProfileRepo(db *gorm.DB) *ProfileRepo { return &ProfileRepo{db: db} }

func (r *ProfileRepo) FindByUser(ctx context.Context, userID string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.withOwner(ctx, &p)
}

// List returns every profile, oldest first, each with its owner joined in.
func (r *ProfileRepo) List(ctx context.Context) ([]domain.Profile, error) {
	var ps []domain.Profile
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&ps).Error; err != nil {
		return nil, err
	}
	if err := r.attachOwners(ctx, ps); err != nil {
		return nil, err
	}
	return ps, nil
}

func (r *ProfileRepo) Upsert(ctx context.Context, userID string, f domain.ProfileFields) (*domain.Profile, error) {
	var out *domain.Profile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := lockProfile(tx, userID)
		switch {
		case errors.Is(err, domain.ErrProfileNotFound):
			p = &domain.Profile{ID: utils.NewID(), UserID: userID}
			f.Apply(p)
			if err := tx.Create(p).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			f.Apply(p)
			if err := tx.Save(p).Error; err != nil {
				return err
			}
		}
		out = p
		return nil
	})
	if isDupKey(err) {
		// a concurrent request created it first
		return r.Mutate(ctx, userID, func(p *domain.Profile) error {
			f.Apply(p)
			return nil
		})
	}
	if err != nil {
		return nil, err
	}
	return r.withOwner(ctx, out)
}

func (r *ProfileRepo) Mutate(ctx context.Context, userID string, fn func(p *domain.Profile) error) (*domain.Profile, error) {
	var out *domain.Profile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := lockProfile(tx, userID)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		if err := tx.Save(p).Error; err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.withOwner(ctx, out)
}

// lockProfile loads the user's profile inside tx, holding a row lock on
// dialects that have one.
func lockProfile(tx *gorm.DB, userID string) (*domain.Profile, error) {
	q := tx
	if tx.Dialector.Name() != "sqlite" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var p domain.Profile
	err := q.First(&p, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepo) withOwner(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	ps := []domain.Profile{*p}
	if err := r.attachOwners(ctx, ps); err != nil {
		return nil, err
	}
	return &ps[0], nil
}

func (r *ProfileRepo) attachOwners(ctx context.Context, ps []domain.Profile) error {
	if len(ps) == 0 {
		return nil
	}
	ids := make([]string, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.UserID)
	}
	var refs []domain.UserRef
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Select("id", "name", "avatar").
		Where("id IN ?", ids).
		Scan(&refs).Error
	if err != nil {
		return err
	}
	byID := make(map[string]domain.UserRef, len(refs))
	for _, u := range refs {
		byID[u.ID] = u
	}
	for i := range ps {
		if u, ok := byID[ps[i].UserID]; ok {
			ps[i].User = &u
		}
	}
	return nil
}
