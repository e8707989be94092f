package sqlite

import (
	"context"
	"time"

	"github.com/jakbu/jakbu/internal/jakbu/domain"
)

const identityColumns = `id, local_key, password_hash, display_name, email,
	provider_subject_id, push_address, refresh_token_hash, created_at, updated_at`

type identitiesRepo struct {
	db  dbtx
	now func() time.Time
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIdentity(row scanner) (domain.Identity, error) {
	var i domain.Identity
	err := row.Scan(
		&i.ID,
		&i.LocalKey,
		&i.PasswordHash,
		&i.DisplayName,
		&i.Email,
		&i.ProviderSubjectID,
		&i.PushAddress,
		&i.RefreshTokenHash,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	return i, nil
}

func (r *identitiesRepo) getOne(ctx context.Context, where string, arg any) (domain.Identity, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE `+where+` ORDER BY id LIMIT 1`, arg)
	return scanIdentity(row)
}

func (r *identitiesRepo) GetByID(ctx context.Context, id int64) (domain.Identity, error) {
	return r.getOne(ctx, `id = ?`, id)
}

func (r *identitiesRepo) GetByLocalKey(ctx context.Context, key string) (domain.Identity, error) {
	return r.getOne(ctx, `local_key = ?`, key)
}

func (r *identitiesRepo) GetByProviderSubjectID(ctx context.Context, subjectID string) (domain.Identity, error) {
	return r.getOne(ctx, `provider_subject_id = ?`, subjectID)
}

func (r *identitiesRepo) GetByEmail(ctx context.Context, email string) (domain.Identity, error) {
	return r.getOne(ctx, `email = ?`, email)
}

func (r *identitiesRepo) GetByRefreshTokenHash(ctx context.Context, hash string) (domain.Identity, error) {
	return r.getOne(ctx, `refresh_token_hash = ?`, hash)
}

func (r *identitiesRepo) Create(ctx context.Context, i *domain.Identity) error {
	now := r.now()
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO identities (local_key, password_hash, display_name, email,
			provider_subject_id, push_address, refresh_token_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING id`,
		i.LocalKey, i.PasswordHash, i.DisplayName, i.Email,
		i.ProviderSubjectID, i.PushAddress, i.RefreshTokenHash, now, now,
	).Scan(&i.ID)
	if err != nil {
		return mapUnique(err)
	}
	i.CreatedAt = now
	i.UpdatedAt = now
	return nil
}

func (r *identitiesRepo) Update(ctx context.Context, i *domain.Identity) error {
	now := r.now()
	res, err := r.db.ExecContext(ctx,
		`UPDATE identities SET local_key = ?, password_hash = ?, display_name = ?, email = ?,
			provider_subject_id = ?, push_address = ?, refresh_token_hash = ?, updated_at = ?
		 WHERE id = ?`,
		i.LocalKey, i.PasswordHash, i.DisplayName, i.Email,
		i.ProviderSubjectID, i.PushAddress, i.RefreshTokenHash, now, i.ID,
	)
	if err != nil {
		return mapUnique(err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	i.UpdatedAt = now
	return nil
}

func (r *identitiesRepo) SetRefreshTokenHash(ctx context.Context, id int64, hash *string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE identities SET refresh_token_hash = ?, updated_at = ? WHERE id = ?`,
		hash, r.now(), id)
	if err != nil {
		return mapUnique(err)
	}
	return requireAffected(res)
}

func (r *identitiesRepo) ClearRefreshTokenHash(ctx context.Context, id int64, expected string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE identities SET refresh_token_hash = NULL, updated_at = ?
		 WHERE id = ? AND refresh_token_hash = ?`,
		r.now(), id, expected)
	return err
}

func (r *identitiesRepo) SetPushAddress(ctx context.Context, id int64, addr *string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE identities SET push_address = ?, updated_at = ? WHERE id = ?`,
		addr, r.now(), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *identitiesRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM identities WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
