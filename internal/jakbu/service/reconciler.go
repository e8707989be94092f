package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jakbu/jakbu/internal/jakbu/domain"
	"github.com/jakbu/jakbu/internal/jakbu/federation"
	"github.com/jakbu/jakbu/internal/jakbu/store"
	"github.com/jakbu/jakbu/pkg/slogx"
)

// DefaultFallbackNamePrefix is prepended to the subject id when the
// provider sends no nickname.
const DefaultFallbackNamePrefix = "카카오사용자"

// Reconciler maps a provider identity onto exactly one local identity,
// linking an existing local account by email when it is still unlinked.
type Reconciler struct {
	Store              store.Store
	FallbackNamePrefix string
}

// Resolve runs the reconciliation in its own transaction.
func (r *Reconciler) Resolve(ctx context.Context, remote federation.RemoteIdentity) (*domain.Identity, error) {
	var out *domain.Identity
	err := r.Store.WithTx(ctx, func(tx store.Tx) error {
		i, err := r.resolve(ctx, tx, remote)
		if err != nil {
			return err
		}
		out = i
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Reconciler) resolve(ctx context.Context, s store.Store, remote federation.RemoteIdentity) (*domain.Identity, error) {
	l := slogx.FromContext(ctx)
	if remote.SubjectID == "" {
		return nil, &federationError{cause: &federation.Error{
			Reason: federation.ReasonMalformedResponse,
			Op:     "fetch_identity",
			Err:    errors.New("missing id"),
		}}
	}

	// 1. Already linked.
	existing, err := s.Identities().GetByProviderSubjectID(ctx, remote.SubjectID)
	switch {
	case err == nil:
		return &existing, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("lookup by subject: %w", err)
	}

	// 2. Link an unlinked account sharing the email.
	email := strings.TrimSpace(remote.Email)
	if email != "" {
		candidate, err := r.findByEmail(ctx, s, email)
		if err != nil {
			return nil, err
		}
		if candidate != nil && !candidate.IsLinked() {
			candidate.ProviderSubjectID = domain.Ptr(remote.SubjectID)
			if candidate.Email == nil {
				taken, err := r.emailTaken(ctx, s, email)
				if err != nil {
					return nil, err
				}
				if !taken {
					candidate.Email = domain.Ptr(email)
				}
			}
			if err := s.Identities().Update(ctx, candidate); err != nil {
				return nil, fmt.Errorf("link identity: %w", err)
			}
			l.Info("linked provider subject to existing identity", "identity_id", candidate.ID)
			return candidate, nil
		}
	}

	// 3. New identity.
	return r.create(ctx, s, remote, email)
}

// findByEmail checks the local key first since local accounts may sign up
// with their email as account id.
func (r *Reconciler) findByEmail(ctx context.Context, s store.Store, email string) (*domain.Identity, error) {
	i, err := s.Identities().GetByLocalKey(ctx, email)
	if err == nil {
		return &i, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup by local key: %w", err)
	}

	i, err = s.Identities().GetByEmail(ctx, email)
	if err == nil {
		return &i, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup by email: %w", err)
	}
	return nil, nil
}

func (r *Reconciler) create(ctx context.Context, s store.Store, remote federation.RemoteIdentity, email string) (*domain.Identity, error) {
	name := strings.TrimSpace(remote.DisplayName)
	if name == "" {
		prefix := r.FallbackNamePrefix
		if prefix == "" {
			prefix = DefaultFallbackNamePrefix
		}
		name = prefix + remote.SubjectID
	}

	i := domain.Identity{
		DisplayName:       name,
		ProviderSubjectID: domain.Ptr(remote.SubjectID),
	}
	if email != "" {
		taken, err := r.emailTaken(ctx, s, email)
		if err != nil {
			return nil, err
		}
		if !taken {
			i.Email = domain.Ptr(email)
		}
	}

	err := s.Identities().Create(ctx, &i)
	if errors.Is(err, store.ErrAlreadyExists) {
		// Lost a race against a concurrent login for the same subject.
		existing, lookupErr := s.Identities().GetByProviderSubjectID(ctx, remote.SubjectID)
		if lookupErr != nil {
			return nil, fmt.Errorf("lookup after conflict: %w", lookupErr)
		}
		return &existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create federated identity: %w", err)
	}

	slogx.FromContext(ctx).Info("created federated identity", "identity_id", i.ID)
	return &i, nil
}

func (r *Reconciler) emailTaken(ctx context.Context, s store.Store, email string) (bool, error) {
	_, err := s.Identities().GetByEmail(ctx, email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("lookup by email: %w", err)
	}
}
