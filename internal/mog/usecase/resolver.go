package usecase

import (
	"mog/internal/mog/domain/model"
	apperrors "mog/internal/shared/errors"
)

// ResolveCollection returns the per-call collection if set, else def.
// It fails with MissingCollection when both are empty.
func ResolveCollection(verb model.Verb, opts model.Options, def string) (string, error) {
	if opts != nil {
		if c := opts.CollectionOverride(); c != "" {
			return c, nil
		}
	}
	if def != "" {
		return def, nil
	}
	return "", apperrors.NewMissingCollectionError(verb.String())
}
