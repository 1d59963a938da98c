package dualrepo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gittyapp/backend/internal/infra/supabase"
)

const (
	ModeDual = "dual"
	ModeREST = "rest"
	ModeDB   = "db"
)

// NormalizeMode maps unknown values to rest.
func NormalizeMode(mode string) string {
	normalized := strings.ToLower(strings.TrimSpace(mode))
	switch normalized {
	case ModeDB, ModeREST, ModeDual:
		return normalized
	default:
		return ModeREST
	}
}

// router picks the REST or DB backend per call. In dual mode REST is tried
// first; for reads the DB answers when the REST error is fallbackable.
type router[R any] struct {
	name     string
	restRepo R
	dbRepo   R
	hasREST  bool
	hasDB    bool
	mode     string
}

func newRouter[R comparable](name string, restRepo, dbRepo R, mode string) router[R] {
	var zero R
	return router[R]{
		name:     name,
		restRepo: restRepo,
		dbRepo:   dbRepo,
		hasREST:  restRepo != zero,
		hasDB:    dbRepo != zero,
		mode:     NormalizeMode(mode),
	}
}

// callWithFallback serves reads. In dual mode a fallbackable REST error is
// retried against the DB.
func callWithFallback[R any, T any](r router[R], call func(R) (T, error)) (T, error) {
	return dispatch(r, true, call)
}

// callWrite serves writes. A write is sent to one backend only: in dual mode
// that is REST, and its error is returned as is.
func callWrite[R any, T any](r router[R], call func(R) (T, error)) (T, error) {
	return dispatch(r, false, call)
}

func callWriteErr[R any](r router[R], call func(R) error) error {
	_, err := callWrite(r, func(repo R) (struct{}, error) {
		return struct{}{}, call(repo)
	})
	return err
}

func dispatch[R any, T any](r router[R], fallback bool, call func(R) (T, error)) (T, error) {
	var zero T

	switch r.mode {
	case ModeDB:
		if !r.hasDB {
			return zero, fmt.Errorf("db %s repo is not configured", r.name)
		}
		return call(r.dbRepo)
	case ModeREST:
		if !r.hasREST {
			return zero, fmt.Errorf("rest %s repo is not configured", r.name)
		}
		return call(r.restRepo)
	default:
		if !r.hasREST {
			if !r.hasDB {
				return zero, fmt.Errorf("%s repos are not configured", r.name)
			}
			return call(r.dbRepo)
		}

		value, err := call(r.restRepo)
		if err == nil {
			return value, nil
		}
		if !fallback || !r.hasDB || !supabase.IsFallbackable(err) {
			return zero, err
		}
		dbValue, dbErr := call(r.dbRepo)
		if dbErr != nil {
			return zero, fmt.Errorf("rest err: %v; db fallback err: %w", err, dbErr)
		}
		return dbValue, nil
	}
}

var errNilRepo = errors.New("dual repo is nil")
