// Package repository implements all relational access for the bridge. It has
// no knowledge of the consumer's object model: every operation takes and
// returns plain records. Lookups report absence as a nil record with a nil
// error; malformed key input is treated the same way, never as a failure.
package repository

import (
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/fedbridge/fedbridge/pkg/fedbridge/federation"
)

var (
	// ErrUserExists, ErrGroupExists, ErrRoleExists and ErrPermissionExists
	// report a natural-key conflict at creation time so callers can answer
	// "already exists" instead of failing.
	ErrUserExists       = errors.New("repository: user already exists")
	ErrGroupExists      = errors.New("repository: group already exists")
	ErrRoleExists       = errors.New("repository: role already exists")
	ErrPermissionExists = errors.New("repository: permission already exists")

	// ErrNotFound is returned by targeted updates (federated-ID patch-back)
	// when the row has vanished. Plain lookups never return it.
	ErrNotFound = errors.New("repository: record not found")
)

// parseKey converts a decimal local-key string to a primary key. ok is false
// for non-numeric input, which callers treat as "not found".
func parseKey(key string) (uint, bool) {
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

// paginate applies the optional offset/limit from SearchParams.
func paginate(q *gorm.DB, p federation.SearchParams) *gorm.DB {
	if p.First > 0 {
		q = q.Offset(p.First)
	}
	if p.Max > 0 {
		q = q.Limit(p.Max)
	}
	return q
}

// likePattern builds the case-insensitive substring pattern for a text filter.
func likePattern(text string) string {
	return "%" + strings.ToLower(text) + "%"
}

// notFoundIsNil maps gorm's record-not-found to the nil sentinel.
func notFoundIsNil(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
