package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/folio-admin-cli/internal/domain"
)

var (
	errUnknownID   = errors.New("no entry matches id")
	errAmbiguousID = errors.New("ambiguous id prefix")
)

// resolveEntityID accepts a full id or a unique prefix of one in items.
func resolveEntityID[T domain.Entity](items []T, raw string) (string, error) {
	requested := strings.TrimSpace(raw)
	if requested == "" {
		return "", fmt.Errorf("id must not be empty")
	}

	var matches []string
	for _, item := range items {
		id := item.EntityID()
		if id == requested {
			return id, nil
		}
		if strings.HasPrefix(id, requested) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w %q", errUnknownID, requested)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w %q matches %s", errAmbiguousID, requested, strings.Join(matches, ", "))
	}
}
