package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gosimple/slug"
)

// MaxSlugLength mirrors the size of the notes.slug column.
const MaxSlugLength = 100

// SlugConflictWarning is appended to the offending slug in conflict messages.
const SlugConflictWarning = " - such a slug already exists, choose a unique one!"

var (
	ErrSlugConflict = errors.New("slug already exists")
	ErrSlugInvalid  = errors.New("slug must contain only latin letters, digits, hyphens or underscores")
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// SlugConflictError reports the slug that is already taken by another note.
type SlugConflictError struct {
	Slug string
}

func (e *SlugConflictError) Error() string {
	return e.Slug + SlugConflictWarning
}

// Is lets errors.Is(err, ErrSlugConflict) match any conflict.
func (e *SlugConflictError) Is(target error) bool {
	return target == ErrSlugConflict
}

// SlugIndex answers whether a slug is already in use.
type SlugIndex interface {
	Contains(slug string) bool
}

// SlugSet is an in-memory SlugIndex.
type SlugSet map[string]struct{}

// NewSlugSet builds a SlugSet from the given slugs.
func NewSlugSet(slugs ...string) SlugSet {
	set := make(SlugSet, len(slugs))
	for _, s := range slugs {
		set[s] = struct{}{}
	}
	return set
}

// Contains implements SlugIndex.
func (s SlugSet) Contains(slug string) bool {
	_, ok := s[slug]
	return ok
}

// DeriveSlug transliterates title into a lowercase, hyphen separated ASCII token.
func DeriveSlug(title string) string {
	derived := slug.Make(title)
	if len(derived) > MaxSlugLength {
		derived = strings.TrimRight(derived[:MaxSlugLength], "-")
	}
	return derived
}

// DeriveOrValidateSlug returns requested when it is set, otherwise a slug
// derived from title. The result must not be present in existing.
func DeriveOrValidateSlug(title, requested string, existing SlugIndex) (string, error) {
	candidate := strings.TrimSpace(requested)
	if candidate == "" {
		candidate = DeriveSlug(title)
		if candidate == "" {
			return "", fmt.Errorf("cannot derive slug from title %q: %w", title, ErrSlugInvalid)
		}
	} else if len(candidate) > MaxSlugLength || !slugPattern.MatchString(candidate) {
		return "", ErrSlugInvalid
	}

	if existing != nil && existing.Contains(candidate) {
		return "", &SlugConflictError{Slug: candidate}
	}
	return candidate, nil
}
