package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/notekeeper/internal/db"
	"gorm.io/gorm"
)

// MaxTitleLength mirrors the size of the notes.title column.
const MaxTitleLength = 100

var (
	ErrNoteNotFound  = errors.New("note not found")
	ErrAnonymous     = errors.New("authentication required")
	ErrTitleRequired = errors.New("title is required")
	ErrTitleTooLong  = errors.New("title is too long")
	ErrTextRequired  = errors.New("text is required")
)

// NoteInput represents fields accepted when creating or updating a note.
type NoteInput struct {
	Title string
	Text  string
	Slug  string
}

// NoteService wraps note related database operations.
type NoteService struct {
	db *gorm.DB
}

// NewNoteService creates a NoteService instance.
func NewNoteService(gdb *gorm.DB) *NoteService {
	return &NoteService{db: gdb}
}

// ListFor returns the actor's notes ordered by id ascending.
func (s *NoteService) ListFor(ctx context.Context, actor Actor) ([]db.Note, error) {
	if !actor.Authenticated() {
		return nil, ErrAnonymous
	}

	var notes []db.Note
	if err := s.db.WithContext(ctx).
		Where("author_id = ?", actor.ID).
		Order("id asc").
		Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// CountFor returns how many notes the actor owns.
func (s *NoteService) CountFor(ctx context.Context, actor Actor) (int64, error) {
	if !actor.Authenticated() {
		return 0, ErrAnonymous
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&db.Note{}).Where("author_id = ?", actor.ID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Get fetches a note by slug. Notes of other authors are reported as missing.
func (s *NoteService) Get(ctx context.Context, actor Actor, slug string) (*db.Note, error) {
	note, err := s.findBySlug(s.db.WithContext(ctx), slug)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, note); err != nil {
		return nil, err
	}
	return note, nil
}

// Create persists a new note authored by actor.
func (s *NoteService) Create(ctx context.Context, actor Actor, input NoteInput) (*db.Note, error) {
	if !actor.Authenticated() {
		return nil, ErrAnonymous
	}

	title, text, err := normalizeNoteInput(input)
	if err != nil {
		return nil, err
	}

	var note db.Note
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing := &storedSlugs{tx: tx}
		slug, err := DeriveOrValidateSlug(title, input.Slug, existing)
		if existing.err != nil {
			return existing.err
		}
		if err != nil {
			return err
		}

		note = db.Note{
			Title:    title,
			Text:     text,
			Slug:     slug,
			AuthorID: actor.ID,
		}
		return translateSlugError(tx.Create(&note).Error, slug)
	})
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// Update applies new field values to the actor's note identified by slug.
// The author never changes.
func (s *NoteService) Update(ctx context.Context, actor Actor, slug string, input NoteInput) (*db.Note, error) {
	var note *db.Note
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := s.findBySlug(tx, slug)
		if err != nil {
			return err
		}
		if err := authorize(actor, found); err != nil {
			return err
		}

		title, text, err := normalizeNoteInput(input)
		if err != nil {
			return err
		}

		existing := &storedSlugs{tx: tx, excludeID: found.ID}
		newSlug, err := DeriveOrValidateSlug(title, input.Slug, existing)
		if existing.err != nil {
			return existing.err
		}
		if err != nil {
			return err
		}

		found.Title = title
		found.Text = text
		found.Slug = newSlug
		if err := tx.Model(found).
			Select("title", "text", "slug", "updated_at").
			Updates(found).Error; err != nil {
			return translateSlugError(err, newSlug)
		}
		note = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

// Delete removes the actor's note identified by slug.
func (s *NoteService) Delete(ctx context.Context, actor Actor, slug string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		note, err := s.findBySlug(tx, slug)
		if err != nil {
			return err
		}
		if err := authorize(actor, note); err != nil {
			return err
		}
		return tx.Delete(&db.Note{}, note.ID).Error
	})
}

func (s *NoteService) findBySlug(tx *gorm.DB, slug string) (*db.Note, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrNoteNotFound
	}

	var note db.Note
	if err := tx.Where("slug = ?", slug).First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return &note, nil
}

// authorize maps a denied access to ErrNoteNotFound so that callers cannot
// tell someone else's note apart from a missing one.
func authorize(actor Actor, note *db.Note) error {
	if !CanAccess(actor, note) {
		return ErrNoteNotFound
	}
	return nil
}

func normalizeNoteInput(input NoteInput) (string, string, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return "", "", ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", "", ErrTitleTooLong
	}

	text := strings.TrimSpace(input.Text)
	if text == "" {
		return "", "", ErrTextRequired
	}
	return title, text, nil
}

func translateSlugError(err error, slug string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &SlugConflictError{Slug: slug}
	}
	return err
}

// storedSlugs is a SlugIndex backed by the notes table. The first query
// error is kept in err.
type storedSlugs struct {
	tx        *gorm.DB
	excludeID uint
	err       error
}

func (s *storedSlugs) Contains(slug string) bool {
	query := s.tx.Model(&db.Note{}).Where("slug = ?", slug)
	if s.excludeID != 0 {
		query = query.Where("id <> ?", s.excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		s.err = err
		return false
	}
	return count > 0
}
