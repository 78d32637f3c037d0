package service

import (
	"strings"

	"github.com/amoskalev/notepanel/database"
	"github.com/amoskalev/notepanel/database/model"

	"gorm.io/gorm"
)

const blogLimit = 100

// NoteService manages notes. Every query is scoped to the session user, so a
// foreign note id looks exactly like a missing one.
type NoteService struct {
	db *gorm.DB
}

func NewNoteService(db *gorm.DB) *NoteService {
	return &NoteService{db: db}
}

// NotePatch is a partial note update. Nil fields keep the stored value.
type NotePatch struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Published *bool   `json:"published"`
}

type BlogPost struct {
	Id          int    `json:"id"`
	Title       string `json:"title"`
	ContentMd   string `json:"content_md"`
	UpdatedAt   int64  `json:"updated_at"`
	AuthorEmail string `json:"author_email"`
}

func (s *NoteService) List(ctx *SessionContext) ([]model.Note, error) {
	notes := make([]model.Note, 0)
	err := s.db.Where("user_id = ?", ctx.UserID).
		Order("updated_at DESC, id DESC").
		Find(&notes).Error
	return notes, err
}

func (s *NoteService) Create(ctx *SessionContext, title, content string, published bool) (*model.Note, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	note := &model.Note{
		UserId:    ctx.UserID,
		Title:     title,
		ContentMd: content,
		Published: published,
	}
	if err := s.db.Create(note).Error; err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) Update(ctx *SessionContext, id int, patch NotePatch) (*model.Note, error) {
	note := &model.Note{}
	err := s.db.Where("id = ? AND user_id = ?", id, ctx.UserID).First(note).Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		note.Title = strings.TrimSpace(*patch.Title)
	}
	if note.Title == "" {
		return nil, ErrTitleRequired
	}
	if patch.Content != nil {
		note.ContentMd = *patch.Content
	}
	if patch.Published != nil {
		note.Published = *patch.Published
	}

	err = s.db.Model(note).
		Select("title", "content_md", "published", "updated_at").
		Updates(note).Error
	if err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) Delete(ctx *SessionContext, id int) error {
	res := s.db.Where("id = ? AND user_id = ?", id, ctx.UserID).Delete(&model.Note{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Published returns the newest published notes of all users.
func (s *NoteService) Published() ([]BlogPost, error) {
	posts := make([]BlogPost, 0)
	err := s.db.Model(&model.Note{}).
		Select("notes.id, notes.title, notes.content_md, notes.updated_at, users.email AS author_email").
		Joins("JOIN users ON users.id = notes.user_id").
		Where("notes.published = ?", true).
		Order("notes.updated_at DESC, notes.id DESC").
		Limit(blogLimit).
		Scan(&posts).Error
	return posts, err
}
