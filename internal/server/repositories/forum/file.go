package forum

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/cropcare/internal/common"
	"github.com/dmitrijs2005/cropcare/internal/logging"
	"github.com/dmitrijs2005/cropcare/internal/server/models"
	"github.com/google/uuid"
)

// FileRepository is a Repository backed by one JSON file.
//
// Unlike the user document, a corrupt forum document is not kept around: it
// is logged and reset to an empty forum.
type FileRepository struct {
	path   string
	logger logging.Logger
	mu     sync.Mutex
	newID  func() string
}

func NewFileRepository(path string, logger logging.Logger) *FileRepository {
	return &FileRepository{
		path:   path,
		logger: logger.With("module", "forum_store", "path", path),
		newID:  uuid.NewString,
	}
}

func (r *FileRepository) Path() string { return r.path }

func (r *FileRepository) Load(ctx context.Context) (*models.Forum, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		f := emptyForum()
		if err := r.write(f); err != nil {
			return nil, err
		}
		r.logger.Info(ctx, "created empty forum document")
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read forum document: %w", err)
	}

	f, dropped, err := decode(data)
	if err != nil {
		r.logger.Error(ctx, "forum document corrupt, resetting to empty",
			"error", fmt.Errorf("%w: %v", common.ErrStorageCorrupt, err))
		empty := emptyForum()
		if err := r.write(empty); err != nil {
			return nil, err
		}
		return empty, nil
	}

	if dropped > 0 {
		r.logger.Warn(ctx, "dropped unreadable forum entries", "count", dropped)
	}
	if r.normalize(f) || dropped > 0 {
		if err := r.write(f); err != nil {
			return nil, err
		}
		r.logger.Info(ctx, "forum document upgraded")
	}

	return f, nil
}

// rawPost defers decoding of replies so one bad reply only costs itself.
type rawPost struct {
	models.Post
	Replies []json.RawMessage `json:"replies"`
}

// decode reads the document entry by entry. Posts and replies that do not
// decode are dropped and counted; only a malformed envelope is an error.
func decode(data []byte) (*models.Forum, int, error) {
	var doc struct {
		Posts []json.RawMessage `json:"posts"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, 0, err
	}

	f := &models.Forum{Posts: make([]*models.Post, 0, len(doc.Posts))}
	dropped := 0
	for _, raw := range doc.Posts {
		if isNull(raw) {
			f.Posts = append(f.Posts, nil)
			continue
		}
		var rp rawPost
		if err := json.Unmarshal(raw, &rp); err != nil {
			dropped++
			continue
		}
		p := rp.Post
		if rp.Replies != nil {
			p.Replies = make([]*models.Reply, 0, len(rp.Replies))
		}
		for _, rawReply := range rp.Replies {
			if isNull(rawReply) {
				p.Replies = append(p.Replies, nil)
				continue
			}
			var reply models.Reply
			if err := json.Unmarshal(rawReply, &reply); err != nil {
				dropped++
				continue
			}
			p.Replies = append(p.Replies, &reply)
		}
		f.Posts = append(f.Posts, &p)
	}
	return f, dropped, nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

func (r *FileRepository) Save(ctx context.Context, f *models.Forum) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.write(f)
}

func (r *FileRepository) write(f *models.Forum) error {
	if f == nil {
		f = emptyForum()
	}
	if f.Posts == nil {
		f.Posts = []*models.Post{}
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode forum document: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o770); err != nil {
		return fmt.Errorf("write forum document: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o600); err != nil {
		return fmt.Errorf("write forum document: %w", err)
	}
	return nil
}

// normalize fills nil slices and assigns IDs to entries written without one.
// It reports whether IDs were assigned; slice fixes alone do not need a rewrite.
func (r *FileRepository) normalize(f *models.Forum) bool {
	changed := false

	posts := f.Posts[:0:0]
	for _, p := range f.Posts {
		if p == nil {
			changed = true
			continue
		}
		if p.ID == "" {
			p.ID = r.newID()
			changed = true
		}
		replies := p.Replies[:0:0]
		for _, rp := range p.Replies {
			if rp == nil {
				changed = true
				continue
			}
			if rp.ID == "" {
				rp.ID = r.newID()
				changed = true
			}
			replies = append(replies, rp)
		}
		if replies == nil {
			replies = []*models.Reply{}
		}
		p.Replies = replies
		posts = append(posts, p)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	f.Posts = posts

	return changed
}

func emptyForum() *models.Forum {
	return &models.Forum{Posts: []*models.Post{}}
}
