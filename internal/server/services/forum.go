package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/cropcare/internal/common"
	"github.com/dmitrijs2005/cropcare/internal/logging"
	"github.com/dmitrijs2005/cropcare/internal/server/models"
	"github.com/dmitrijs2005/cropcare/internal/server/repositories/forum"
	"github.com/dmitrijs2005/cropcare/internal/server/repositories/images"
	"github.com/dmitrijs2005/cropcare/internal/server/session"
	"github.com/google/uuid"
)

const defaultTag = "General"

const maxImageNameAttempts = 10

// Upload is an optional image attached to a post or reply.
type Upload struct {
	Filename string
	Body     io.Reader
	Size     int64
}

type ForumService struct {
	repo   forum.Repository
	images images.Store
	logger logging.Logger
	now    func() time.Time
	mu     sync.Mutex
}

func NewForumService(repo forum.Repository, store images.Store, logger logging.Logger) *ForumService {
	return &ForumService{
		repo:   repo,
		images: store,
		logger: logger.With("service", "forum"),
		now:    time.Now,
	}
}

// ParseSort maps a query value to a sort order; anything unknown is latest first.
func ParseSort(s string) models.ForumSort {
	if models.ForumSort(strings.ToLower(s)) == models.SortMostReplies {
		return models.SortMostReplies
	}
	return models.SortLatest
}

// List returns all posts in the requested order. Both orders are stable.
func (s *ForumService) List(ctx context.Context, order models.ForumSort) ([]*models.Post, error) {
	f, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading forum: %w", err)
	}

	posts := slices.Clone(f.Posts)
	switch order {
	case models.SortMostReplies:
		sort.SliceStable(posts, func(i, j int) bool { return len(posts[i].Replies) > len(posts[j].Replies) })
	default:
		sort.SliceStable(posts, func(i, j int) bool { return posts[i].Timestamp.After(posts[j].Timestamp.Time) })
	}
	return posts, nil
}

// Join records the session's agreement to the forum rules.
func (s *ForumService) Join(sess *session.Context) {
	sess.JoinForum()
}

func (s *ForumService) canWrite(sess *session.Context) error {
	if !sess.LoggedIn() {
		return common.ErrorUnauthorized
	}
	if !sess.JoinedForum() {
		return common.ErrForumNotJoined
	}
	return nil
}

func validTag(tag string) (string, error) {
	if tag == "" {
		return defaultTag, nil
	}
	for _, t := range models.ForumTags {
		if strings.EqualFold(t, tag) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", common.ErrInvalidTag, tag)
}

// storeImage saves an upload and returns its stored name, or nil without one.
func (s *ForumService) storeImage(ctx context.Context, up *Upload, at time.Time) (*string, error) {
	if up == nil || up.Body == nil {
		return nil, nil
	}

	ext, err := images.Extension(up.Filename)
	if err != nil {
		return nil, err
	}

	for n := 0; n < maxImageNameAttempts; n++ {
		name := images.NewNameN(at, ext, n)
		err := s.images.Put(ctx, name, up.Body, up.Size, images.ContentType(name))
		if err == nil {
			return &name, nil
		}
		if !errors.Is(err, images.ErrNameTaken) {
			return nil, fmt.Errorf("error storing image: %w", err)
		}
		if sk, ok := up.Body.(io.Seeker); ok {
			if _, err := sk.Seek(0, io.SeekStart); err != nil {
				return nil, fmt.Errorf("error rewinding image: %w", err)
			}
		}
	}
	return nil, fmt.Errorf("error storing image: %w", images.ErrNameTaken)
}

func (s *ForumService) dropImage(ctx context.Context, name *string) {
	if name == nil {
		return
	}
	if err := s.images.Delete(ctx, *name); err != nil {
		s.logger.Warn(ctx, "orphaned forum image", "image", *name, "error", err)
	}
}

// Ask adds a question by the session's user.
func (s *ForumService) Ask(ctx context.Context, sess *session.Context, question, tag string, up *Upload) (*models.Post, error) {
	if err := s.canWrite(sess); err != nil {
		return nil, err
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, common.ErrEmptyPost
	}
	tag, err := validTag(tag)
	if err != nil {
		return nil, err
	}

	now := s.now()
	img, err := s.storeImage(ctx, up, now)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:        uuid.NewString(),
		User:      sess.User(),
		Question:  question,
		Tag:       tag,
		Timestamp: models.NewTimestamp(now),
		Image:     img,
		Replies:   []*models.Reply{},
	}

	err = s.update(ctx, func(f *models.Forum) error {
		f.Posts = append(f.Posts, post)
		return nil
	})
	if err != nil {
		s.dropImage(ctx, img)
		return nil, err
	}

	s.logger.Info(ctx, "question posted", "post", post.ID, "username", post.User, "tag", tag)
	return post, nil
}

// Reply adds a reply to post postID.
func (s *ForumService) Reply(ctx context.Context, sess *session.Context, postID, text string, up *Upload) (*models.Reply, error) {
	if err := s.canWrite(sess); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, common.ErrEmptyPost
	}

	now := s.now()
	img, err := s.storeImage(ctx, up, now)
	if err != nil {
		return nil, err
	}

	reply := &models.Reply{
		ID:        uuid.NewString(),
		User:      sess.User(),
		Reply:     text,
		Image:     img,
		Timestamp: models.NewTimestamp(now),
	}

	err = s.update(ctx, func(f *models.Forum) error {
		for _, p := range f.Posts {
			if p.ID == postID {
				p.Replies = append(p.Replies, reply)
				return nil
			}
		}
		return fmt.Errorf("post %q: %w", postID, common.ErrorNotFound)
	})
	if err != nil {
		s.dropImage(ctx, img)
		return nil, err
	}

	s.logger.Info(ctx, "reply posted", "post", postID, "reply", reply.ID, "username", reply.User)
	return reply, nil
}

// Image returns a stored forum image.
func (s *ForumService) Image(ctx context.Context, name string) (*images.Image, error) {
	return s.images.Get(ctx, name)
}

func (s *ForumService) update(ctx context.Context, mutate func(*models.Forum) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("error loading forum: %w", err)
	}
	if err := mutate(f); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, f); err != nil {
		return fmt.Errorf("error saving forum: %w", err)
	}
	return nil
}
