package feed

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"socialapp/internal/common"
	"socialapp/internal/dbmysql"
)

type CreatePostInput struct {
	Content string
	// ImageRef is an already stored media reference.
	ImageRef string
	// Image is stored through the media store and takes precedence over ImageRef.
	Image *common.Upload
}

// FeedUsecase covers posts, likes and comments. A zero viewer id means anonymous.
type FeedUsecase interface {
	CreatePost(ctx context.Context, authorID uint64, in CreatePostInput) (*PostView, error)
	ListFeed(ctx context.Context, viewerID uint64) ([]PostView, error)
	GetPost(ctx context.Context, postID, viewerID uint64) (*PostView, error)
	ListPostsByUser(ctx context.Context, authorID, viewerID uint64) ([]PostView, error)
	ToggleLike(ctx context.Context, postID, userID uint64) (*LikeResult, error)
	AddComment(ctx context.Context, postID, userID uint64, text string) (*CommentView, error)
	DeletePost(ctx context.Context, postID, callerID uint64) error
}

type FeedService struct {
	posts    PostRepository
	tx       common.Transactor
	notifier common.Notifier
	media    common.MediaStore
	log      *zap.Logger
}

func NewFeedService(posts PostRepository, tx common.Transactor, notifier common.Notifier,
	media common.MediaStore, log *zap.Logger) *FeedService {
	return &FeedService{
		posts:    posts,
		tx:       tx,
		notifier: notifier,
		media:    media,
		log:      log.Named("feed"),
	}
}

func (s *FeedService) CreatePost(ctx context.Context, authorID uint64, in CreatePostInput) (*PostView, error) {
	content := strings.TrimSpace(in.Content)
	imageRef := strings.TrimSpace(in.ImageRef)
	if content == "" && imageRef == "" && in.Image == nil {
		return nil, common.NewValidationError("post needs content or an image")
	}

	if in.Image != nil {
		if s.media == nil {
			return nil, common.NewValidationError("media uploads are disabled")
		}
		ref, err := s.media.Save(ctx, authorID, in.Image)
		if err != nil {
			return nil, err
		}
		imageRef = ref
	}

	post := &dbmysql.Post{UserID: authorID}
	if content != "" {
		post.Content = &content
	}
	if imageRef != "" {
		post.Image = &imageRef
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		if in.Image != nil {
			s.discardMedia(ctx, imageRef)
		}
		return nil, err
	}

	s.log.Info("post created", zap.Uint64("post_id", post.ID), zap.Uint64("user_id", authorID))
	return s.GetPost(ctx, post.ID, authorID)
}

func (s *FeedService) ListFeed(ctx context.Context, viewerID uint64) ([]PostView, error) {
	return s.list(ctx, PostFilter{}, viewerID)
}

func (s *FeedService) ListPostsByUser(ctx context.Context, authorID, viewerID uint64) ([]PostView, error) {
	return s.list(ctx, PostFilter{AuthorID: authorID}, viewerID)
}

func (s *FeedService) list(ctx context.Context, filter PostFilter, viewerID uint64) ([]PostView, error) {
	posts, err := s.posts.ListPosts(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, posts, viewerID)
}

func (s *FeedService) GetPost(ctx context.Context, postID, viewerID uint64) (*PostView, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	views, err := s.annotate(ctx, []*dbmysql.Post{post}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// annotate attaches like counts and the viewer's like state in two queries.
func (s *FeedService) annotate(ctx context.Context, posts []*dbmysql.Post, viewerID uint64) ([]PostView, error) {
	ids := make([]uint64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	counts, err := s.posts.LikeCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	liked, err := s.posts.LikedBy(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, newPostView(p, counts[p.ID], liked[p.ID]))
	}
	return views, nil
}

func (s *FeedService) ToggleLike(ctx context.Context, postID, userID uint64) (*LikeResult, error) {
	result := &LikeResult{ID: postID}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		post, err := s.posts.GetPostByID(ctx, postID)
		if err != nil {
			return err
		}

		liked, err := s.posts.ToggleLike(ctx, postID, userID)
		if err != nil {
			return err
		}
		result.LikedByUser = liked

		counts, err := s.posts.LikeCounts(ctx, []uint64{postID})
		if err != nil {
			return err
		}
		result.Likes = counts[postID]

		if !liked {
			return nil
		}
		return s.notifier.Emit(ctx, common.NotificationEvent{
			Type:        common.NotificationLike,
			RecipientID: post.UserID,
			SenderID:    userID,
			PostID:      &postID,
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *FeedService) AddComment(ctx context.Context, postID, userID uint64, text string) (*CommentView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, common.NewValidationError("comment text is required")
	}

	var view CommentView
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		post, err := s.posts.GetPostByID(ctx, postID)
		if err != nil {
			return err
		}

		comment := &dbmysql.Comment{PostID: postID, UserID: userID, Text: text}
		if err := s.posts.CreateComment(ctx, comment); err != nil {
			return err
		}

		if err := s.notifier.Emit(ctx, common.NotificationEvent{
			Type:        common.NotificationComment,
			RecipientID: post.UserID,
			SenderID:    userID,
			PostID:      &postID,
		}); err != nil {
			return err
		}

		view = newCommentView(comment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *FeedService) DeletePost(ctx context.Context, postID, callerID uint64) error {
	var image string
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		post, err := s.posts.GetPostByID(ctx, postID)
		if err != nil {
			return err
		}
		if post.UserID != callerID {
			return common.NewForbiddenError("you can only delete your own posts")
		}
		if post.Image != nil {
			image = *post.Image
		}
		return s.posts.DeletePostCascade(ctx, postID)
	})
	if err != nil {
		return err
	}

	s.discardMedia(ctx, image)
	s.log.Info("post deleted", zap.Uint64("post_id", postID), zap.Uint64("user_id", callerID))
	return nil
}

// discardMedia removes a stored file best-effort. References not owned by the store are ignored by it.
func (s *FeedService) discardMedia(ctx context.Context, ref string) {
	if ref == "" || s.media == nil {
		return
	}
	if err := s.media.Remove(ctx, ref); err != nil {
		s.log.Warn("failed to remove media", zap.String("ref", ref), zap.Error(err))
	}
}
