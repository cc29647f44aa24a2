package feed

import (
	"time"

	"socialapp/internal/common"
	"socialapp/internal/dbmysql"
)

type CommentView struct {
	ID        uint64             `json:"id"`
	PostID    uint64             `json:"postId"`
	Text      string             `json:"text"`
	CreatedAt time.Time          `json:"createdAt"`
	User      common.UserSummary `json:"user"`
}

// PostView is a post annotated for one viewer.
type PostView struct {
	ID          uint64             `json:"id"`
	Content     *string            `json:"content"`
	Image       *string            `json:"image"`
	CreatedAt   time.Time          `json:"createdAt"`
	User        common.UserSummary `json:"user"`
	Comments    []CommentView      `json:"comments"`
	Likes       int64              `json:"likes"`
	LikedByUser bool               `json:"likedByUser"`
}

type LikeResult struct {
	ID          uint64 `json:"id"`
	Likes       int64  `json:"likes"`
	LikedByUser bool   `json:"likedByUser"`
}

func newCommentView(c *dbmysql.Comment) CommentView {
	return CommentView{
		ID:        c.ID,
		PostID:    c.PostID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		User:      c.Author.Summary(),
	}
}

func newPostView(p *dbmysql.Post, likes int64, liked bool) PostView {
	comments := make([]CommentView, 0, len(p.Comments))
	for i := range p.Comments {
		comments = append(comments, newCommentView(&p.Comments[i]))
	}
	return PostView{
		ID:          p.ID,
		Content:     p.Content,
		Image:       p.Image,
		CreatedAt:   p.CreatedAt,
		User:        p.Author.Summary(),
		Comments:    comments,
		Likes:       likes,
		LikedByUser: liked,
	}
}
