package user

import (
	"context"

	"go.uber.org/zap"

	"socialapp/internal/common"
)

type FollowService interface {
	ToggleFollow(ctx context.Context, followerID, targetID uint64) (bool, error)
	ListFollowers(ctx context.Context, userID uint64) ([]common.UserSummary, error)
	ListFollowing(ctx context.Context, userID uint64) ([]common.UserSummary, error)
	IsFollowing(ctx context.Context, viewerID, targetID uint64) (bool, error)
}

type followService struct {
	userRepo   UserRepository
	followRepo FollowRepository
	tx         common.Transactor
	notifier   common.Notifier
	log        *zap.Logger
}

func NewFollowService(userRepo UserRepository, followRepo FollowRepository, tx common.Transactor,
	notifier common.Notifier, log *zap.Logger) FollowService {
	return &followService{
		userRepo:   userRepo,
		followRepo: followRepo,
		tx:         tx,
		notifier:   notifier,
		log:        log.Named("follow"),
	}
}

func (s *followService) ToggleFollow(ctx context.Context, followerID, targetID uint64) (bool, error) {
	if followerID == targetID {
		return false, common.NewValidationError("cannot follow yourself")
	}

	var following bool
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.GetUserByID(ctx, targetID); err != nil {
			return err
		}

		var err error
		following, err = s.followRepo.Toggle(ctx, followerID, targetID)
		if err != nil || !following {
			return err
		}

		return s.notifier.Emit(ctx, common.NotificationEvent{
			Type:        common.NotificationFollow,
			RecipientID: targetID,
			SenderID:    followerID,
		})
	})
	if err != nil {
		return false, err
	}

	s.log.Debug("follow toggled",
		zap.Uint64("follower_id", followerID),
		zap.Uint64("target_id", targetID),
		zap.Bool("following", following))
	return following, nil
}

func (s *followService) ListFollowers(ctx context.Context, userID uint64) ([]common.UserSummary, error) {
	if _, err := s.userRepo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.followRepo.ListFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summaries(users), nil
}

func (s *followService) ListFollowing(ctx context.Context, userID uint64) ([]common.UserSummary, error) {
	if _, err := s.userRepo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.followRepo.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summaries(users), nil
}

func (s *followService) IsFollowing(ctx context.Context, viewerID, targetID uint64) (bool, error) {
	return s.followRepo.Exists(ctx, viewerID, targetID)
}
