package services

import (
	"errors"

	"github.com/hackernest/hackernest/hn"
	"github.com/hackernest/hackernest/models"
)

// Likes implements like toggling and point totals. For internal items the
// stored points counter is authoritative; for external items the total is a
// caller-supplied base plus our local like count, since we never persist
// external points.
type Likes struct {
	store LikeStore
	users UserStore
}

// NewLikes wires a Likes service.
func NewLikes(store LikeStore, users UserStore) *Likes {
	return &Likes{store: store, users: users}
}

// Toggle flips the (item, user) like. Returns the new liked state and the
// item's total points after the flip.
func (s *Likes) Toggle(itemID, itemType, username string, originalPoints int) (bool, int, error) {
	if originalPoints < 0 {
		originalPoints = 0
	}
	internal := !hn.IsExternalID(itemID)

	existing, err := s.store.LikeByItemUser(itemID, username)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return false, 0, err
	}

	liked := existing == nil
	if liked {
		if err := s.store.CreateLike(&models.Like{ItemID: itemID, Username: username, ItemType: itemType}); err != nil {
			return false, 0, err
		}
		if internal {
			if err := s.store.AddPoints(itemID, itemType, 1); err != nil {
				return false, 0, err
			}
		}
	} else {
		if err := s.store.DeleteLike(itemID, username); err != nil {
			return false, 0, err
		}
		if internal {
			if err := s.store.AddPoints(itemID, itemType, -1); err != nil {
				return false, 0, err
			}
		}
	}

	s.updateUserLikes(username, itemID, liked)

	total, err := s.TotalPoints(itemID, itemType, originalPoints)
	if err != nil {
		return liked, 0, err
	}
	return liked, total, nil
}

// TotalPoints computes the current point total for an item.
func (s *Likes) TotalPoints(itemID, itemType string, originalPoints int) (int, error) {
	if originalPoints < 0 {
		originalPoints = 0
	}
	if !hn.IsExternalID(itemID) {
		return s.store.PointsOf(itemID, itemType)
	}
	cnt, err := s.store.CountLikes(itemID)
	if err != nil {
		return 0, err
	}
	return originalPoints + int(cnt), nil
}

// Status returns the like count, point total, and whether username liked the item.
func (s *Likes) Status(itemID, itemType, username string, originalPoints int) (int64, int, bool, error) {
	cnt, err := s.store.CountLikes(itemID)
	if err != nil {
		return 0, 0, false, err
	}
	total, err := s.TotalPoints(itemID, itemType, originalPoints)
	if err != nil {
		return 0, 0, false, err
	}
	liked := false
	if username != "" {
		if _, err := s.store.LikeByItemUser(itemID, username); err == nil {
			liked = true
		} else if !errors.Is(err, ErrNotFound) {
			return 0, 0, false, err
		}
	}
	return cnt, total, liked, nil
}

// UserLikes returns the item IDs the user has liked.
func (s *Likes) UserLikes(username string) ([]string, error) {
	u, err := s.users.UserByUsername(username)
	if err != nil {
		return nil, err
	}
	return u.Likes, nil
}

// updateUserLikes keeps the user's denormalized likes list in sync. Failures
// here are non-fatal since the like rows are the source of truth.
func (s *Likes) updateUserLikes(username, itemID string, liked bool) {
	u, err := s.users.UserByUsername(username)
	if err != nil {
		return
	}
	if liked {
		u.Likes = u.Likes.Append(itemID)
	} else {
		u.Likes = u.Likes.Remove(itemID)
	}
	_ = s.users.SaveUser(u)
}
