package models

import "fmt"

// Rating is one user's score for a menu item. A user rates an item at
// most once.
type Rating struct {
	ID         int64 `json:"id" db:"id"`
	UserID     int64 `json:"user_id" db:"user_id"`
	MenuItemID int64 `json:"menuitem_id" db:"menuitem_id"`
	Rating     int   `json:"rating" db:"rating"`
}

// RatingRequest is the payload for rating a menu item. The rating is
// always attached to the caller; any user id in the payload is ignored.
type RatingRequest struct {
	MenuItemID int64 `json:"menuitem_id"`
	Rating     *int  `json:"rating"`
}

// Validate checks the payload. Scores run from 0 to 5 inclusive.
func (r *RatingRequest) Validate() error {
	if r.MenuItemID == 0 {
		return fmt.Errorf("menuitem_id is required")
	}
	if r.Rating == nil {
		return fmt.Errorf("rating is required")
	}
	if *r.Rating < 0 || *r.Rating > 5 {
		return fmt.Errorf("rating must be between 0 and 5")
	}
	return nil
}
