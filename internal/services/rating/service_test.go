package rating

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-api/internal/apperror"
	"restaurant-api/internal/models"
)

// fakeRatingRepo keeps ratings in memory, enforcing the unique pair the
// way the Postgres constraint does.
type fakeRatingRepo struct {
	ratings []models.Rating
	nextID  int64
}

func (f *fakeRatingRepo) ListByUser(_ context.Context, userID int64) ([]models.Rating, error) {
	out := []models.Rating{}
	for _, rt := range f.ratings {
		if rt.UserID == userID {
			out = append(out, rt)
		}
	}
	return out, nil
}

func (f *fakeRatingRepo) Create(_ context.Context, rating *models.Rating) error {
	for _, rt := range f.ratings {
		if rt.UserID == rating.UserID && rt.MenuItemID == rating.MenuItemID {
			return apperror.Conflict("You have already rated this menu item.", nil)
		}
	}
	f.nextID++
	rating.ID = f.nextID
	f.ratings = append(f.ratings, *rating)
	return nil
}

func score(n int) *int { return &n }

var diner = &models.User{ID: 3, Username: "diner"}

func TestCreateAttachesCaller(t *testing.T) {
	repo := &fakeRatingRepo{}
	svc := NewService(repo)

	rt, err := svc.Create(context.Background(), diner, &models.RatingRequest{MenuItemID: 7, Rating: score(4)})
	require.NoError(t, err)

	assert.Equal(t, diner.ID, rt.UserID)
	assert.Equal(t, int64(7), rt.MenuItemID)
	assert.Equal(t, 4, rt.Rating)
}

func TestCreateValidatesScore(t *testing.T) {
	svc := NewService(&fakeRatingRepo{})
	ctx := context.Background()

	tests := []struct {
		name    string
		req     models.RatingRequest
		wantErr string
	}{
		{"missing menuitem", models.RatingRequest{Rating: score(3)}, "menuitem_id is required"},
		{"missing rating", models.RatingRequest{MenuItemID: 7}, "rating is required"},
		{"below range", models.RatingRequest{MenuItemID: 7, Rating: score(-1)}, "rating must be between 0 and 5"},
		{"above range", models.RatingRequest{MenuItemID: 7, Rating: score(6)}, "rating must be between 0 and 5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, diner, &tt.req)
			require.Error(t, err)
			assert.Equal(t, 400, apperror.StatusCode(err))
			assert.Equal(t, tt.wantErr, apperror.Detail(err))
		})
	}

	for _, edge := range []int{0, 5} {
		_, err := svc.Create(ctx, diner, &models.RatingRequest{MenuItemID: int64(edge + 10), Rating: score(edge)})
		assert.NoError(t, err, "score %d is inside the range", edge)
	}
}

func TestCreateRejectsSecondRating(t *testing.T) {
	repo := &fakeRatingRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, diner, &models.RatingRequest{MenuItemID: 7, Rating: score(2)})
	require.NoError(t, err)

	_, err = svc.Create(ctx, diner, &models.RatingRequest{MenuItemID: 7, Rating: score(5)})
	require.Error(t, err)
	assert.Equal(t, 409, apperror.StatusCode(err))
	assert.Equal(t, "You have already rated this menu item.", apperror.Detail(err))
	assert.Len(t, repo.ratings, 1, "the first score must survive unchanged")
	assert.Equal(t, 2, repo.ratings[0].Rating)
}

func TestListScopedToCaller(t *testing.T) {
	repo := &fakeRatingRepo{
		ratings: []models.Rating{
			{ID: 1, UserID: diner.ID, MenuItemID: 7, Rating: 4},
			{ID: 2, UserID: 99, MenuItemID: 7, Rating: 1},
		},
	}
	svc := NewService(repo)

	ratings, err := svc.List(context.Background(), diner)
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.Equal(t, diner.ID, ratings[0].UserID)
}
