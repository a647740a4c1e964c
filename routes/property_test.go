package routes

import (
	"encoding/json"
	"net/http"
	"testing"

	"property-reviews-server/models"
	"property-reviews-server/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listingPage struct {
	Data []struct {
		ID            uint `json:"ID"`
		RatingSummary struct {
			AverageRating float64 `json:"averageRating"`
			ReviewCount   int64   `json:"reviewCount"`
		} `json:"ratingSummary"`
	} `json:"data"`
	Meta struct {
		Page    int   `json:"page"`
		PerPage int   `json:"per_page"`
		Total   int64 `json:"total"`
	} `json:"meta"`
}

func getListing(t *testing.T, app http.Handler, path string) listingPage {
	t.Helper()
	resp := postJSON(app, http.MethodGet, path, "", "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var page listingPage
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	return page
}

func seedReview(t *testing.T, propertyID uint, userID uint, rating int) {
	t.Helper()
	review := models.Review{
		PropertyID:  propertyID,
		UserID:      &userID,
		Rating:      rating,
		Content:     "Enough distinct words about the stairwell, the windows and the water pressure to be valid.",
		IsAnonymous: true,
		IsApproved:  true,
	}
	require.NoError(t, storage.DB.Create(&review).Error)
}

// Rating filter and sort must apply to the whole listing before pagination,
// not to the rows of the fetched page.
func TestPropertyListingRatingFilterAndSort(t *testing.T) {
	app := buildTestApp(t)

	alice := createRouteTestUser(t, "alice@example.com", models.RoleUser)
	bob := createRouteTestUser(t, "bob@example.com", models.RoleUser)

	top := createRouteTestProperty(t, nil)
	middle := createRouteTestProperty(t, nil)
	unrated := createRouteTestProperty(t, nil)

	seedReview(t, top.ID, alice.ID, 5)
	seedReview(t, top.ID, bob.ID, 5)
	seedReview(t, middle.ID, alice.ID, 3)

	// min_rating narrows the total, not just the current page.
	page := getListing(t, app, "/api/properties/?min_rating=4")
	assert.Equal(t, int64(1), page.Meta.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, top.ID, page.Data[0].ID)

	// sort=rating orders the full listing; a two-row page must hold the two
	// best rated properties, not a reordering of arbitrary rows.
	page = getListing(t, app, "/api/properties/?sort=rating&per_page=2")
	assert.Equal(t, int64(3), page.Meta.Total)
	require.Len(t, page.Data, 2)
	assert.Equal(t, top.ID, page.Data[0].ID)
	assert.Equal(t, middle.ID, page.Data[1].ID)

	page = getListing(t, app, "/api/properties/?sort=rating&per_page=2&page=2")
	require.Len(t, page.Data, 1)
	assert.Equal(t, unrated.ID, page.Data[0].ID)

	// sort=reviews puts the twice-reviewed property first.
	page = getListing(t, app, "/api/properties/?sort=reviews&per_page=1")
	require.Len(t, page.Data, 1)
	assert.Equal(t, top.ID, page.Data[0].ID)
	assert.Equal(t, int64(2), page.Data[0].RatingSummary.ReviewCount)
}
