package handler

import (
	"net/http"
	"sort"
	"strings"

	"mingle/backend/internal/database"
	"mingle/backend/internal/models"
	"mingle/backend/pkg/geo"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// region --- DTOs ---

// PotentialFriendResponse is a discovery candidate with their distance from
// the caller.
type PotentialFriendResponse struct {
	PublicUserResponse
	DistanceMeters float64 `json:"distance_meters"`
}

// ActivityFeedSection is one visibility class of the activity feed: the two
// fixed-size ranked tiers plus the paginated remainder. No activity appears
// in more than one tier.
type ActivityFeedSection struct {
	Popular    []ActivityResponse `json:"popular"`
	Nearby     []ActivityResponse `json:"nearby"`
	More       []ActivityResponse `json:"more"`
	Pagination Pagination         `json:"pagination"`
}

// ActivityFeedResponse groups the feed by visibility class.
type ActivityFeedResponse struct {
	Public  ActivityFeedSection `json:"public"`
	Private ActivityFeedSection `json:"private"`
}

// endregion

const discoveryTierSize = 10

// FindPotentialFriends godoc
// @Summary      Discover potential friends
// @Description  Returns nearby users ranked by distance, bounded by the caller's distance preference. Excludes the caller, current friends, anyone with a pending request in either direction, and anyone blocked by or blocking the caller.
// @Tags         discovery
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200 {object} PaginatedResponse[PotentialFriendResponse]
// @Failure      400 {object} ErrorResponse "Caller has no location set"
// @Router       /discover/people [get]
func FindPotentialFriends(c *gin.Context) {
	viewerID := currentUserID(c)
	page, limit := parsePagination(c)

	var viewer models.User
	if err := database.DB.First(&viewer, viewerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if !viewer.HasLocation() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Location not set"})
		return
	}

	excluded, err := discoveryExclusionSet(viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build exclusion set"})
		return
	}

	radiusMiles := viewer.DistancePreference
	if radiusMiles <= 0 {
		radiusMiles = 10
	}
	radiusMeters := geo.MilesToMeters(radiusMiles)
	box := geo.BoxAround(*viewer.Latitude, *viewer.Longitude, radiusMeters)

	var candidates []models.User
	if err := database.DB.
		Where("id NOT IN ?", excluded).
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Where("latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat).
		Where("longitude BETWEEN ? AND ?", box.MinLng, box.MaxLng).
		Find(&candidates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query candidates"})
		return
	}

	// Exact geodesic cut and ranking; the bounding box is only a prefilter.
	type rankedUser struct {
		user     models.User
		distance float64
	}
	ranked := []rankedUser{}
	for _, candidate := range candidates {
		d := geo.Haversine(*viewer.Latitude, *viewer.Longitude, *candidate.Latitude, *candidate.Longitude)
		if d <= radiusMeters {
			ranked = append(ranked, rankedUser{user: candidate, distance: d})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].distance != ranked[j].distance {
			return ranked[i].distance < ranked[j].distance
		}
		return ranked[i].user.ID < ranked[j].user.ID
	})

	total := int64(len(ranked))
	start := (page - 1) * limit
	end := start + limit
	if start > len(ranked) {
		start = len(ranked)
	}
	if end > len(ranked) {
		end = len(ranked)
	}

	results := []PotentialFriendResponse{}
	for _, r := range ranked[start:end] {
		results = append(results, PotentialFriendResponse{
			PublicUserResponse: buildPublicUserResponse(r.user),
			DistanceMeters:     r.distance,
		})
	}

	c.JSON(http.StatusOK, PaginatedResponse[PotentialFriendResponse]{
		Data:       results,
		Pagination: NewPagination(page, limit, total),
	})
}

// FindActivities godoc
// @Summary      Discover activities
// @Description  Tiered activity feed per visibility class: top popular by attendance, top nearby within the caller's distance preference, then the paginated remainder, deduplicated across tiers. Modes: feed (all), mine (hosted), joined (attending). The q filter matches name or category, case-insensitive, before ranking.
// @Tags         discovery
// @Produce      json
// @Security     BearerAuth
// @Param        mode  query string false "feed, mine, or joined" default(feed)
// @Param        q     query string false "Substring filter on name/category"
// @Param        page  query int    false "Page number" default(1)
// @Param        limit query int    false "Items per page" default(10)
// @Success      200 {object} ActivityFeedResponse
// @Failure      400 {object} ErrorResponse "Unknown mode or caller has no location set"
// @Router       /activities/discover [get]
func FindActivities(c *gin.Context) {
	viewerID := currentUserID(c)
	page, limit := parsePagination(c)
	mode := c.DefaultQuery("mode", "feed")
	filter := c.Query("q")

	if mode != "feed" && mode != "mine" && mode != "joined" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A 'mode' of feed, mine, or joined is required"})
		return
	}

	var viewer models.User
	if err := database.DB.First(&viewer, viewerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if !viewer.HasLocation() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Location not set"})
		return
	}

	publicSection, err := buildFeedSection(viewer, mode, filter, false, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build feed"})
		return
	}
	privateSection, err := buildFeedSection(viewer, mode, filter, true, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build feed"})
		return
	}

	c.JSON(http.StatusOK, ActivityFeedResponse{
		Public:  *publicSection,
		Private: *privateSection,
	})
}

// region --- Helpers ---

// discoveryExclusionSet is the union of the caller, their friends, users
// with a pending request in either direction, and block edges in either
// direction, computed once per call and applied as a single NOT IN filter.
func discoveryExclusionSet(userID uint) ([]uint, error) {
	set := map[uint]bool{userID: true}

	friends, err := friendIDs(userID)
	if err != nil {
		return nil, err
	}
	for _, id := range friends {
		set[id] = true
	}

	var pending []models.FriendRequest
	if err := database.DB.
		Where("status = ?", models.RequestPending).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Find(&pending).Error; err != nil {
		return nil, err
	}
	for _, request := range pending {
		set[request.SenderID] = true
		set[request.ReceiverID] = true
	}

	blocked, err := blockedSet(userID)
	if err != nil {
		return nil, err
	}
	for _, id := range blocked {
		set[id] = true
	}
	blocking, err := blockingSet(userID)
	if err != nil {
		return nil, err
	}
	for _, id := range blocking {
		set[id] = true
	}

	ids := make([]uint, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids, nil
}

// feedBaseQuery applies the visibility class, mode, and free-text filter
// shared by all three tiers.
func feedBaseQuery(viewerID uint, mode, filter string, private bool) *gorm.DB {
	query := database.DB.Model(&models.Activity{}).Where("is_private = ?", private)

	switch mode {
	case "mine":
		query = query.Where("host_id = ?", viewerID)
	case "joined":
		attending := database.DB.Model(&models.ActivityAttendee{}).
			Select("activity_id").
			Where("user_id = ?", viewerID)
		query = query.Where("id IN (?)", attending)
	}

	if filter != "" {
		pattern := "%" + strings.ToLower(filter) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(category) LIKE ?", pattern, pattern)
	}

	return query
}

// buildFeedSection composes the three tiers for one visibility class.
func buildFeedSection(viewer models.User, mode, filter string, private bool, page, limit int) (*ActivityFeedSection, error) {
	viewerID := viewer.ID

	// Tier 1: most attended, regardless of distance.
	var popular []models.Activity
	if err := feedBaseQuery(viewerID, mode, filter, private).
		Order("attendee_count DESC, id ASC").
		Limit(discoveryTierSize).
		Find(&popular).Error; err != nil {
		return nil, err
	}
	seen := make([]uint, 0, 2*discoveryTierSize)
	for _, activity := range popular {
		seen = append(seen, activity.ID)
	}

	// Tier 2: closest within the caller's search radius, minus tier 1.
	radiusMiles := viewer.DistancePreference
	if radiusMiles <= 0 {
		radiusMiles = 10
	}
	radiusMeters := geo.MilesToMeters(radiusMiles)
	box := geo.BoxAround(*viewer.Latitude, *viewer.Longitude, radiusMeters)

	nearbyQuery := feedBaseQuery(viewerID, mode, filter, private).
		Where("latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat).
		Where("longitude BETWEEN ? AND ?", box.MinLng, box.MaxLng)
	if len(seen) > 0 {
		nearbyQuery = nearbyQuery.Where("id NOT IN ?", seen)
	}
	var nearbyCandidates []models.Activity
	if err := nearbyQuery.Find(&nearbyCandidates).Error; err != nil {
		return nil, err
	}

	type rankedActivity struct {
		activity models.Activity
		distance float64
	}
	ranked := []rankedActivity{}
	for _, candidate := range nearbyCandidates {
		d := geo.Haversine(*viewer.Latitude, *viewer.Longitude, candidate.Latitude, candidate.Longitude)
		if d <= radiusMeters {
			ranked = append(ranked, rankedActivity{activity: candidate, distance: d})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].distance != ranked[j].distance {
			return ranked[i].distance < ranked[j].distance
		}
		return ranked[i].activity.ID < ranked[j].activity.ID
	})
	if len(ranked) > discoveryTierSize {
		ranked = ranked[:discoveryTierSize]
	}

	nearby := make([]models.Activity, 0, len(ranked))
	for _, r := range ranked {
		nearby = append(nearby, r.activity)
		seen = append(seen, r.activity.ID)
	}

	// Tier 3: everything else, in natural id order, paginated.
	remainderQuery := feedBaseQuery(viewerID, mode, filter, private)
	if len(seen) > 0 {
		remainderQuery = remainderQuery.Where("id NOT IN ?", seen)
	}

	var total int64
	if err := remainderQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	var more []models.Activity
	if err := remainderQuery.
		Order("id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&more).Error; err != nil {
		return nil, err
	}

	return &ActivityFeedSection{
		Popular:    activityResponses(popular),
		Nearby:     activityResponses(nearby),
		More:       activityResponses(more),
		Pagination: NewPagination(page, limit, total),
	}, nil
}

func activityResponses(activities []models.Activity) []ActivityResponse {
	responses := []ActivityResponse{}
	for _, activity := range activities {
		var host models.User
		if err := database.DB.First(&host, activity.HostID).Error; err != nil {
			continue
		}
		responses = append(responses, newActivityResponse(activity, host))
	}
	return responses
}

// endregion
