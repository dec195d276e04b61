package handler

import (
	"fmt"
	"net/http"
	"testing"

	"mingle/backend/internal/database"
	"mingle/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	router := setupTest(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/auth/register", 0, RegisterInput{
		UserName: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	registered := decodeBody[map[string]string](t, rec)
	assert.NotEmpty(t, registered["token"])

	// Duplicate username.
	rec = doRequest(t, router, http.MethodPost, "/api/v1/auth/register", 0, RegisterInput{
		UserName: "alice",
		Email:    "other@example.com",
		Password: "password123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/auth/login", 0, LoginInput{
		Login:    "alice",
		Password: "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	loggedIn := decodeBody[map[string]string](t, rec)
	assert.NotEmpty(t, loggedIn["token"])

	rec = doRequest(t, router, http.MethodPost, "/api/v1/auth/login", 0, LoginInput{
		Login:    "alice",
		Password: "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetMe_RequiresAuth(t *testing.T) {
	router := setupTest(t)
	createUser(t, "alice", nil, nil)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/users/me", 0, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateMe(t *testing.T) {
	router := setupTest(t)
	alice := createUser(t, "alice", nil, nil)

	bio := "hello"
	rec := doRequest(t, router, http.MethodPut, "/api/v1/users/me", alice.ID, UpdateProfileInput{
		Bio:                &bio,
		Latitude:           floatPtr(51.5),
		Longitude:          floatPtr(-0.12),
		DistancePreference: floatPtr(25),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, router, http.MethodGet, "/api/v1/users/me", alice.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	me := decodeBody[PrivateUserResponse](t, rec)
	assert.Equal(t, "hello", me.Bio)
	require.NotNil(t, me.Latitude)
	assert.Equal(t, 51.5, *me.Latitude)
	assert.Equal(t, 25.0, me.DistancePreference)
}

func TestGetUserByID(t *testing.T) {
	router := setupTest(t)
	alice := createUser(t, "alice", nil, nil)
	bob := createUser(t, "bob", nil, nil)

	edge := models.NewFriendship(alice.ID, bob.ID)
	require.NoError(t, database.DB.Create(&edge).Error)

	rec := doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", bob.ID), alice.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	profile := decodeBody[PublicUserResponse](t, rec)
	assert.Equal(t, "bob", profile.UserName)
	assert.Equal(t, int64(1), profile.FriendsCount)
	assert.False(t, profile.Online)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/users/9999", alice.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteMe_Cascade(t *testing.T) {
	router := setupTest(t)
	alice := createUser(t, "alice", nil, nil)
	bob := createUser(t, "bob", nil, nil)
	carol := createUser(t, "carol", nil, nil)

	edge := models.NewFriendship(alice.ID, bob.ID)
	require.NoError(t, database.DB.Create(&edge).Error)
	require.NoError(t, database.DB.Create(&models.Block{BlockerID: alice.ID, BlockedID: carol.ID}).Error)
	require.NoError(t, database.DB.Create(&models.Like{LikerID: bob.ID, LikedID: alice.ID}).Error)

	// Alice hosts an activity bob attends, and attends one of carol's.
	hosted := createActivity(t, alice.ID, "alice's picnic", 5, false, 0, 0)
	rec := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/activities/%d/attend", hosted.ID), bob.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	attended := createActivity(t, carol.ID, "carol's hike", 5, false, 0, 0)
	rec = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/activities/%d/attend", attended.ID), alice.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodDelete, "/api/v1/users/me", alice.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var userCount int64
	database.DB.Model(&models.User{}).Where("id = ?", alice.ID).Count(&userCount)
	assert.Equal(t, int64(0), userCount)

	// The hosted activity disappears along with bob's attendance row.
	var activityCount int64
	database.DB.Model(&models.Activity{}).Where("id = ?", hosted.ID).Count(&activityCount)
	assert.Equal(t, int64(0), activityCount)
	var attendeeRows int64
	database.DB.Model(&models.ActivityAttendee{}).Where("activity_id = ?", hosted.ID).Count(&attendeeRows)
	assert.Equal(t, int64(0), attendeeRows)

	// Carol's activity survives with its count stepped back down.
	var stored models.Activity
	require.NoError(t, database.DB.First(&stored, attended.ID).Error)
	assert.Equal(t, 0, stored.AttendeeCount)

	var edgeCount int64
	database.DB.Model(&models.Friendship{}).Count(&edgeCount)
	assert.Equal(t, int64(0), edgeCount)
	var blockCount int64
	database.DB.Model(&models.Block{}).Count(&blockCount)
	assert.Equal(t, int64(0), blockCount)
	var likeCount int64
	database.DB.Model(&models.Like{}).Count(&likeCount)
	assert.Equal(t, int64(0), likeCount)
}

func TestAdminDeleteUser(t *testing.T) {
	router := setupTest(t)
	admin := createUser(t, "admin", nil, nil)
	require.NoError(t, database.DB.Model(&models.User{}).Where("id = ?", admin.ID).Update("role", "admin").Error)
	alice := createUser(t, "alice", nil, nil)
	bob := createUser(t, "bob", nil, nil)

	// Regular users cannot reach the admin route.
	rec := doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/admin/users/%d", alice.ID), bob.ID, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/admin/users/%d", alice.ID), admin.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var userCount int64
	database.DB.Model(&models.User{}).Where("id = ?", alice.ID).Count(&userCount)
	assert.Equal(t, int64(0), userCount)

	rec = doRequest(t, router, http.MethodDelete, "/api/v1/admin/users/9999", admin.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
