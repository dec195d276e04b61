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

func TestSendFriendRequest(t *testing.T) {
	router := setupTest(t)
	alice := createUser(t, "alice", nil, nil)
	bob := createUser(t, "bob", nil, nil)

	rec := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/friend-request", bob.ID), alice.ID, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decodeBody[FriendRequestResponse](t, rec)
	assert.Equal(t, alice.ID, resp.SenderID)
	assert.Equal(t, bob.ID, resp.ReceiverID)
	assert.Equal(t, models.RequestPending, resp.Status)

	var notifCount int64
	database.DB.Model(&models.Notification{}).
		Where("receiver_id = ? AND type = ?", bob.ID, models.NotificationFriendRequest).
		Count(&notifCount)
	assert.Equal(t, int64(1), notifCount)
}

func TestSendFriendRequest_DuplicatePending(t *testing.T) {
	router := setupTest(t)
	alice := createUser(t, "alice", nil, nil)
	bob := createUser(t, "bob", nil, nil)

	rec := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/friend-request", bob.ID), alice.ID, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Same direction again.
	rec = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/friend-request", bob.ID), alice.ID, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Reverse direction while the first is still pending.
	rec = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/friend-request", alice.ID), bob.ID, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var total int64
	database.DB.Model(&models.FriendRequest{}).Count(&total)
	assert.Equal(t, int64(1), total)
}

func TestSendFriendRequest_Self(t *testing.T) {
	router := setupTest(t)
	alice := createUser(t, "alice", nil, nil)

	rec := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/friend-request", alice.ID), alice.ID, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendFriendRequest_TargetMissing(t *testing.T) {
	router := setupTest(t)
	alice := createUser(t, "alice", nil, nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/users/9999/friend-request", alice.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendFriendRequest_Blocked(t *testing.T) {
	router := setupTest(t)
	alice := createUser(t, "alice", nil, nil)
	bob := createUser(t, "bob", nil, nil)

	require.NoError(t, database.DB.Create(&models.Block{BlockerID: bob.ID, BlockedID: alice.ID}).Error)

	// Blocked in either direction rejects the request.
	rec := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/friend-request", bob.ID), alice.ID, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/friend-request", alice.ID), bob.ID, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCancelFriendRequest(t *testing.T) {
	router := setupTest(t)
	alice := createUser(t, "alice", nil, nil)
	bob := createUser(t, "bob", nil, nil)

	rec := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/friend-request", bob.ID), alice.ID, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	// The receiver cannot cancel, only the sender.
	rec = doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d/friend-request", alice.ID), bob.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d/friend-request", bob.ID), alice.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Cancelling again finds nothing.
	rec = doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d/friend-request", bob.ID), alice.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// A fresh request is allowed after cancellation.
	rec = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/friend-request", bob.ID), alice.ID, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRespondToFriendRequest_Accept(t *testing.T) {
	router := setupTest(t)
	alice := createUser(t, "alice", nil, nil)
	bob := createUser(t, "bob", nil, nil)

	rec := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/friend-request", bob.ID), alice.ID, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/friend-request/respond", alice.ID), bob.ID,
		FriendRequestActionInput{Action: "accept"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decodeBody[FriendshipResponse](t, rec)
	assert.Equal(t, alice.ID, resp.UserAID)
	assert.Equal(t, bob.ID, resp.UserBID)

	var edgeCount int64
	database.DB.Model(&models.Friendship{}).Count(&edgeCount)
	assert.Equal(t, int64(1), edgeCount)

	var request models.FriendRequest
	require.NoError(t, database.DB.First(&request).Error)
	assert.Equal(t, models.RequestAccepted, request.Status)

	// Accepting again fails, the request is no longer pending.
	rec = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/friend-request/respond", alice.ID), bob.ID,
		FriendRequestActionInput{Action: "accept"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var notifCount int64
	database.DB.Model(&models.Notification{}).
		Where("receiver_id = ? AND type = ?", alice.ID, models.NotificationRequestAccepted).
		Count(&notifCount)
	assert.Equal(t, int64(1), notifCount)
}

func TestRespondToFriendRequest_RejectAllowsResend(t *testing.T) {
	router := setupTest(t)
	alice := createUser(t, "alice", nil, nil)
	bob := createUser(t, "bob", nil, nil)

	rec := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/friend-request", bob.ID), alice.ID, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/friend-request/respond", alice.ID), bob.ID,
		FriendRequestActionInput{Action: "reject"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[FriendRequestResponse](t, rec)
	assert.Equal(t, models.RequestRejected, resp.Status)

	var edgeCount int64
	database.DB.Model(&models.Friendship{}).Count(&edgeCount)
	assert.Equal(t, int64(0), edgeCount)

	// The rejected request no longer blocks a new one.
	rec = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/friend-request", bob.ID), alice.ID, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRespondToFriendRequest_InvalidAction(t *testing.T) {
	router := setupTest(t)
	alice := createUser(t, "alice", nil, nil)
	bob := createUser(t, "bob", nil, nil)

	rec := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/friend-request", bob.ID), alice.ID, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/friend-request/respond", alice.ID), bob.ID,
		FriendRequestActionInput{Action: "maybe"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnfriend(t *testing.T) {
	router := setupTest(t)
	alice := createUser(t, "alice", nil, nil)
	bob := createUser(t, "bob", nil, nil)

	require.NoError(t, database.DB.Create(&models.Friendship{UserAID: alice.ID, UserBID: bob.ID}).Error)

	// Either side may remove the edge.
	rec := doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d/friend", alice.ID), bob.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d/friend", alice.ID), bob.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var edgeCount int64
	database.DB.Model(&models.Friendship{}).Count(&edgeCount)
	assert.Equal(t, int64(0), edgeCount)
}

func TestListFriends_Pagination(t *testing.T) {
	router := setupTest(t)
	alice := createUser(t, "alice", nil, nil)

	for i := 0; i < 3; i++ {
		friend := createUser(t, fmt.Sprintf("friend%d", i), nil, nil)
		edge := models.NewFriendship(alice.ID, friend.ID)
		require.NoError(t, database.DB.Create(&edge).Error)
	}

	rec := doRequest(t, router, http.MethodGet, "/api/v1/users/me/friends?page=1&limit=2", alice.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[PaginatedResponse[PublicUserResponse]](t, rec)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, int64(3), resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasMore)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/users/me/friends?page=2&limit=2", alice.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp = decodeBody[PaginatedResponse[PublicUserResponse]](t, rec)
	assert.Len(t, resp.Data, 1)
	assert.False(t, resp.Pagination.HasMore)
}

func TestListFriendRequests(t *testing.T) {
	router := setupTest(t)
	alice := createUser(t, "alice", nil, nil)
	bob := createUser(t, "bob", nil, nil)
	carol := createUser(t, "carol", nil, nil)

	rec := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/friend-request", bob.ID), alice.ID, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/friend-request", alice.ID), carol.ID, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/users/me/friend-requests?type=sent", alice.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sent := decodeBody[PaginatedResponse[PublicUserResponse]](t, rec)
	require.Len(t, sent.Data, 1)
	assert.Equal(t, bob.ID, sent.Data[0].ID)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/users/me/friend-requests?type=received", alice.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	received := decodeBody[PaginatedResponse[PublicUserResponse]](t, rec)
	require.Len(t, received.Data, 1)
	assert.Equal(t, carol.ID, received.Data[0].ID)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/users/me/friend-requests", alice.ID, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMutualFriends(t *testing.T) {
	router := setupTest(t)
	alice := createUser(t, "alice", nil, nil)
	bob := createUser(t, "bob", nil, nil)
	carol := createUser(t, "carol", nil, nil)
	dave := createUser(t, "dave", nil, nil)

	for _, pair := range [][2]uint{
		{alice.ID, carol.ID},
		{bob.ID, carol.ID},
		{alice.ID, dave.ID},
	} {
		edge := models.NewFriendship(pair[0], pair[1])
		require.NoError(t, database.DB.Create(&edge).Error)
	}

	rec := doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/v1/users/%d/mutual-friends", bob.ID), alice.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[map[string][]uint](t, rec)
	assert.Equal(t, []uint{carol.ID}, resp["mutual_friends"])

	// Unfriending carol removes her from the intersection.
	rec = doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d/friend", carol.ID), alice.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/v1/users/%d/mutual-friends", bob.ID), alice.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeBody[map[string][]uint](t, rec)
	assert.Empty(t, resp["mutual_friends"])
}
