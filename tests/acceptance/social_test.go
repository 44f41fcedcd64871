package acceptance

import (
	"net/http"
	"strconv"

	"github.com/pintrail/pintrail/internal/domain"
	"github.com/pintrail/pintrail/internal/dto"
)

func (s *Suite) TestFollowAndCounts() {
	anna := s.registerUser("anna@example.com", "anna")
	_ = s.registerUser("bob@example.com", "bob")

	resp := s.doJSON(http.MethodPost, "/api/v1/users/bob/follow", nil, anna.AccessToken)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Following twice is a no-op, not an error.
	resp = s.doJSON(http.MethodPost, "/api/v1/users/bob/follow", nil, anna.AccessToken)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(http.MethodGet, "/api/v1/users/bob/follow-counts", nil, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	counts := decodeData[map[string]int](s, resp)
	s.Equal(1, counts["followers"])
	s.Equal(0, counts["following"])
	resp.Body.Close()

	resp = s.doJSON(http.MethodDelete, "/api/v1/users/bob/follow", nil, anna.AccessToken)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(http.MethodDelete, "/api/v1/users/bob/follow", nil, anna.AccessToken)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *Suite) TestFollow_Self() {
	anna := s.registerUser("selfie@example.com", "selfie")

	resp := s.doJSON(http.MethodPost, "/api/v1/users/selfie/follow", nil, anna.AccessToken)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestFollow_UnknownUser() {
	anna := s.registerUser("lonely@example.com", "lonely")

	resp := s.doJSON(http.MethodPost, "/api/v1/users/ghost/follow", nil, anna.AccessToken)
	defer resp.Body.Close()

	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *Suite) TestPublicProfile() {
	anna := s.registerUser("annapub@example.com", "annapub")
	bob := s.registerUser("bobpub@example.com", "bobpub")

	// A stranger sees the profile without the email.
	resp := s.doJSON(http.MethodGet, "/api/v1/users/annapub", nil, bob.AccessToken)
	s.Equal(http.StatusOK, resp.StatusCode)
	profile := decodeData[dto.UserResponse](s, resp)
	s.Equal("annapub", profile.Username)
	s.Nil(profile.Email)
	resp.Body.Close()

	// The owner sees everything.
	resp = s.doJSON(http.MethodGet, "/api/v1/users/annapub", nil, anna.AccessToken)
	s.Equal(http.StatusOK, resp.StatusCode)
	own := decodeData[dto.UserResponse](s, resp)
	s.Require().NotNil(own.Email)
	s.Equal("annapub@example.com", *own.Email)
	resp.Body.Close()
}

func (s *Suite) TestPrivateProfile() {
	anna := s.registerUser("hidden@example.com", "hidden")
	bob := s.registerUser("curious@example.com", "curious")

	private := "private"
	resp := s.doJSON(http.MethodPatch, "/api/v1/auth/me", dto.UpdateProfileRequest{
		ProfileVisibility: &private,
	}, anna.AccessToken)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(http.MethodGet, "/api/v1/users/hidden", nil, bob.AccessToken)
	s.Equal(http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(http.MethodGet, "/api/v1/users/hidden", nil, "")
	s.Equal(http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// The owner keeps access to their own private profile.
	resp = s.doJSON(http.MethodGet, "/api/v1/users/hidden", nil, anna.AccessToken)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

// feedAfterPin creates a pin for the author and returns the follower's feed
// right after the fan-out.
func (s *Suite) feedAfterPin(author, follower dto.AuthResponse, place string) []domain.FeedItem {
	resp := s.doJSON(http.MethodPost, "/api/v1/pins",
		pinRequest(place, 48.8584, 2.2945, "Paris", "France", "FR"), author.AccessToken)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(http.MethodGet, "/api/v1/feed", nil, follower.AccessToken)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	return decodeData[[]domain.FeedItem](s, resp)
}

func (s *Suite) TestFeedFanOut() {
	anna := s.registerUser("author@example.com", "author")
	bob := s.registerUser("reader@example.com", "reader")

	resp := s.doJSON(http.MethodPost, "/api/v1/users/author/follow", nil, bob.AccessToken)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	feed := s.feedAfterPin(anna, bob, "Eiffel Tower")
	s.Require().NotEmpty(feed)

	item := feed[0]
	s.Equal(domain.ActivityNewPinVisited, item.Activity.ActivityType)
	s.Equal("Eiffel Tower", item.Activity.Metadata["place_name"])
	s.False(item.Entry.IsSeen)

	// The author does not see their own activity in their feed.
	resp = s.doJSON(http.MethodGet, "/api/v1/feed", nil, anna.AccessToken)
	s.Equal(http.StatusOK, resp.StatusCode)
	ownFeed := decodeData[[]domain.FeedItem](s, resp)
	s.Empty(ownFeed)
	resp.Body.Close()
}

func (s *Suite) TestMarkFeedSeen() {
	anna := s.registerUser("seenauthor@example.com", "seenauthor")
	bob := s.registerUser("seenreader@example.com", "seenreader")

	resp := s.doJSON(http.MethodPost, "/api/v1/users/seenauthor/follow", nil, bob.AccessToken)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	feed := s.feedAfterPin(anna, bob, "Louvre")
	s.Require().NotEmpty(feed)
	activityID := feed[0].Activity.ID

	resp = s.doJSON(http.MethodPost, "/api/v1/feed/seen", dto.MarkFeedSeenRequest{
		ActivityIDs: []int64{activityID},
	}, bob.AccessToken)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(http.MethodGet, "/api/v1/feed", nil, bob.AccessToken)
	s.Equal(http.StatusOK, resp.StatusCode)
	feed = decodeData[[]domain.FeedItem](s, resp)
	s.Require().NotEmpty(feed)
	s.True(feed[0].Entry.IsSeen)
	resp.Body.Close()
}

func (s *Suite) TestLikesAndComments() {
	anna := s.registerUser("likeauthor@example.com", "likeauthor")
	bob := s.registerUser("likereader@example.com", "likereader")

	resp := s.doJSON(http.MethodPost, "/api/v1/users/likeauthor/follow", nil, bob.AccessToken)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	feed := s.feedAfterPin(anna, bob, "Notre-Dame")
	s.Require().NotEmpty(feed)
	activityID := feed[0].Activity.ID
	path := func(suffix string) string {
		return "/api/v1/activities/" + formatID(activityID) + suffix
	}

	// Liking twice stays a single like.
	for i := 0; i < 2; i++ {
		resp = s.doJSON(http.MethodPost, path("/like"), nil, bob.AccessToken)
		s.Equal(http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	resp = s.doJSON(http.MethodPost, path("/comments"), dto.CommentRequest{
		Content: "jealous!",
	}, bob.AccessToken)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	comment := decodeData[domain.ActivityComment](s, resp)
	s.Equal("jealous!", comment.Content)
	resp.Body.Close()

	resp = s.doJSON(http.MethodPost, path("/comments"), dto.CommentRequest{
		Content:         "me too",
		ParentCommentID: &comment.ID,
	}, anna.AccessToken)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(http.MethodGet, path("/comments"), nil, bob.AccessToken)
	s.Equal(http.StatusOK, resp.StatusCode)
	comments := decodeData[[]domain.ActivityComment](s, resp)
	s.Len(comments, 2)
	resp.Body.Close()

	// The denormalized counters follow.
	resp = s.doJSON(http.MethodGet, "/api/v1/feed", nil, bob.AccessToken)
	feed = decodeData[[]domain.FeedItem](s, resp)
	s.Require().NotEmpty(feed)
	s.Equal(1, feed[0].Activity.LikesCount)
	s.Equal(2, feed[0].Activity.CommentsCount)
	resp.Body.Close()

	// Unlike removes it; a second unlike has nothing to remove.
	resp = s.doJSON(http.MethodDelete, path("/like"), nil, bob.AccessToken)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(http.MethodDelete, path("/like"), nil, bob.AccessToken)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *Suite) TestDeleteComment_NotAuthor() {
	anna := s.registerUser("commauthor@example.com", "commauthor")
	bob := s.registerUser("commreader@example.com", "commreader")

	resp := s.doJSON(http.MethodPost, "/api/v1/users/commauthor/follow", nil, bob.AccessToken)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	feed := s.feedAfterPin(anna, bob, "Pantheon")
	s.Require().NotEmpty(feed)

	resp = s.doJSON(http.MethodPost,
		"/api/v1/activities/"+formatID(feed[0].Activity.ID)+"/comments",
		dto.CommentRequest{Content: "wish I was there"}, bob.AccessToken)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	comment := decodeData[domain.ActivityComment](s, resp)
	resp.Body.Close()

	resp = s.doJSON(http.MethodDelete, "/api/v1/comments/"+formatID(comment.ID), nil, anna.AccessToken)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(http.MethodDelete, "/api/v1/comments/"+formatID(comment.ID), nil, bob.AccessToken)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func (s *Suite) TestLike_MissingActivity() {
	anna := s.registerUser("nolike@example.com", "nolike")

	resp := s.doJSON(http.MethodPost, "/api/v1/activities/99999/like", nil, anna.AccessToken)
	defer resp.Body.Close()

	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
