package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pintrail/pintrail/internal/domain"
	"github.com/pintrail/pintrail/internal/repository"
)

// In-memory repository fakes. Lookups return copies so a service mutating a
// fetched entity does not leak into the store before the update call, same as
// with a real database.

type fakeUserRepo struct {
	seq   int64
	users []*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (r *fakeUserRepo) find(match func(*domain.User) bool) *domain.User {
	for _, u := range r.users {
		if match(u) {
			return u
		}
	}
	return nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if user.Email != nil && r.find(func(u *domain.User) bool { return u.Email != nil && *u.Email == *user.Email }) != nil {
		return repository.ErrDuplicateEmail
	}
	if r.find(func(u *domain.User) bool { return u.Username == user.Username }) != nil {
		return repository.ErrDuplicateUsername
	}
	if user.GoogleID != nil && r.find(func(u *domain.User) bool { return u.GoogleID != nil && *u.GoogleID == *user.GoogleID }) != nil {
		return repository.ErrDuplicateProviderID
	}
	if user.AppleID != nil && r.find(func(u *domain.User) bool { return u.AppleID != nil && *u.AppleID == *user.AppleID }) != nil {
		return repository.ErrDuplicateProviderID
	}

	r.seq++
	user.ID = r.seq
	if user.UUID == "" {
		user.UUID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users = append(r.users, cloneUser(user))
	return nil
}

func (r *fakeUserRepo) getBy(match func(*domain.User) bool) (*domain.User, error) {
	if u := r.find(match); u != nil {
		return cloneUser(u), nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByUUID(_ context.Context, id string) (*domain.User, error) {
	return r.getBy(func(u *domain.User) bool { return u.UUID == id })
}

func (r *fakeUserRepo) GetActiveByUUID(_ context.Context, id string) (*domain.User, error) {
	return r.getBy(func(u *domain.User) bool { return u.UUID == id && u.DeletedAt == nil })
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.getBy(func(u *domain.User) bool { return u.Email != nil && *u.Email == email })
}

func (r *fakeUserRepo) GetActiveByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.getBy(func(u *domain.User) bool { return u.Email != nil && *u.Email == email && u.DeletedAt == nil })
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.getBy(func(u *domain.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) GetActiveByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.getBy(func(u *domain.User) bool { return u.Username == username && u.DeletedAt == nil })
}

func (r *fakeUserRepo) GetByProviderID(_ context.Context, provider domain.SocialProvider, providerID string) (*domain.User, error) {
	return r.getBy(func(u *domain.User) bool {
		switch provider {
		case domain.ProviderGoogle:
			return u.GoogleID != nil && *u.GoogleID == providerID
		case domain.ProviderApple:
			return u.AppleID != nil && *u.AppleID == providerID
		}
		return false
	})
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	return r.find(func(u *domain.User) bool { return u.Email != nil && *u.Email == email }) != nil, nil
}

func (r *fakeUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username }) != nil, nil
}

func (r *fakeUserRepo) LinkProvider(_ context.Context, userID int64, provider domain.SocialProvider, providerID string) error {
	u := r.find(func(u *domain.User) bool { return u.ID == userID })
	if u == nil {
		return repository.ErrNotFound
	}
	switch provider {
	case domain.ProviderGoogle:
		u.GoogleID = &providerID
	case domain.ProviderApple:
		u.AppleID = &providerID
	}
	return nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, user *domain.User) error {
	stored := r.find(func(u *domain.User) bool { return u.ID == user.ID })
	if stored == nil {
		return repository.ErrNotFound
	}
	stored.DisplayName = user.DisplayName
	stored.Bio = user.Bio
	stored.AvatarURL = user.AvatarURL
	stored.CoverURL = user.CoverURL
	stored.ProfileVisibility = user.ProfileVisibility
	stored.NotesVisibility = user.NotesVisibility
	stored.BucketlistVisibility = user.BucketlistVisibility
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID int64, passwordHash string) error {
	stored := r.find(func(u *domain.User) bool { return u.ID == userID })
	if stored == nil {
		return repository.ErrNotFound
	}
	stored.PasswordHash = &passwordHash
	return nil
}

func (r *fakeUserRepo) SoftDelete(_ context.Context, userID int64) error {
	stored := r.find(func(u *domain.User) bool { return u.ID == userID && u.DeletedAt == nil })
	if stored == nil {
		return repository.ErrNotFound
	}
	now := time.Now()
	stored.DeletedAt = &now
	return nil
}

type fakePinRepo struct {
	seq   int64
	pins  []*domain.Pin
	media map[int64][]*domain.PinMedia
	users *fakeUserRepo
}

func newFakePinRepo(users *fakeUserRepo) *fakePinRepo {
	return &fakePinRepo{media: map[int64][]*domain.PinMedia{}, users: users}
}

func clonePin(p *domain.Pin) *domain.Pin {
	c := *p
	return &c
}

func (r *fakePinRepo) Create(_ context.Context, pin *domain.Pin, media []*domain.PinMedia) error {
	r.seq++
	pin.ID = r.seq
	if pin.UUID == "" {
		pin.UUID = uuid.New().String()
	}
	now := time.Now()
	pin.CreatedAt = now
	pin.UpdatedAt = now
	r.pins = append(r.pins, clonePin(pin))
	r.media[pin.ID] = media
	r.refreshStats(pin.UserID)
	return nil
}

func (r *fakePinRepo) GetByUUID(_ context.Context, id string) (*domain.Pin, error) {
	for _, p := range r.pins {
		if p.UUID == id {
			return clonePin(p), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePinRepo) ListByUserID(_ context.Context, userID int64) ([]*domain.Pin, error) {
	var out []*domain.Pin
	for _, p := range r.pins {
		if p.UserID == userID {
			out = append(out, clonePin(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakePinRepo) Update(_ context.Context, pin *domain.Pin) error {
	for i, p := range r.pins {
		if p.ID == pin.ID && p.UserID == pin.UserID {
			updated := clonePin(pin)
			updated.UpdatedAt = time.Now()
			r.pins[i] = updated
			r.refreshStats(pin.UserID)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakePinRepo) Delete(_ context.Context, pinID, userID int64) error {
	for i, p := range r.pins {
		if p.ID == pinID && p.UserID == userID {
			r.pins = append(r.pins[:i], r.pins[i+1:]...)
			delete(r.media, pinID)
			r.refreshStats(userID)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakePinRepo) refreshStats(userID int64) {
	user := r.users.find(func(u *domain.User) bool { return u.ID == userID })
	if user == nil {
		return
	}

	countries := map[string]bool{}
	cities := map[string]bool{}
	total := 0
	for _, p := range r.pins {
		if p.UserID != userID {
			continue
		}
		total++
		if p.Status != domain.PinVisited {
			continue
		}
		if p.AddressCountryCode != nil {
			countries[*p.AddressCountryCode] = true
		}
		if p.AddressCity != nil {
			city := *p.AddressCity
			if p.AddressCountryCode != nil {
				city += "/" + *p.AddressCountryCode
			}
			cities[city] = true
		}
	}
	user.TotalPinsCount = total
	user.VisitedCountriesCount = len(countries)
	user.VisitedCitiesCount = len(cities)
}

type fakeActivityRepo struct {
	seq        int64
	activities map[int64]*domain.Activity
	likes      map[string]bool
	commentSeq int64
	comments   []*domain.ActivityComment
	feedSeq    int64
	feed       []*domain.UserFeed
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{
		activities: map[int64]*domain.Activity{},
		likes:      map[string]bool{},
	}
}

func likeKey(activityID, userID int64) string {
	return fmt.Sprintf("%d:%d", activityID, userID)
}

func (r *fakeActivityRepo) CreateWithFanOut(_ context.Context, activity *domain.Activity, recipientIDs []int64) error {
	r.seq++
	activity.ID = r.seq
	now := time.Now()
	activity.CreatedAt = now
	activity.UpdatedAt = now
	stored := *activity
	r.activities[activity.ID] = &stored

	for _, userID := range recipientIDs {
		r.feedSeq++
		r.feed = append(r.feed, &domain.UserFeed{
			ID:            r.feedSeq,
			UserID:        userID,
			ActivityID:    activity.ID,
			FeedTimestamp: now,
		})
	}
	return nil
}

func (r *fakeActivityRepo) GetByID(_ context.Context, id int64) (*domain.Activity, error) {
	a, ok := r.activities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *a
	return &c, nil
}

func (r *fakeActivityRepo) AddLike(_ context.Context, activityID, userID int64) error {
	a, ok := r.activities[activityID]
	if !ok {
		return repository.ErrNotFound
	}
	key := likeKey(activityID, userID)
	if r.likes[key] {
		return repository.ErrDuplicateLike
	}
	r.likes[key] = true
	a.LikesCount++
	return nil
}

func (r *fakeActivityRepo) RemoveLike(_ context.Context, activityID, userID int64) error {
	key := likeKey(activityID, userID)
	if !r.likes[key] {
		return repository.ErrNotFound
	}
	delete(r.likes, key)
	if a, ok := r.activities[activityID]; ok && a.LikesCount > 0 {
		a.LikesCount--
	}
	return nil
}

func (r *fakeActivityRepo) AddComment(_ context.Context, comment *domain.ActivityComment) error {
	a, ok := r.activities[comment.ActivityID]
	if !ok {
		return repository.ErrNotFound
	}
	r.commentSeq++
	comment.ID = r.commentSeq
	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	stored := *comment
	r.comments = append(r.comments, &stored)
	a.CommentsCount++
	return nil
}

func (r *fakeActivityRepo) SoftDeleteComment(_ context.Context, commentID, userID int64) error {
	for _, c := range r.comments {
		if c.ID == commentID && c.UserID == userID && c.DeletedAt == nil {
			now := time.Now()
			c.DeletedAt = &now
			if a, ok := r.activities[c.ActivityID]; ok && a.CommentsCount > 0 {
				a.CommentsCount--
			}
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeActivityRepo) ListComments(_ context.Context, activityID int64) ([]*domain.ActivityComment, error) {
	var out []*domain.ActivityComment
	for _, c := range r.comments {
		if c.ActivityID == activityID && c.DeletedAt == nil {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

type fakeFollowRepo struct {
	edges map[string]bool
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{edges: map[string]bool{}}
}

func edgeKey(followerID, followingID int64) string {
	return fmt.Sprintf("%d->%d", followerID, followingID)
}

func (r *fakeFollowRepo) Create(_ context.Context, followerID, followingID int64) error {
	key := edgeKey(followerID, followingID)
	if r.edges[key] {
		return repository.ErrDuplicateFollow
	}
	r.edges[key] = true
	return nil
}

func (r *fakeFollowRepo) Delete(_ context.Context, followerID, followingID int64) error {
	key := edgeKey(followerID, followingID)
	if !r.edges[key] {
		return repository.ErrNotFound
	}
	delete(r.edges, key)
	return nil
}

func (r *fakeFollowRepo) Exists(_ context.Context, followerID, followingID int64) (bool, error) {
	return r.edges[edgeKey(followerID, followingID)], nil
}

func (r *fakeFollowRepo) ListFollowerIDs(_ context.Context, userID int64) ([]int64, error) {
	var ids []int64
	for key := range r.edges {
		var follower, following int64
		fmt.Sscanf(key, "%d->%d", &follower, &following)
		if following == userID {
			ids = append(ids, follower)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeFollowRepo) Counts(_ context.Context, userID int64) (int, int, error) {
	followers, following := 0, 0
	for key := range r.edges {
		var a, b int64
		fmt.Sscanf(key, "%d->%d", &a, &b)
		if b == userID {
			followers++
		}
		if a == userID {
			following++
		}
	}
	return followers, following, nil
}

type fakeFeedRepo struct {
	activities *fakeActivityRepo
}

func newFakeFeedRepo(activities *fakeActivityRepo) *fakeFeedRepo {
	return &fakeFeedRepo{activities: activities}
}

func (r *fakeFeedRepo) ListByUser(_ context.Context, userID int64, limit, offset int) ([]*domain.FeedItem, error) {
	var entries []*domain.UserFeed
	for _, e := range r.activities.feed {
		if e.UserID == userID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID > entries[j].ID })

	if offset >= len(entries) {
		return nil, nil
	}
	entries = entries[offset:]
	if len(entries) > limit {
		entries = entries[:limit]
	}

	var items []*domain.FeedItem
	for _, e := range entries {
		items = append(items, &domain.FeedItem{
			Entry:    *e,
			Activity: *r.activities.activities[e.ActivityID],
		})
	}
	return items, nil
}

func (r *fakeFeedRepo) MarkSeen(_ context.Context, userID int64, activityIDs []int64) error {
	wanted := map[int64]bool{}
	for _, id := range activityIDs {
		wanted[id] = true
	}
	for _, e := range r.activities.feed {
		if e.UserID == userID && wanted[e.ActivityID] {
			e.IsSeen = true
		}
	}
	return nil
}

type fakeBlacklist struct {
	tokens map[string]bool
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{tokens: map[string]bool{}}
}

func (b *fakeBlacklist) AddToken(_ context.Context, token string, _ time.Duration) error {
	b.tokens[token] = true
	return nil
}

func (b *fakeBlacklist) IsTokenBlacklisted(_ context.Context, token string) (bool, error) {
	return b.tokens[token], nil
}

// staticVerifier maps ID tokens to fixed identities.
type staticVerifier struct {
	identities map[string]ProviderIdentity
}

func (v *staticVerifier) Verify(_ context.Context, _ domain.SocialProvider, idToken string) (*ProviderIdentity, error) {
	identity, ok := v.identities[idToken]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return &identity, nil
}
