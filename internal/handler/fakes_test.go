package handler

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"story-server/shared/interfaces"
	"story-server/shared/models"

	"github.com/google/uuid"
)

// memStore - хранилище в памяти для сквозных тестов HTTP слоя.
type memStore struct {
	mu            sync.Mutex
	users         map[uuid.UUID]models.User
	stories       map[uuid.UUID]models.Story
	contributions map[uuid.UUID]models.Contribution
	notifications map[uuid.UUID]models.Notification
	events        []models.NotificationEvent
}

func newMemStore() *memStore {
	return &memStore{
		users:         map[uuid.UUID]models.User{},
		stories:       map[uuid.UUID]models.Story{},
		contributions: map[uuid.UUID]models.Contribution{},
		notifications: map[uuid.UUID]models.Notification{},
	}
}

type (
	memUsers         struct{ *memStore }
	memStories       struct{ *memStore }
	memContributions struct{ *memStore }
	memNotifications struct{ *memStore }
)

var (
	_ interfaces.UserRepository             = memUsers{}
	_ interfaces.StoryRepository            = memStories{}
	_ interfaces.ContributionRepository     = memContributions{}
	_ interfaces.NotificationRepository     = memNotifications{}
	_ interfaces.NotificationEventPublisher = memNotifications{}
)

func (s *memStore) summary(id uuid.UUID) models.UserSummary {
	u := s.users[id]
	return u.Summary()
}

func cloneStory(st models.Story) models.Story {
	st.ContributorIDs = slices.Clone(st.ContributorIDs)
	st.ContributionIDs = slices.Clone(st.ContributionIDs)
	return st
}

// --- users ---

func (r memUsers) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return models.ErrUserAlreadyExists
		}
		if u.Email == user.Email {
			return models.ErrEmailAlreadyExists
		}
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r memUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	u.Badges = slices.Clone(u.Badges)
	return &u, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (r memUsers) GetSummaries(_ context.Context, ids []uuid.UUID) ([]models.UserSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.UserSummary
	for _, id := range ids {
		if _, ok := r.users[id]; ok {
			out = append(out, r.summary(id))
		}
	}
	return out, nil
}

func (r memUsers) UpdateProfile(_ context.Context, id uuid.UUID, update models.ProfileUpdate) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Bio != nil {
		u.Bio = *update.Bio
	}
	if update.ProfilePicture != nil {
		u.ProfilePicture = *update.ProfilePicture
	}
	r.users[id] = u
	return &u, nil
}

func (r memUsers) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return models.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	r.users[id] = u
	return nil
}

func (r memUsers) AwardPoints(_ context.Context, id uuid.UUID, points float64, badges []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return models.ErrUserNotFound
	}
	u.Points += points
	for _, b := range badges {
		if !slices.Contains(u.Badges, b) {
			u.Badges = append(u.Badges, b)
		}
	}
	r.users[id] = u
	return nil
}

func (r memUsers) SearchByEmail(_ context.Context, fragment string, limit int) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if strings.Contains(u.Email, fragment) && len(out) < limit {
			out = append(out, u)
		}
	}
	return out, nil
}

// --- stories ---

func (r memStories) Create(_ context.Context, story *models.Story) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	story.ID = uuid.New()
	story.CreatedAt = time.Now().UTC()
	story.UpdatedAt = story.CreatedAt
	r.stories[story.ID] = cloneStory(*story)
	return nil
}

func (r memStories) GetByID(_ context.Context, id uuid.UUID) (*models.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.stories[id]
	if !ok {
		return nil, models.ErrStoryNotFound
	}
	st = cloneStory(st)
	return &st, nil
}

func (r memStories) Update(_ context.Context, story *models.Story) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.stories[story.ID]
	if !ok {
		return models.ErrStoryNotFound
	}
	updated := cloneStory(*story)
	updated.ContributionIDs = current.ContributionIDs
	r.stories[story.ID] = updated
	return nil
}

func (r memStories) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stories[id]; !ok {
		return models.ErrStoryNotFound
	}
	delete(r.stories, id)
	for cid, c := range r.contributions {
		if c.StoryID == id {
			delete(r.contributions, cid)
		}
	}
	return nil
}

func (r memStories) ListVisible(_ context.Context, caller uuid.UUID) ([]models.StoryListItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.StoryListItem
	for _, st := range r.stories {
		if st.IsPrivate && st.OwnerID != caller && !st.HasContributor(caller) {
			continue
		}
		out = append(out, models.StoryListItem{Story: cloneStory(st), Owner: r.summary(st.OwnerID)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memStories) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]models.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Story
	for _, st := range r.stories {
		if st.OwnerID == ownerID {
			out = append(out, cloneStory(st))
		}
	}
	return out, nil
}

// --- contributions ---

func (r memContributions) details(c models.Contribution) models.ContributionDetails {
	return models.ContributionDetails{
		Contribution: c,
		Author:       r.summary(c.AuthorID),
		StoryTitle:   r.stories[c.StoryID].Title,
	}
}

func (r memContributions) CreateAndAttach(_ context.Context, c *models.Contribution) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.stories[c.StoryID]
	if !ok {
		return models.ErrStoryNotFound
	}
	c.ID = uuid.New()
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	r.contributions[c.ID] = *c
	st.ContributionIDs = append(slices.Clone(st.ContributionIDs), c.ID)
	r.stories[st.ID] = st
	return nil
}

func (r memContributions) GetByID(_ context.Context, id uuid.UUID) (*models.Contribution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contributions[id]
	if !ok {
		return nil, models.ErrContributionNotFound
	}
	return &c, nil
}

func (r memContributions) DeleteAndDetach(_ context.Context, c *models.Contribution) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contributions[c.ID]; !ok {
		return models.ErrContributionNotFound
	}
	if st, ok := r.stories[c.StoryID]; ok {
		st.ContributionIDs = slices.DeleteFunc(slices.Clone(st.ContributionIDs), func(id uuid.UUID) bool { return id == c.ID })
		r.stories[st.ID] = st
	}
	delete(r.contributions, c.ID)
	return nil
}

func (r memContributions) UpdateStatus(_ context.Context, id uuid.UUID, status models.ContributionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contributions[id]
	if !ok {
		return models.ErrContributionNotFound
	}
	c.Status = status
	r.contributions[id] = c
	return nil
}

func (r memContributions) ListByStory(_ context.Context, storyID uuid.UUID) ([]models.ContributionDetails, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ContributionDetails
	for _, id := range r.stories[storyID].ContributionIDs {
		if c, ok := r.contributions[id]; ok {
			out = append(out, r.details(c))
		}
	}
	return out, nil
}

func (r memContributions) ListByAuthor(_ context.Context, authorID, viewerID uuid.UUID) ([]models.ContributionDetails, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ContributionDetails
	for _, c := range r.contributions {
		st := r.stories[c.StoryID]
		if st.IsPrivate && st.OwnerID != viewerID && !st.HasContributor(viewerID) {
			continue
		}
		if c.AuthorID == authorID {
			out = append(out, r.details(c))
		}
	}
	return out, nil
}

func (r memContributions) List(_ context.Context, afterCreatedAt time.Time, afterID uuid.UUID, limit int) ([]models.ContributionDetails, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]models.ContributionDetails, 0, len(r.contributions))
	for _, c := range r.contributions {
		all = append(all, r.details(c))
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.String() > all[j].ID.String()
	})
	var out []models.ContributionDetails
	for _, d := range all {
		if afterID != uuid.Nil {
			older := d.CreatedAt.Before(afterCreatedAt) ||
				(d.CreatedAt.Equal(afterCreatedAt) && d.ID.String() < afterID.String())
			if !older {
				continue
			}
		}
		out = append(out, d)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r memContributions) Leaderboard(_ context.Context, since *time.Time, limit int) ([]models.LeaderboardEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byAuthor := map[uuid.UUID]*models.LeaderboardEntry{}
	for _, c := range r.contributions {
		st, ok := r.stories[c.StoryID]
		if !ok || st.IsPrivate || c.Evaluation == nil || (since != nil && c.CreatedAt.Before(*since)) {
			continue
		}
		e, ok := byAuthor[c.AuthorID]
		if !ok {
			u := r.users[c.AuthorID]
			e = &models.LeaderboardEntry{UserID: u.ID, Name: u.Name, Username: u.Username, Points: u.Points, Badges: u.Badges}
			byAuthor[c.AuthorID] = e
		}
		e.TotalScore += int64(c.Evaluation.TotalScore)
		e.Contributions++
	}
	out := make([]models.LeaderboardEntry, 0, len(byAuthor))
	for _, e := range byAuthor {
		e.AvgScore = float64(e.TotalScore) / float64(e.Contributions)
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalScore > out[j].TotalScore })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- notifications ---

func (r memNotifications) Create(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = uuid.New()
	n.CreatedAt = time.Now().UTC()
	r.notifications[n.ID] = *n
	return nil
}

func (r memNotifications) GetByID(_ context.Context, id uuid.UUID) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok {
		return nil, models.ErrNotificationNotFound
	}
	return &n, nil
}

func (r memNotifications) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memNotifications) MarkRead(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok {
		return models.ErrNotificationNotFound
	}
	n.Read = true
	r.notifications[id] = n
	return nil
}

func (r memNotifications) PublishNotificationEvent(_ context.Context, event models.NotificationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}
