package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-console/internal/domain"
	"github.com/spec-kit/complaint-console/internal/events"
	"github.com/spec-kit/complaint-console/internal/repository"
)

// memStore backs the fake repositories used by the service tests.
type memStore struct {
	users      map[string]domain.User
	categories map[string]domain.Category
	complaints map[string]domain.Complaint
	comments   []domain.Comment
	activities []domain.Activity
	seq        int
	now        time.Time

	complaintCreateErr error
	activityCreateErr  error
	categoryCreates    int
}

func newMemStore(now time.Time) *memStore {
	return &memStore{
		users:      make(map[string]domain.User),
		categories: make(map[string]domain.Category),
		complaints: make(map[string]domain.Complaint),
		now:        now,
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%04d", prefix, s.seq)
}

func (s *memStore) addUser(user domain.User) domain.User {
	if user.ID == "" {
		user.ID = s.nextID("user")
	}
	s.users[user.ID] = user
	return user
}

func (s *memStore) addCategory(category domain.Category) domain.Category {
	if category.ID == "" {
		category.ID = s.nextID("cat")
	}
	s.categories[category.ID] = category
	return category
}

func (s *memStore) addComplaint(complaint domain.Complaint) domain.Complaint {
	if complaint.ID == "" {
		complaint.ID = s.nextID("cmp")
	}
	if complaint.CreatedAt.IsZero() {
		complaint.CreatedAt = s.now
	}
	s.complaints[complaint.ID] = complaint
	return complaint
}

func (s *memStore) activitiesFor(complaintID string) []domain.Activity {
	var out []domain.Activity
	for _, a := range s.activities {
		if a.ComplaintID == complaintID {
			out = append(out, a)
		}
	}
	return out
}

type fakeUserRepo struct{ s *memStore }

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = f.s.now
	}
	f.s.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(f.s.users))
	for _, user := range f.s.users {
		out = append(out, user)
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateRole(_ context.Context, id string, role domain.UserRole) error {
	user, ok := f.s.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Role = role
	f.s.users[id] = user
	return nil
}

type fakeCategoryRepo struct{ s *memStore }

func (f *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	if category.ID == "" {
		category.ID = f.s.nextID("cat")
	}
	category.CreatedAt = f.s.now
	f.s.categories[category.ID] = *category
	f.s.categoryCreates++
	return nil
}

func (f *fakeCategoryRepo) Upsert(_ context.Context, category *domain.Category) error {
	f.s.categories[category.ID] = *category
	return nil
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, id string) (*domain.Category, error) {
	category, ok := f.s.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &category, nil
}

func (f *fakeCategoryRepo) GetByName(_ context.Context, name string) (*domain.Category, error) {
	for _, category := range f.s.categories {
		if category.Name == name {
			c := category
			return &c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(f.s.categories))
	for _, category := range f.s.categories {
		out = append(out, category)
	}
	return out, nil
}

type fakeComplaintRepo struct{ s *memStore }

func (f *fakeComplaintRepo) Create(_ context.Context, complaint *domain.Complaint) error {
	if f.s.complaintCreateErr != nil {
		return f.s.complaintCreateErr
	}
	complaint.ID = f.s.nextID("cmp")
	complaint.CreatedAt = f.s.now
	complaint.UpdatedAt = f.s.now
	f.s.complaints[complaint.ID] = *complaint
	return nil
}

func (f *fakeComplaintRepo) Update(_ context.Context, complaint *domain.Complaint) error {
	if _, ok := f.s.complaints[complaint.ID]; !ok {
		return pgx.ErrNoRows
	}
	complaint.UpdatedAt = f.s.now
	f.s.complaints[complaint.ID] = *complaint
	return nil
}

func (f *fakeComplaintRepo) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	complaint, ok := f.s.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &complaint, nil
}

func (f *fakeComplaintRepo) GetRecord(_ context.Context, id string) (*repository.ComplaintRecord, error) {
	complaint, ok := f.s.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return f.buildRecord(complaint), nil
}

func (f *fakeComplaintRepo) buildRecord(complaint domain.Complaint) *repository.ComplaintRecord {
	record := &repository.ComplaintRecord{
		Complaint: complaint,
		Category:  f.s.categories[complaint.CategoryID],
		Reporter:  f.s.users[complaint.ReporterID],
	}
	if complaint.AssignedToID != nil {
		if assignee, ok := f.s.users[*complaint.AssignedToID]; ok {
			record.Assignee = &assignee
		}
	}
	return record
}

func (f *fakeComplaintRepo) ListRecords(_ context.Context, filter repository.ComplaintFilter) ([]repository.ComplaintRecord, error) {
	var out []repository.ComplaintRecord
	for _, complaint := range f.s.complaints {
		if !f.matchesSearch(complaint, filter.SearchTerm) {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, complaint.Status) {
			continue
		}
		if filter.Overdue && !complaint.IsOverdue(f.s.now) {
			continue
		}
		if len(filter.Priorities) > 0 && !containsPriority(filter.Priorities, complaint.Priority) {
			continue
		}
		if filter.CategoryID != nil && complaint.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.Assigned != nil && *filter.Assigned != (complaint.AssignedToID != nil) {
			continue
		}
		if filter.CreatedFrom != nil && complaint.CreatedAt.Before(*filter.CreatedFrom) {
			continue
		}
		if filter.CreatedTo != nil && complaint.CreatedAt.After(*filter.CreatedTo) {
			continue
		}
		out = append(out, *f.buildRecord(complaint))
	}
	return out, nil
}

func (f *fakeComplaintRepo) matchesSearch(complaint domain.Complaint, term *string) bool {
	if term == nil || strings.TrimSpace(*term) == "" {
		return true
	}
	needle := strings.ToLower(strings.TrimSpace(*term))
	haystacks := []string{complaint.ComplaintNumber, complaint.Subject, f.s.users[complaint.ReporterID].Name}
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

func (f *fakeComplaintRepo) ListCreatedSince(_ context.Context, since time.Time, limit int) ([]repository.ComplaintRecord, error) {
	var out []repository.ComplaintRecord
	for _, complaint := range f.s.complaints {
		if complaint.CreatedAt.Before(since) {
			continue
		}
		out = append(out, *f.buildRecord(complaint))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeComplaintRepo) StatusCounts(_ context.Context) (map[domain.ComplaintStatus]int, error) {
	counts := make(map[domain.ComplaintStatus]int)
	for _, complaint := range f.s.complaints {
		counts[complaint.Status]++
	}
	return counts, nil
}

func (f *fakeComplaintRepo) CountOverdue(_ context.Context, now time.Time) (int, error) {
	count := 0
	for _, complaint := range f.s.complaints {
		if complaint.IsOverdue(now) {
			count++
		}
	}
	return count, nil
}

func containsStatus(statuses []domain.ComplaintStatus, status domain.ComplaintStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func containsPriority(priorities []domain.ComplaintPriority, priority domain.ComplaintPriority) bool {
	for _, p := range priorities {
		if p == priority {
			return true
		}
	}
	return false
}

type fakeCommentRepo struct{ s *memStore }

func (f *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	comment.ID = f.s.nextID("cmt")
	comment.CreatedAt = f.s.now
	f.s.comments = append(f.s.comments, *comment)
	return nil
}

func (f *fakeCommentRepo) ListByComplaint(_ context.Context, complaintID string) ([]repository.CommentRecord, error) {
	var out []repository.CommentRecord
	for _, comment := range f.s.comments {
		if comment.ComplaintID != complaintID {
			continue
		}
		out = append(out, repository.CommentRecord{
			Comment: comment,
			Author:  f.s.users[comment.UserID],
		})
	}
	return out, nil
}

type fakeActivityRepo struct{ s *memStore }

func (f *fakeActivityRepo) Create(_ context.Context, activity *domain.Activity) error {
	if f.s.activityCreateErr != nil {
		return f.s.activityCreateErr
	}
	activity.ID = f.s.nextID("act")
	activity.CreatedAt = f.s.now
	f.s.activities = append(f.s.activities, *activity)
	return nil
}

func (f *fakeActivityRepo) ListByComplaint(_ context.Context, complaintID string) ([]repository.ActivityRecord, error) {
	var out []repository.ActivityRecord
	for _, activity := range f.s.activitiesFor(complaintID) {
		out = append(out, repository.ActivityRecord{Activity: activity})
	}
	return out, nil
}

func (f *fakeActivityRepo) ListRecent(_ context.Context, limit int) ([]repository.ActivityRecord, error) {
	var out []repository.ActivityRecord
	for i := len(f.s.activities) - 1; i >= 0; i-- {
		activity := f.s.activities[i]
		complaint := f.s.complaints[activity.ComplaintID]
		out = append(out, repository.ActivityRecord{
			Activity:        activity,
			ComplaintNumber: complaint.ComplaintNumber,
			Subject:         complaint.Subject,
		})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// recordingDispatcher captures published events and still fans them out to
// any subscribed handlers.
type recordingDispatcher struct {
	events   []events.Event
	handlers map[events.EventType][]events.EventHandler
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{handlers: make(map[events.EventType][]events.EventHandler)}
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.events = append(d.events, event)
	for _, handler := range d.handlers[event.Type] {
		_ = handler(ctx, event)
	}
	return nil
}

func (d *recordingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {
	d.handlers[eventType] = append(d.handlers[eventType], handler)
}

func (d *recordingDispatcher) eventsOfType(eventType events.EventType) []events.Event {
	var out []events.Event
	for _, event := range d.events {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}
