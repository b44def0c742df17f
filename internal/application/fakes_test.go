package application

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cityassist/backend/internal/domain/entity"
	"github.com/cityassist/backend/internal/domain/repository"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// memUserRepo mirrors the postgres repository contract in memory.
type memUserRepo struct {
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}}
}

func (m *memUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, e := range m.users {
		if e.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = uuid.NewString()
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (m *memUserRepo) UpdateProfile(_ context.Context, userID string, in repository.ProfileUpdate) (*entity.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.Name = in.Name
	if in.Age != nil {
		age := *in.Age
		u.Age = &age
	}
	if in.MedicalFlags != nil {
		u.MedicalFlags = append([]string{}, *in.MedicalFlags...)
	}
	if in.CommutePatterns != nil {
		u.CommutePatterns = append([]string{}, *in.CommutePatterns...)
	}
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) ReplacePreferences(_ context.Context, userID string, notification, alert map[string]string) error {
	u, ok := m.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.NotificationPreferences = notification
	u.AlertPreferences = alert
	u.UpdatedAt = time.Now().UTC()
	return nil
}

var _ repository.UserRepository = (*memUserRepo)(nil)

// memReportRepo stores reports and events in memory. Listing honors the
// limit/offset and sorts newest-first, which matches the default order
// the tests exercise.
type memReportRepo struct {
	reports []entity.Report
	events  map[string][]entity.TimelineEvent
	clock   time.Time
}

func newMemReportRepo() *memReportRepo {
	return &memReportRepo{
		events: map[string][]entity.TimelineEvent{},
		clock:  time.Now().UTC(),
	}
}

func (m *memReportRepo) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memReportRepo) Create(_ context.Context, r *entity.Report, first *entity.TimelineEvent) error {
	now := m.tick()
	r.ID = uuid.NewString()
	r.CreatedAt, r.UpdatedAt = now, now
	first.ID = uuid.NewString()
	first.ReportID = r.ID
	first.CreatedAt = now
	m.reports = append(m.reports, *r)
	m.events[r.ID] = append(m.events[r.ID], *first)
	return nil
}

func (m *memReportRepo) GetByID(_ context.Context, id string) (*entity.Report, error) {
	for i := range m.reports {
		if m.reports[i].ID == id {
			cp := m.reports[i]
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memReportRepo) ListByOwner(_ context.Context, ownerID string, p repository.ListParams) ([]entity.Report, int64, error) {
	var owned []entity.Report
	for _, r := range m.reports {
		if r.UserID == ownerID {
			owned = append(owned, r)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })

	total := int64(len(owned))
	if p.Offset >= len(owned) {
		return []entity.Report{}, total, nil
	}
	end := p.Offset + p.Limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[p.Offset:end], total, nil
}

func (m *memReportRepo) ListEvents(_ context.Context, reportID string) ([]entity.TimelineEvent, error) {
	return append([]entity.TimelineEvent{}, m.events[reportID]...), nil
}

var _ repository.ReportRepository = (*memReportRepo)(nil)

// capture fakes for the report fan-out dependencies.

type fakeImageStore struct {
	url   string
	err   error
	paths []string
}

func (f *fakeImageStore) Upload(_ context.Context, objectPath, _ string, _ io.Reader) (string, error) {
	f.paths = append(f.paths, objectPath)
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type fakeNotifier struct {
	err  error
	jobs []any
}

func (f *fakeNotifier) PublishJSON(_ context.Context, body any) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, body)
	return nil
}

type fakeIndexer struct {
	indexed []string
	results []map[string]any
	err     error
}

func (f *fakeIndexer) IndexReport(_ context.Context, rep *entity.Report) error {
	if f.err != nil {
		return f.err
	}
	f.indexed = append(f.indexed, rep.ID)
	return nil
}

func (f *fakeIndexer) Search(_ context.Context, _, _ string, _ int) ([]map[string]any, error) {
	return f.results, f.err
}
