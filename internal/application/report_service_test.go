package application

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityassist/backend/internal/domain/entity"
	"github.com/cityassist/backend/pkg/notify"
)

func newReportService(users *memUserRepo) (*ReportService, *memReportRepo, *fakeNotifier, *fakeIndexer) {
	repo := newMemReportRepo()
	notifier := &fakeNotifier{}
	index := &fakeIndexer{}
	svc := NewReportService(repo, users, nil, notifier, index, testLogger())
	return svc, repo, notifier, index
}

func TestCreateReport(t *testing.T) {
	users := newMemUserRepo()
	owner := seedUser(t, users)
	svc, repo, notifier, index := newReportService(users)

	rep, err := svc.Create(context.Background(), owner.ID, CreateReportInput{
		Category:    "pothole",
		Description: "Deep pothole on Elm St",
		Latitude:    40.7128,
		Longitude:   -74.006,
	}, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, rep.ID)
	assert.Equal(t, entity.ReportStatusPending, rep.Status)
	assert.Equal(t, owner.ID, rep.UserID)
	assert.Empty(t, rep.ImageURL)

	events, err := repo.ListEvents(context.Background(), rep.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, entity.ReportStatusPending, events[0].Status)
	assert.Equal(t, "Report submitted", events[0].Message)

	require.Len(t, notifier.jobs, 1)
	job, ok := notifier.jobs[0].(notify.Job)
	require.True(t, ok)
	assert.Equal(t, rep.ID, job.ReportID)
	assert.Equal(t, owner.Email, job.Email)

	assert.Equal(t, []string{rep.ID}, index.indexed)
}

func TestCreateReportWithImage(t *testing.T) {
	users := newMemUserRepo()
	owner := seedUser(t, users)
	svc, _, _, _ := newReportService(users)
	images := &fakeImageStore{url: "https://storage.example.com/img.jpg"}
	svc.Images = images

	rep, err := svc.Create(context.Background(), owner.ID, CreateReportInput{
		Category:    "streetlight",
		Description: "Lamp out",
	}, &ImageUpload{Reader: strings.NewReader("jpeg-bytes"), Filename: "photo.JPG", ContentType: "image/jpeg"})
	require.NoError(t, err)

	assert.Equal(t, "https://storage.example.com/img.jpg", rep.ImageURL)
	require.Len(t, images.paths, 1)
	assert.True(t, strings.HasPrefix(images.paths[0], "reports/"+owner.ID+"/"))
	assert.True(t, strings.HasSuffix(images.paths[0], ".jpg"))
}

func TestCreateReportImageFailureAborts(t *testing.T) {
	users := newMemUserRepo()
	owner := seedUser(t, users)
	svc, repo, _, _ := newReportService(users)
	svc.Images = &fakeImageStore{err: assert.AnError}

	_, err := svc.Create(context.Background(), owner.ID, CreateReportInput{
		Category:    "streetlight",
		Description: "Lamp out",
	}, &ImageUpload{Reader: strings.NewReader("x"), Filename: "p.png"})
	require.Error(t, err)
	assert.Empty(t, repo.reports)
}

func TestCreateReportFanOutIsBestEffort(t *testing.T) {
	users := newMemUserRepo()
	owner := seedUser(t, users)
	svc, repo, notifier, index := newReportService(users)
	notifier.err = assert.AnError
	index.err = assert.AnError

	rep, err := svc.Create(context.Background(), owner.ID, CreateReportInput{
		Category:    "graffiti",
		Description: "Tagged wall",
	}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, rep.ID)
	assert.Len(t, repo.reports, 1)
}

func TestGetEnforcesOwnership(t *testing.T) {
	users := newMemUserRepo()
	owner := seedUser(t, users)
	svc, _, _, _ := newReportService(users)

	rep, err := svc.Create(context.Background(), owner.ID, CreateReportInput{
		Category:    "pothole",
		Description: "x",
	}, nil)
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), owner.ID, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, rep.ID, got.ID)

	// Someone else's report looks like a missing one.
	_, err = svc.Get(context.Background(), "intruder", rep.ID)
	assert.ErrorIs(t, err, ErrReportNotFound)

	_, err = svc.Get(context.Background(), owner.ID, "not-a-uuid")
	assert.ErrorIs(t, err, ErrReportNotFound)

	_, err = svc.Get(context.Background(), owner.ID, "7b0d1a52-7e83-4b5e-9a55-64f5e2f8f9aa")
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestTimelineRequiresOwnership(t *testing.T) {
	users := newMemUserRepo()
	owner := seedUser(t, users)
	svc, _, _, _ := newReportService(users)

	rep, err := svc.Create(context.Background(), owner.ID, CreateReportInput{
		Category:    "pothole",
		Description: "x",
	}, nil)
	require.NoError(t, err)

	events, err := svc.Timeline(context.Background(), owner.ID, rep.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Report submitted", events[0].Message)

	_, err = svc.Timeline(context.Background(), "intruder", rep.ID)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestListByUserPaginates(t *testing.T) {
	users := newMemUserRepo()
	owner := seedUser(t, users)
	svc, _, _, _ := newReportService(users)

	for _, cat := range []string{"first", "second", "third"} {
		_, err := svc.Create(context.Background(), owner.ID, CreateReportInput{
			Category:    cat,
			Description: "x",
		}, nil)
		require.NoError(t, err)
	}

	items, total, page, err := svc.ListByUser(context.Background(), owner.ID, PageRequest{Page: 0, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 2)
	// Newest first under the default sort.
	assert.Equal(t, "third", items[0].Category)
	assert.Equal(t, "second", items[1].Category)
	assert.Equal(t, "createdAt,desc", page.Sort)

	items, total, _, err = svc.ListByUser(context.Background(), owner.ID, PageRequest{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 1)
	assert.Equal(t, "first", items[0].Category)

	items, total, _, err = svc.ListByUser(context.Background(), "someone-else", PageRequest{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name      string
		in        PageRequest
		wantPage  PageRequest
		wantOrder string
	}{
		{
			name:      "defaults",
			in:        PageRequest{},
			wantPage:  PageRequest{Page: 0, Size: 20, Sort: "createdAt,desc"},
			wantOrder: "created_at DESC",
		},
		{
			name:      "negative page clamps to zero",
			in:        PageRequest{Page: -3, Size: 10},
			wantPage:  PageRequest{Page: 0, Size: 10, Sort: "createdAt,desc"},
			wantOrder: "created_at DESC",
		},
		{
			name:      "size capped at 100",
			in:        PageRequest{Size: 5000},
			wantPage:  PageRequest{Page: 0, Size: 100, Sort: "createdAt,desc"},
			wantOrder: "created_at DESC",
		},
		{
			name:      "category ascending",
			in:        PageRequest{Size: 20, Sort: "category,asc"},
			wantPage:  PageRequest{Page: 0, Size: 20, Sort: "category,asc"},
			wantOrder: "category, created_at DESC",
		},
		{
			name:      "status descending",
			in:        PageRequest{Size: 20, Sort: "status,desc"},
			wantPage:  PageRequest{Page: 0, Size: 20, Sort: "status,desc"},
			wantOrder: "status DESC, created_at DESC",
		},
		{
			name:      "unknown sort field falls back",
			in:        PageRequest{Size: 20, Sort: "password_hash;drop table users,asc"},
			wantPage:  PageRequest{Page: 0, Size: 20, Sort: "createdAt,desc"},
			wantOrder: "created_at DESC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, orderBy := NormalizePage(tt.in)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantOrder, orderBy)
		})
	}
}

func TestSearchWithoutIndex(t *testing.T) {
	users := newMemUserRepo()
	svc, _, _, _ := newReportService(users)
	svc.Index = nil

	hits, err := svc.Search(context.Background(), "u", "pothole", 10)
	require.NoError(t, err)
	assert.NotNil(t, hits)
	assert.Empty(t, hits)
}
