package drafting

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/grant-matching/internal/models"
	"github.com/magabrotheeeer/grant-matching/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetAnnouncement(ctx context.Context, id string) (*models.Announcement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Announcement), args.Error(1)
}

func (m *RepoMock) GetCompanyByUser(ctx context.Context, userID string) (*models.Company, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *RepoMock) LatestBusinessPlan(ctx context.Context, userID string) (*models.BusinessPlan, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BusinessPlan), args.Error(1)
}

type GeneratorMock struct{ mock.Mock }

func (m *GeneratorMock) Generate(ctx context.Context, system, prompt string) (string, error) {
	args := m.Called(ctx, system, prompt)
	return args.String(0), args.Error(1)
}

type FetcherMock struct{ mock.Mock }

func (m *FetcherMock) Fetch(ctx context.Context, url string) (string, error) {
	args := m.Called(ctx, url)
	return args.String(0), args.Error(1)
}

type RecorderMock struct{ mock.Mock }

func (m *RecorderMock) DraftSection(section, status string) {
	m.Called(section, status)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

const announcementID = "6f1c2b8e-5d1a-4c1b-9a7e-2f1d3c4b5a69"

func testAnnouncement() *models.Announcement {
	return &models.Announcement{
		ID:                 announcementID,
		Title:              "예비창업패키지",
		Organization:       "창업진흥원",
		Category:           "창업",
		Description:        "예비창업자 사업화 지원",
		Eligibility:        json.RawMessage(`{"age": "39세 이하"}`),
		EvaluationCriteria: json.RawMessage(`null`),
		ContentURL:         "https://example.com/notice/1",
	}
}

func promptFor(section string) any {
	return mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "'"+section+"'")
	})
}

func setupContext(r *RepoMock, f *FetcherMock) {
	r.On("GetAnnouncement", mock.Anything, announcementID).Return(testAnnouncement(), nil)
	r.On("GetCompanyByUser", mock.Anything, "u1").Return(&models.Company{Name: "(주)그랜트랩", Industry: "IT"}, nil)
	r.On("LatestBusinessPlan", mock.Anything, "u1").Return(nil, repository.ErrNotFound)
	f.On("Fetch", mock.Anything, "https://example.com/notice/1").Return("공고 원문 내용", nil)
}

func TestService_Generate_AllSucceeded(t *testing.T) {
	repo, gen, fetch, rec := new(RepoMock), new(GeneratorMock), new(FetcherMock), new(RecorderMock)
	setupContext(repo, fetch)
	var order []string
	for _, s := range AllSections() {
		section := s
		gen.On("Generate", mock.Anything, systemPrompt, promptFor(section)).
			Run(func(mock.Arguments) { order = append(order, section) }).
			Return(section+" 초안", nil).Once()
		rec.On("DraftSection", section, models.DraftTaskSucceeded).Once()
	}
	svc := New(repo, gen, fetch, rec, newNoopLogger())

	res, err := svc.Generate(context.Background(), "u1", models.DraftRequest{AnnouncementID: announcementID})
	require.NoError(t, err)
	assert.False(t, res.Partial)
	require.Len(t, res.Tasks, 5)
	assert.Equal(t, AllSections(), order)
	for i, task := range res.Tasks {
		assert.Equal(t, AllSections()[i], task.Section)
		assert.Equal(t, models.DraftTaskSucceeded, task.Status)
		assert.Equal(t, task.Section+" 초안", task.Content)
	}
	gen.AssertExpectations(t)
	rec.AssertExpectations(t)
}

func TestService_Generate_Partial(t *testing.T) {
	repo, gen, fetch, rec := new(RepoMock), new(GeneratorMock), new(FetcherMock), new(RecorderMock)
	setupContext(repo, fetch)
	gen.On("Generate", mock.Anything, systemPrompt, promptFor(SectionMarket)).
		Return("", errors.New("rate limited: secret upstream detail")).Once()
	gen.On("Generate", mock.Anything, systemPrompt, promptFor(SectionImpact)).Return("기대효과 초안", nil).Once()
	rec.On("DraftSection", SectionMarket, models.DraftTaskFailed).Once()
	rec.On("DraftSection", SectionImpact, models.DraftTaskSucceeded).Once()
	svc := New(repo, gen, fetch, rec, newNoopLogger())

	res, err := svc.Generate(context.Background(), "u1", models.DraftRequest{
		AnnouncementID: announcementID,
		Sections:       []string{SectionMarket, SectionImpact, SectionMarket},
	})
	require.NoError(t, err)
	assert.True(t, res.Partial)
	require.Len(t, res.Tasks, 2)
	assert.Equal(t, models.DraftTaskFailed, res.Tasks[0].Status)
	assert.Equal(t, taskErrorMessage, res.Tasks[0].Error)
	assert.Empty(t, res.Tasks[0].Content)
	assert.Equal(t, models.DraftTaskSucceeded, res.Tasks[1].Status)
	gen.AssertExpectations(t)
	rec.AssertExpectations(t)
}

func TestService_Generate_SectionTimeout(t *testing.T) {
	repo, gen, fetch, rec := new(RepoMock), new(GeneratorMock), new(FetcherMock), new(RecorderMock)
	setupContext(repo, fetch)
	gen.On("Generate", mock.Anything, systemPrompt, promptFor(SectionOverview)).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return("", context.DeadlineExceeded).Once()
	gen.On("Generate", mock.Anything, systemPrompt, promptFor(SectionStrategy)).Return("사업화전략 초안", nil).Once()
	rec.On("DraftSection", SectionOverview, models.DraftTaskFailed).Once()
	rec.On("DraftSection", SectionStrategy, models.DraftTaskSucceeded).Once()
	svc := New(repo, gen, fetch, rec, newNoopLogger())
	svc.sectionTimeout = 20 * time.Millisecond

	res, err := svc.Generate(context.Background(), "u1", models.DraftRequest{
		AnnouncementID: announcementID,
		Sections:       []string{SectionOverview, SectionStrategy},
	})
	require.NoError(t, err)
	assert.True(t, res.Partial)
	require.Len(t, res.Tasks, 2)
	assert.Equal(t, models.DraftTaskFailed, res.Tasks[0].Status)
	assert.Equal(t, models.DraftTaskSucceeded, res.Tasks[1].Status)
	gen.AssertExpectations(t)
	rec.AssertExpectations(t)
}

func TestService_Generate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		sections   []string
		setupMocks func(r *RepoMock)
		wantErr    error
	}{
		{
			name:       "unknown section",
			sections:   []string{"마케팅"},
			setupMocks: func(_ *RepoMock) {},
			wantErr:    ErrUnknownSection,
		},
		{
			name: "announcement not found",
			setupMocks: func(r *RepoMock) {
				r.On("GetAnnouncement", mock.Anything, announcementID).Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: repository.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, gen := new(RepoMock), new(GeneratorMock)
			tt.setupMocks(repo)
			svc := New(repo, gen, nil, nil, newNoopLogger())

			res, err := svc.Generate(context.Background(), "u1", models.DraftRequest{
				AnnouncementID: announcementID, Sections: tt.sections,
			})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, res)
			gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestService_Generate_ContextFallbacks(t *testing.T) {
	repo, gen, fetch := new(RepoMock), new(GeneratorMock), new(FetcherMock)
	repo.On("GetAnnouncement", mock.Anything, announcementID).Return(testAnnouncement(), nil)
	repo.On("GetCompanyByUser", mock.Anything, "u1").Return(nil, repository.ErrNotFound)
	repo.On("LatestBusinessPlan", mock.Anything, "u1").
		Return(&models.BusinessPlan{Text: strings.Repeat("가", businessPlanLimit+100)}, nil)
	fetch.On("Fetch", mock.Anything, mock.Anything).Return("", errors.New("timeout"))

	var prompt string
	gen.On("Generate", mock.Anything, systemPrompt, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { prompt = args.String(2) }).
		Return("ok", nil).Once()
	svc := New(repo, gen, fetch, nil, newNoopLogger())

	res, err := svc.Generate(context.Background(), "u1", models.DraftRequest{
		AnnouncementID: announcementID, Sections: []string{SectionOverview},
	})
	require.NoError(t, err)
	assert.False(t, res.Partial)
	assert.Contains(t, prompt, "예비창업패키지")
	assert.Contains(t, prompt, `{"age":"39세 이하"}`)
	assert.NotContains(t, prompt, "평가기준")
	assert.NotContains(t, prompt, "[기업 정보]")
	assert.NotContains(t, prompt, strings.Repeat("가", businessPlanLimit+1))
}

func TestService_Revise(t *testing.T) {
	req := models.ReviseRequest{
		AnnouncementID: announcementID,
		Section:        SectionStrategy,
		Draft:          "기존 초안",
		Feedback:       "판로를 구체화해 주세요",
	}

	t.Run("success", func(t *testing.T) {
		repo, gen, fetch, rec := new(RepoMock), new(GeneratorMock), new(FetcherMock), new(RecorderMock)
		setupContext(repo, fetch)
		gen.On("Generate", mock.Anything, systemPrompt, mock.MatchedBy(func(p string) bool {
			return strings.Contains(p, "기존 초안") && strings.Contains(p, "판로를 구체화해 주세요")
		})).Return("수정된 초안", nil).Once()
		rec.On("DraftSection", SectionStrategy, models.DraftTaskSucceeded).Once()

		text, err := New(repo, gen, fetch, rec, newNoopLogger()).Revise(context.Background(), "u1", req)
		require.NoError(t, err)
		assert.Equal(t, "수정된 초안", text)
		rec.AssertExpectations(t)
	})

	t.Run("provider failure is returned", func(t *testing.T) {
		repo, gen, fetch, rec := new(RepoMock), new(GeneratorMock), new(FetcherMock), new(RecorderMock)
		setupContext(repo, fetch)
		gen.On("Generate", mock.Anything, systemPrompt, mock.Anything).Return("", errors.New("boom")).Once()
		rec.On("DraftSection", SectionStrategy, models.DraftTaskFailed).Once()

		text, err := New(repo, gen, fetch, rec, newNoopLogger()).Revise(context.Background(), "u1", req)
		assert.Error(t, err)
		assert.Empty(t, text)
	})

	t.Run("unknown section", func(t *testing.T) {
		bad := req
		bad.Section = "요약"
		_, err := New(new(RepoMock), new(GeneratorMock), nil, nil, newNoopLogger()).Revise(context.Background(), "u1", bad)
		assert.ErrorIs(t, err, ErrUnknownSection)
	})
}

func TestNormalizeSections(t *testing.T) {
	got, err := normalizeSections(nil)
	require.NoError(t, err)
	assert.Equal(t, AllSections(), got)

	got, err = normalizeSections([]string{SectionImpact, SectionOverview, SectionImpact})
	require.NoError(t, err)
	assert.Equal(t, []string{SectionImpact, SectionOverview}, got)
}
