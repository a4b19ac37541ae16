// Package drafting генерирует черновики разделов заявки на грант.
// Разделы выполняются строго последовательно, сбой одного раздела не прерывает
// остальные: клиент повторяет только неудавшиеся разделы.
package drafting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
	"github.com/magabrotheeeer/grant-matching/internal/lib/textextract"
	"github.com/magabrotheeeer/grant-matching/internal/models"
	"github.com/magabrotheeeer/grant-matching/internal/storage/repository"
)

const (
	announcementTextLimit = 6000
	businessPlanLimit     = 8000
	draftLimit            = 20000

	systemPrompt = "당신은 정부지원사업 신청서 작성을 돕는 전문 컨설턴트입니다. " +
		"공고문과 기업 정보에 근거해 구체적이고 사실적인 문장으로 작성하고, 근거 없는 수치는 만들지 마세요."

	taskErrorMessage = "generation failed"
)

// SectionTimeout ограничивает генерацию одного раздела.
const SectionTimeout = 45 * time.Second

// BatchTimeout — наибольшая длительность Generate для полного набора разделов.
func BatchTimeout() time.Duration {
	return SectionTimeout * time.Duration(len(AllSections()))
}

// Repository определяет методы хранилища, нужные для контекста черновика.
type Repository interface {
	GetAnnouncement(ctx context.Context, id string) (*models.Announcement, error)
	GetCompanyByUser(ctx context.Context, userID string) (*models.Company, error)
	LatestBusinessPlan(ctx context.Context, userID string) (*models.BusinessPlan, error)
}

// Generator генерирует текст по системной инструкции и запросу.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Fetcher загружает полный текст объявления через кеш.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Recorder учитывает результаты генерации разделов.
type Recorder interface {
	DraftSection(section, status string)
}

// Service реализует генерацию и доработку черновиков.
type Service struct {
	repo      Repository
	generator Generator
	fetcher   Fetcher
	recorder  Recorder
	log       *slog.Logger

	sectionTimeout time.Duration
}

// New создаёт сервис черновиков. fetcher и recorder могут быть nil.
func New(repo Repository, generator Generator, fetcher Fetcher, recorder Recorder, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		generator: generator,
		fetcher:   fetcher,
		recorder:  recorder,
		log:       log,

		sectionTimeout: SectionTimeout,
	}
}

// Generate создаёт черновики запрошенных разделов. Ошибки контекста (объявление,
// неизвестный раздел) возвращаются сразу, ошибки генерации попадают в задачи.
func (s *Service) Generate(ctx context.Context, userID string, req models.DraftRequest) (*models.DraftResult, error) {
	const op = "drafting.Generate"
	log := s.log.With(slog.String("op", op), slog.String("announcement_id", req.AnnouncementID))

	sections, err := normalizeSections(req.Sections)
	if err != nil {
		return nil, err
	}
	dc, err := s.buildContext(ctx, userID, req.AnnouncementID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := &models.DraftResult{
		AnnouncementID: req.AnnouncementID,
		Tasks:          make([]models.DraftTask, 0, len(sections)),
	}
	for _, section := range sections {
		task := models.DraftTask{Section: section}
		sctx, cancel := context.WithTimeout(ctx, s.sectionTimeout)
		text, err := s.generator.Generate(sctx, systemPrompt, dc.sectionPrompt(section))
		cancel()
		if err != nil {
			log.Error("section generation failed", slog.String("section", section), sl.Err(err))
			task.Status = models.DraftTaskFailed
			task.Error = taskErrorMessage
			result.Partial = true
		} else {
			task.Status = models.DraftTaskSucceeded
			task.Content = text
		}
		s.record(section, task.Status)
		result.Tasks = append(result.Tasks, task)
	}

	log.Info("draft generated", slog.Int("sections", len(sections)), slog.Bool("partial", result.Partial))
	return result, nil
}

// Revise дорабатывает один раздел по замечаниям. Сбой провайдера возвращается
// как ошибка без запасного варианта.
func (s *Service) Revise(ctx context.Context, userID string, req models.ReviseRequest) (string, error) {
	const op = "drafting.Revise"

	if !IsSection(req.Section) {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, req.Section)
	}
	dc, err := s.buildContext(ctx, userID, req.AnnouncementID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	rctx, cancel := context.WithTimeout(ctx, s.sectionTimeout)
	defer cancel()
	text, err := s.generator.Generate(rctx, systemPrompt, dc.revisePrompt(req))
	if err != nil {
		s.record(req.Section, models.DraftTaskFailed)
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.record(req.Section, models.DraftTaskSucceeded)
	return text, nil
}

func (s *Service) record(section, status string) {
	if s.recorder != nil {
		s.recorder.DraftSection(section, status)
	}
}

// draftContext — данные, из которых собираются запросы к модели.
type draftContext struct {
	announcement string
	company      string
	businessPlan string
}

// buildContext собирает текст объявления, профиль компании и бизнес-план.
// Отсутствие профиля, плана или полного текста не является ошибкой.
func (s *Service) buildContext(ctx context.Context, userID, announcementID string) (*draftContext, error) {
	a, err := s.repo.GetAnnouncement(ctx, announcementID)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "공고명: %s\n주관기관: %s\n분야: %s\n지원유형: %s\n", a.Title, a.Organization, a.Category, a.SupportType)
	if a.SupportAmountText != "" {
		fmt.Fprintf(&b, "지원규모: %s\n", a.SupportAmountText)
	}
	if a.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", a.Description)
	}
	if len(a.Eligibility) > 0 && string(a.Eligibility) != "null" {
		fmt.Fprintf(&b, "\n신청자격: %s\n", compactJSON(a.Eligibility))
	}
	if len(a.EvaluationCriteria) > 0 && string(a.EvaluationCriteria) != "null" {
		fmt.Fprintf(&b, "\n평가기준: %s\n", compactJSON(a.EvaluationCriteria))
	}
	if a.ContentURL != "" && s.fetcher != nil {
		page, err := s.fetcher.Fetch(ctx, a.ContentURL)
		if err != nil {
			s.log.Warn("failed to fetch announcement content", slog.String("url", a.ContentURL), sl.Err(err))
		} else {
			fmt.Fprintf(&b, "\n공고 원문:\n%s\n", page)
		}
	}

	dc := &draftContext{announcement: textextract.Truncate(b.String(), announcementTextLimit)}

	c, err := s.repo.GetCompanyByUser(ctx, userID)
	switch {
	case err == nil:
		dc.company = fmt.Sprintf("기업명: %s\n기업형태: %s\n업종: %s\n지역: %s\n직원수: %d\n연매출: %d원\n설립연도: %d",
			c.Name, c.CorporationType, c.Industry, c.Region, c.EmployeeCount, c.AnnualRevenue, c.FoundedYear)
	case errors.Is(err, repository.ErrNotFound):
	default:
		s.log.Warn("failed to load company profile", sl.Err(err))
	}

	p, err := s.repo.LatestBusinessPlan(ctx, userID)
	switch {
	case err == nil:
		dc.businessPlan = textextract.Truncate(p.Text, businessPlanLimit)
	case errors.Is(err, repository.ErrNotFound):
	default:
		s.log.Warn("failed to load business plan", sl.Err(err))
	}
	return dc, nil
}

func (dc *draftContext) common() string {
	var b strings.Builder
	b.WriteString("[공고 정보]\n")
	b.WriteString(dc.announcement)
	if dc.company != "" {
		b.WriteString("\n\n[기업 정보]\n")
		b.WriteString(dc.company)
	}
	if dc.businessPlan != "" {
		b.WriteString("\n\n[사업계획서 발췌]\n")
		b.WriteString(dc.businessPlan)
	}
	return b.String()
}

func (dc *draftContext) sectionPrompt(section string) string {
	return fmt.Sprintf("%s\n\n위 정보를 바탕으로 신청서의 '%s' 항목을 작성하세요. %s",
		dc.common(), section, sectionGuides[section])
}

func (dc *draftContext) revisePrompt(req models.ReviseRequest) string {
	return fmt.Sprintf("%s\n\n[현재 '%s' 초안]\n%s\n\n[수정 요청]\n%s\n\n수정 요청을 반영해 '%s' 항목 전체를 다시 작성하세요.",
		dc.common(), req.Section, textextract.Truncate(req.Draft, draftLimit), req.Feedback, req.Section)
}

func compactJSON(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return string(raw)
	}
	return string(out)
}
