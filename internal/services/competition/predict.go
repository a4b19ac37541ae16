// Package competition оценивает ожидаемый уровень конкуренции по объявлению.
//
// Оценка эвристическая: сумма весов факторов, повышающих конкуренцию, минус сумма
// весов факторов, снижающих её, от базового значения 50. Одинаковые входные данные
// всегда дают одинаковый результат.
package competition

import (
	"math"
	"sort"
	"time"

	"github.com/tidwall/gjson"

	"github.com/magabrotheeeer/grant-matching/internal/lib/deadline"
	"github.com/magabrotheeeer/grant-matching/internal/models"
)

// Level — дискретный уровень конкуренции.
type Level string

const (
	LevelVeryLow  Level = "very_low"
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelVeryHigh Level = "very_high"
)

// Impact — направление влияния фактора на конкуренцию.
type Impact string

const (
	// ImpactPositive повышает конкуренцию.
	ImpactPositive Impact = "positive"
	// ImpactNegative снижает конкуренцию.
	ImpactNegative Impact = "negative"
	// ImpactNeutral не влияет на оценку.
	ImpactNeutral Impact = "neutral"
)

const (
	baseScore     = 50
	minConfidence = 0.4
	maxConfidence = 0.95
)

// Factor — именованный фактор оценки.
type Factor struct {
	Name        string `json:"name"`
	Impact      Impact `json:"impact"`
	Weight      int    `json:"weight"`
	Description string `json:"description"`
}

// Input — данные, собранные для оценки.
type Input struct {
	Announcement *models.Announcement
	Stats        models.SimilarStats
	Now          time.Time
}

// Prediction — результат оценки.
type Prediction struct {
	AnnouncementID string   `json:"announcement_id"`
	Level          Level    `json:"level"`
	Score          int      `json:"score"`
	Confidence     float64  `json:"confidence"`
	Factors        []Factor `json:"factors"`
	Tips           []string `json:"tips"`
}

// Predict рассчитывает прогноз. Функция чистая: без ввода-вывода и без обращения к часам.
func Predict(in Input) Prediction {
	a := in.Announcement
	if a == nil {
		a = &models.Announcement{}
	}

	factors := collectFactors(a, in.Stats)
	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].Weight > factors[j].Weight
	})

	score := Score(factors)
	level := LevelFor(score)
	return Prediction{
		AnnouncementID: a.ID,
		Level:          level,
		Score:          score,
		Confidence:     confidence(a, in.Stats),
		Factors:        factors,
		Tips:           tips(level, factors, a, in.Now),
	}
}

// Score складывает веса факторов от базового значения и ограничивает результат [0, 100].
func Score(factors []Factor) int {
	score := baseScore
	for _, f := range factors {
		switch f.Impact {
		case ImpactPositive:
			score += f.Weight
		case ImpactNegative:
			score -= f.Weight
		}
	}
	return clamp(score, 0, 100)
}

// LevelFor переводит числовую оценку в уровень.
func LevelFor(score int) Level {
	switch {
	case score < 20:
		return LevelVeryLow
	case score < 40:
		return LevelLow
	case score < 60:
		return LevelMedium
	case score < 80:
		return LevelHigh
	default:
		return LevelVeryHigh
	}
}

func collectFactors(a *models.Announcement, stats models.SimilarStats) []Factor {
	var factors []Factor
	add := func(f Factor, ok bool) {
		if ok {
			factors = append(factors, f)
		}
	}

	add(supportAmountFactor(a.SupportAmount))
	add(windowFactor(a.ApplicationStart, a.ApplicationEnd))
	add(historyFactor(stats))
	add(ownApplicationsFactor(a.ApplicationCount))
	add(organizationFactor(stats.SameOrganizationCount))
	add(categoryFactor(a.Category, stats.SameCategoryActive))
	add(eligibilityFactor(a.Eligibility))
	add(regionFactor(a.Region))
	return factors
}

func supportAmountFactor(amount *int64) (Factor, bool) {
	if amount == nil {
		return Factor{Name: "support_amount", Impact: ImpactNeutral, Description: "지원 금액 정보가 없습니다."}, true
	}
	switch {
	case *amount >= 500_000_000:
		return Factor{Name: "support_amount", Impact: ImpactPositive, Weight: 15,
			Description: "지원 금액이 5억 원 이상으로 매우 큽니다."}, true
	case *amount >= 100_000_000:
		return Factor{Name: "support_amount", Impact: ImpactPositive, Weight: 8,
			Description: "지원 금액이 1억 원 이상입니다."}, true
	case *amount < 30_000_000:
		return Factor{Name: "support_amount", Impact: ImpactNegative, Weight: 5,
			Description: "지원 금액이 3천만 원 미만으로 작습니다."}, true
	default:
		return Factor{Name: "support_amount", Impact: ImpactNeutral, Description: "지원 금액이 평균 수준입니다."}, true
	}
}

func windowFactor(start, end *time.Time) (Factor, bool) {
	days, ok := deadline.WindowDays(start, end)
	if !ok {
		return Factor{}, false
	}
	switch {
	case days <= 14:
		return Factor{Name: "application_window", Impact: ImpactNegative, Weight: 8,
			Description: "신청 기간이 2주 이하로 짧아 준비된 기업만 지원할 수 있습니다."}, true
	case days >= 45:
		return Factor{Name: "application_window", Impact: ImpactPositive, Weight: 6,
			Description: "신청 기간이 길어 많은 기업이 지원할 수 있습니다."}, true
	default:
		return Factor{Name: "application_window", Impact: ImpactNeutral,
			Description: "신청 기간이 일반적인 수준입니다."}, true
	}
}

func historyFactor(stats models.SimilarStats) (Factor, bool) {
	if stats.TrackedSamples == 0 {
		return Factor{}, false
	}
	avg := stats.AverageApplicationCount
	switch {
	case avg >= 300:
		return Factor{Name: "similar_applications", Impact: ImpactPositive, Weight: 20,
			Description: "유사 공고의 평균 신청 수가 300건 이상입니다."}, true
	case avg >= 100:
		return Factor{Name: "similar_applications", Impact: ImpactPositive, Weight: 12,
			Description: "유사 공고의 평균 신청 수가 100건 이상입니다."}, true
	case avg < 30:
		return Factor{Name: "similar_applications", Impact: ImpactNegative, Weight: 8,
			Description: "유사 공고의 평균 신청 수가 30건 미만입니다."}, true
	default:
		return Factor{Name: "similar_applications", Impact: ImpactNeutral,
			Description: "유사 공고의 신청 수가 평균 수준입니다."}, true
	}
}

func ownApplicationsFactor(count *int) (Factor, bool) {
	if count == nil {
		return Factor{}, false
	}
	switch {
	case *count >= 500:
		return Factor{Name: "current_applications", Impact: ImpactPositive, Weight: 15,
			Description: "이미 500건 이상의 신청이 접수되었습니다."}, true
	case *count >= 100:
		return Factor{Name: "current_applications", Impact: ImpactPositive, Weight: 8,
			Description: "이미 100건 이상의 신청이 접수되었습니다."}, true
	default:
		return Factor{Name: "current_applications", Impact: ImpactNeutral,
			Description: "현재까지 접수된 신청이 많지 않습니다."}, true
	}
}

func organizationFactor(sameOrg int) (Factor, bool) {
	switch {
	case sameOrg >= 10:
		return Factor{Name: "organization_programs", Impact: ImpactNegative, Weight: 6,
			Description: "같은 기관의 사업이 많아 지원자가 분산됩니다."}, true
	case sameOrg == 0:
		return Factor{Name: "organization_programs", Impact: ImpactPositive, Weight: 5,
			Description: "기관의 유일한 사업으로 지원자가 집중될 수 있습니다."}, true
	default:
		return Factor{}, false
	}
}

func categoryFactor(category string, active int) (Factor, bool) {
	if category == "" {
		return Factor{}, false
	}
	switch {
	case active >= 20:
		return Factor{Name: "category_alternatives", Impact: ImpactNegative, Weight: 10,
			Description: "같은 분야에 진행 중인 공고가 20건 이상입니다."}, true
	case active >= 5:
		return Factor{Name: "category_alternatives", Impact: ImpactNegative, Weight: 4,
			Description: "같은 분야에 진행 중인 다른 공고가 있습니다."}, true
	case active == 0:
		return Factor{Name: "category_alternatives", Impact: ImpactPositive, Weight: 8,
			Description: "같은 분야에 진행 중인 다른 공고가 없습니다."}, true
	default:
		return Factor{Name: "category_alternatives", Impact: ImpactNeutral,
			Description: "같은 분야의 공고 수가 적은 편입니다."}, true
	}
}

// eligibilityFactor считает заполненные требования к заявителю.
func eligibilityFactor(raw []byte) (Factor, bool) {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return Factor{}, false
	}
	restrictions := 0
	gjson.ParseBytes(raw).ForEach(func(_, value gjson.Result) bool {
		if value.Exists() && value.Type != gjson.Null && value.String() != "" && value.String() != "[]" {
			restrictions++
		}
		return true
	})

	switch {
	case restrictions >= 4:
		return Factor{Name: "eligibility", Impact: ImpactNegative, Weight: 10,
			Description: "지원 자격 요건이 많아 대상 기업이 제한됩니다."}, true
	case restrictions >= 2:
		return Factor{Name: "eligibility", Impact: ImpactNegative, Weight: 5,
			Description: "지원 자격 요건이 일부 있습니다."}, true
	case restrictions == 0:
		return Factor{Name: "eligibility", Impact: ImpactPositive, Weight: 5,
			Description: "지원 자격 제한이 거의 없습니다."}, true
	default:
		return Factor{}, false
	}
}

func regionFactor(region string) (Factor, bool) {
	if region == "" || region == "전국" {
		return Factor{Name: "region", Impact: ImpactPositive, Weight: 6,
			Description: "전국 단위 공고로 지원 가능 기업이 많습니다."}, true
	}
	return Factor{Name: "region", Impact: ImpactNegative, Weight: 4,
		Description: "지역 한정 공고입니다."}, true
}

// confidence растёт с количеством доступных данных.
func confidence(a *models.Announcement, stats models.SimilarStats) float64 {
	c := minConfidence
	switch {
	case stats.TrackedSamples >= 3:
		c += 0.2
	case stats.TrackedSamples > 0:
		c += 0.1
	}
	if a.ApplicationCount != nil {
		c += 0.1
	}
	if a.SupportAmount != nil {
		c += 0.1
	}
	if _, ok := deadline.WindowDays(a.ApplicationStart, a.ApplicationEnd); ok {
		c += 0.05
	}
	if stats.SameOrganizationCount+stats.SameCategoryActive >= 5 {
		c += 0.1
	}
	c = math.Min(c, maxConfidence)
	return math.Round(c*100) / 100
}

func tips(level Level, factors []Factor, a *models.Announcement, now time.Time) []string {
	var result []string
	switch level {
	case LevelVeryHigh, LevelHigh:
		result = append(result, "경쟁이 치열할 것으로 예상됩니다. 차별화된 사업 성과와 수치를 강조하세요.")
	case LevelMedium:
		result = append(result, "평가 기준에 맞춰 사업계획서의 핵심 내용을 정리하세요.")
	default:
		result = append(result, "경쟁이 낮을 것으로 예상됩니다. 자격 요건 충족 여부를 먼저 확인하세요.")
	}

	for _, f := range factors {
		switch {
		case f.Name == "application_window" && f.Impact == ImpactNegative:
			result = append(result, "신청 기간이 짧으니 필요 서류를 미리 준비하세요.")
		case f.Name == "eligibility" && f.Impact == ImpactNegative:
			result = append(result, "자격 요건을 항목별로 점검하고 증빙 서류를 확보하세요.")
		case f.Name == "category_alternatives" && f.Impact == ImpactNegative:
			result = append(result, "같은 분야의 다른 공고도 함께 검토해 보세요.")
		case f.Name == "similar_applications" && f.Impact == ImpactPositive:
			result = append(result, "유사 공고의 선정 사례를 참고해 강점을 구체적으로 작성하세요.")
		}
	}

	if a.ApplicationEnd != nil && !now.IsZero() {
		if days := deadline.DaysUntil(now, *a.ApplicationEnd, now.Location()); days >= 0 && days <= 7 {
			result = append(result, "마감이 7일 이내입니다. 제출 일정을 먼저 확인하세요.")
		}
	}
	return result
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
