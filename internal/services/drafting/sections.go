package drafting

import (
	"errors"
	"fmt"
)

// ErrUnknownSection — раздел не входит в перечень.
var ErrUnknownSection = errors.New("unknown section")

// Разделы заявки в порядке документа.
const (
	SectionOverview   = "사업개요"
	SectionTechnology = "기술현황"
	SectionMarket     = "시장분석"
	SectionStrategy   = "사업화전략"
	SectionImpact     = "기대효과"
)

// AllSections возвращает все разделы в порядке документа.
func AllSections() []string {
	return []string{SectionOverview, SectionTechnology, SectionMarket, SectionStrategy, SectionImpact}
}

var sectionGuides = map[string]string{
	SectionOverview:   "사업의 목적, 필요성, 핵심 내용을 요약하세요.",
	SectionTechnology: "보유 기술, 개발 단계, 기술적 차별성을 설명하세요.",
	SectionMarket:     "목표 시장 규모, 고객, 경쟁 현황을 근거와 함께 분석하세요.",
	SectionStrategy:   "제품화, 판로 개척, 수익 모델과 추진 일정을 제시하세요.",
	SectionImpact:     "매출, 고용, 사회적 파급 효과를 정량적으로 제시하세요.",
}

// IsSection сообщает, входит ли раздел в перечень.
func IsSection(s string) bool {
	_, ok := sectionGuides[s]
	return ok
}

// normalizeSections проверяет разделы и убирает повторы с сохранением порядка.
func normalizeSections(sections []string) ([]string, error) {
	if len(sections) == 0 {
		return AllSections(), nil
	}
	seen := make(map[string]bool, len(sections))
	result := make([]string, 0, len(sections))
	for _, s := range sections {
		if !IsSection(s) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSection, s)
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		result = append(result, s)
	}
	return result, nil
}
