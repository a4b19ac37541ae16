// Package corptype определяет организационно-правовую форму компании по её названию.
//
// Классификатор не обращается к внешним сервисам и определён для любого входа:
// если форму установить нельзя, возвращается Unknown.
package corptype

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Type — организационно-правовая форма.
type Type string

// Возможные формы.
const (
	StockCompany            Type = "stock_company"             // 주식회사
	LimitedCompany          Type = "limited_company"           // 유한회사
	LimitedLiability        Type = "limited_liability_company" // 유한책임회사
	LimitedPartnership      Type = "limited_partnership"       // 합자회사
	GeneralPartnership      Type = "general_partnership"       // 합명회사
	IncorporatedAssociation Type = "incorporated_association"  // 사단법인
	Foundation              Type = "foundation"                // 재단법인
	SocialCooperative       Type = "social_cooperative"        // 사회적협동조합
	Cooperative             Type = "cooperative"               // 협동조합
	Individual              Type = "individual"                // 개인사업자
	Corporation             Type = "corporation"               // юрлицо без распознанной формы
	Unknown                 Type = "unknown"
)

// TaxType — тип налогоплательщика из регистрационных данных.
type TaxType string

// Типы налогоплательщика.
const (
	TaxNone       TaxType = ""
	TaxIndividual TaxType = "individual"
	TaxCorporate  TaxType = "corporate"
)

type suffix struct {
	token string
	typ   Type
}

// suffixes отсортированы по убыванию длины токена, чтобы 사회적협동조합
// не распознавался как 협동조합, а 유한책임회사 как 유한회사.
var suffixes = func() []suffix {
	s := []suffix{
		{"주식회사", StockCompany},
		{"(주)", StockCompany},
		{"㈜", StockCompany},
		{"유한책임회사", LimitedLiability},
		{"유한회사", LimitedCompany},
		{"(유)", LimitedCompany},
		{"합자회사", LimitedPartnership},
		{"합명회사", GeneralPartnership},
		{"사단법인", IncorporatedAssociation},
		{"(사)", IncorporatedAssociation},
		{"재단법인", Foundation},
		{"(재)", Foundation},
		{"사회적협동조합", SocialCooperative},
		{"협동조합", Cooperative},
	}
	sort.SliceStable(s, func(i, j int) bool {
		return len([]rune(s[i].token)) > len([]rune(s[j].token))
	})
	return s
}()

var personalName = regexp.MustCompile(`^[가-힣]{2,4}$`)

// Infer возвращает форму компании по названию и типу налогоплательщика.
// Порядок проверок: токены формы в любом месте названия, затем tax = individual,
// затем название из 2–4 слогов хангыль (имя владельца ИП), затем tax = corporate.
func Infer(name string, tax TaxType) Type {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)

	for _, s := range suffixes {
		if strings.Contains(compact, s.token) {
			return s.typ
		}
	}

	if tax == TaxIndividual {
		return Individual
	}
	if personalName.MatchString(compact) {
		return Individual
	}
	if tax == TaxCorporate {
		return Corporation
	}
	return Unknown
}
