package models

// DraftRequest — запрос на генерацию разделов заявки. Пустой Sections означает все разделы.
type DraftRequest struct {
	AnnouncementID string   `json:"announcement_id" validate:"required,uuid"`
	Sections       []string `json:"sections" validate:"max=5"`
}

// ReviseRequest — запрос на доработку одного раздела по замечаниям пользователя.
type ReviseRequest struct {
	AnnouncementID string `json:"announcement_id" validate:"required,uuid"`
	Section        string `json:"section" validate:"required"`
	Draft          string `json:"draft" validate:"required,max=20000"`
	Feedback       string `json:"feedback" validate:"required,max=2000"`
}

const (
	// DraftTaskSucceeded — раздел сгенерирован.
	DraftTaskSucceeded = "succeeded"
	// DraftTaskFailed — генерация раздела не удалась, его можно запросить повторно.
	DraftTaskFailed = "failed"
)

// DraftTask — результат генерации одного раздела.
type DraftTask struct {
	Section string `json:"section"`
	Status  string `json:"status"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// DraftResult — результат пакетной генерации. Partial выставляется, если хотя бы
// один раздел не удался.
type DraftResult struct {
	AnnouncementID string      `json:"announcement_id"`
	Tasks          []DraftTask `json:"tasks"`
	Partial        bool        `json:"partial"`
}
