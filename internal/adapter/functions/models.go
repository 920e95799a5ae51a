package functions

import (
	"fmt"

	"github.com/GoArmGo/EntertainLit/internal/domain"
)

// mediaSearchRequest — тело запроса к media-search.
type mediaSearchRequest struct {
	Query string `json:"query"`
	Type  string `json:"type,omitempty"`
}

// mediaSearchResponse — ответ media-search.
type mediaSearchResponse struct {
	Results []domain.MediaResult `json:"results"`
}

type conversationalRequest struct {
	Query string `json:"query"`
}

// StatusError — функция ответила неуспешным статусом.
type StatusError struct {
	Function   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("function %s returned status %d: %s", e.Function, e.StatusCode, e.Body)
}
