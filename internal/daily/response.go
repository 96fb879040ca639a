package daily

import (
	"daily-digest/internal/clock"
	"daily-digest/internal/content"
	"daily-digest/internal/people"
)

// Version is reported in every payload.
const Version = "1.0.0"

// Error codes the polling client can branch on.
const (
	CodeProviderUnavailable = "provider_unavailable"
	CodeGenerationMalformed = "generation_malformed"
	CodeInternalError       = "internal_error"
)

// SuccessResponse is the strict success envelope. The client always
// receives HTTP 200 and branches on the success field.
type SuccessResponse struct {
	Success            bool             `json:"success"`
	Version            string           `json:"version"`
	DateIST            string           `json:"date_ist"`
	Weekday            clock.Weekday    `json:"weekday"`
	CacheHit           bool             `json:"cache_hit"`
	BirthdaysToday     []string         `json:"birthdays_today"`
	AnniversariesToday []people.Match   `json:"anniversaries_today"`
	ContentType        content.Type     `json:"content_type"`
	Title              string           `json:"title"`
	Message            string           `json:"message"`
	Items              []map[string]any `json:"items"`
	Metadata           map[string]any   `json:"metadata"`
}

// ErrorResponse is the strict error envelope.
type ErrorResponse struct {
	Success      bool          `json:"success"`
	Version      string        `json:"version"`
	DateIST      string        `json:"date_ist"`
	Weekday      clock.Weekday `json:"weekday"`
	ErrorCode    string        `json:"error_code"`
	ErrorMessage string        `json:"error_message"`
}

// NewSuccess assembles the success envelope around a generated payload.
// Arrays are never null so the schema stays strict.
func NewSuccess(date clock.CivilDate, weekday clock.Weekday, p content.Payload, cacheHit bool, birthdays []string, anniversaries []people.Match) SuccessResponse {
	if birthdays == nil {
		birthdays = []string{}
	}
	if anniversaries == nil {
		anniversaries = []people.Match{}
	}
	items := p.Items
	if items == nil {
		items = []map[string]any{}
	}
	metadata := p.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return SuccessResponse{
		Success:            true,
		Version:            Version,
		DateIST:            date.String(),
		Weekday:            weekday,
		CacheHit:           cacheHit,
		BirthdaysToday:     birthdays,
		AnniversariesToday: anniversaries,
		ContentType:        p.ContentType,
		Title:              p.Title,
		Message:            p.Message,
		Items:              items,
		Metadata:           metadata,
	}
}

// NewError assembles the error envelope. Messages are capped so upstream
// stack traces never balloon the payload.
func NewError(date clock.CivilDate, weekday clock.Weekday, code, message string) ErrorResponse {
	if len(message) > 300 {
		message = message[:300]
	}
	return ErrorResponse{
		Success:      false,
		Version:      Version,
		DateIST:      date.String(),
		Weekday:      weekday,
		ErrorCode:    code,
		ErrorMessage: message,
	}
}
