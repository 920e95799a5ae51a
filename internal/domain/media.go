package domain

import "time"

// MediaResult — результат поиска во внешней функции media-search.
type MediaResult struct {
	Title          string `json:"title"`
	Type           string `json:"type"`
	Creator        string `json:"creator,omitempty"`
	Image          string `json:"image,omitempty"`
	Description    string `json:"description,omitempty"`
	ExternalID     string `json:"external_id,omitempty"`
	ExternalSource string `json:"external_source,omitempty"`
}

// TrackedMedia — медиа, которое пользователь добавляет в свой список.
type TrackedMedia struct {
	Title          string `json:"title"`
	MediaType      string `json:"mediaType"`
	Creator        string `json:"creator,omitempty"`
	ImageURL       string `json:"imageUrl,omitempty"`
	ExternalID     string `json:"externalId,omitempty"`
	ExternalSource string `json:"externalSource,omitempty"`
	Description    string `json:"description,omitempty"`
}

// TrackMediaRequest — запрос к функции track-media.
type TrackMediaRequest struct {
	Media  TrackedMedia `json:"media"`
	Rating *int         `json:"rating"`
	Review *string      `json:"review"`
	ListID *string      `json:"listId"`
}

// Notification — уведомление пользователя.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// SocialPostUser — автор поста в социальной ленте.
type SocialPostUser struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar"`
}

// SocialMediaItem — медиа, прикреплённое к посту.
type SocialMediaItem struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Creator        string `json:"creator"`
	MediaType      string `json:"mediaType"`
	ImageURL       string `json:"imageUrl"`
	Rating         *int   `json:"rating,omitempty"`
	ExternalID     string `json:"externalId"`
	ExternalSource string `json:"externalSource"`
}

// SocialPost — пост социальной ленты.
type SocialPost struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	User       SocialPostUser    `json:"user"`
	Content    string            `json:"content"`
	Timestamp  string            `json:"timestamp"`
	Likes      int               `json:"likes"`
	Comments   int               `json:"comments"`
	Shares     int               `json:"shares"`
	MediaItems []SocialMediaItem `json:"mediaItems"`
}

type SearchSuggestion struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Description string `json:"description"`
	SearchTerm  string `json:"searchTerm"`
}

// DirectResult — прямой результат conversational-search.
type DirectResult struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Year        int      `json:"year,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	PosterURL   string   `json:"poster_url,omitempty"`
	DetailURL   string   `json:"detailUrl,omitempty"`
}

// ConversationalResult — ответ функции conversational-search.
// Type равен "direct", "conversational" или "error".
type ConversationalResult struct {
	Type              string             `json:"type"`
	Explanation       string             `json:"explanation,omitempty"`
	Recommendations   []SearchSuggestion `json:"recommendations,omitempty"`
	SearchSuggestions []string           `json:"searchSuggestions,omitempty"`
	Results           []DirectResult     `json:"results,omitempty"`
	Message           string             `json:"message,omitempty"`
}
