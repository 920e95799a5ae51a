package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/GoArmGo/EntertainLit/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	callerIDKey
)

const (
	// HeaderRequestID пробрасывается от прокси или генерируется.
	HeaderRequestID = "X-Request-ID"
	// HeaderUserID выставляет шлюз аутентификации.
	HeaderUserID = "X-User-ID"
	// HeaderDegraded помечает ответы, собранные из запасного источника.
	HeaderDegraded = "X-Degraded"
)

// RequestID — middleware, присваивающий запросу идентификатор.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// GetRequestID возвращает идентификатор запроса из контекста.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Identity — middleware, извлекающий идентичность вызывающего из заголовка X-User-ID.
// devUserID подставляется, если заголовка нет; пустой devUserID отключает подстановку.
//
// Заголовок не проверяется: сервис разворачивается только за шлюзом аутентификации,
// который перезаписывает X-User-ID. Без такого шлюза любой клиент может выдать себя за другого.
func Identity(devUserID string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := strings.TrimSpace(r.Header.Get(HeaderUserID))
			if caller == "" {
				caller = devUserID
			}
			if caller != "" {
				r = r.WithContext(WithCallerID(r.Context(), caller))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithCallerID кладёт идентичность вызывающего в контекст.
func WithCallerID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, callerIDKey, id)
}

// CallerID возвращает идентичность вызывающего или пустую строку.
func CallerID(ctx context.Context) string {
	id, _ := ctx.Value(callerIDKey).(string)
	return id
}

// bearerToken достаёт токен из Authorization для проброса во внешние функции.
func bearerToken(r *http.Request) string {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequestLogger — middleware для логирования HTTP-запросов и сбора метрик.
func RequestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Оборачиваем ResponseWriter, чтобы знать статус
			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			metrics.RecordAPIRequest(r.Method, route, strconv.Itoa(ww.statusCode), duration)

			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"route", route,
				"status", ww.statusCode,
				"duration_ms", duration.Milliseconds(),
				"request_id", GetRequestID(r.Context()),
			)
		})
	}
}

// responseWriter нужен, чтобы перехватывать код ответа
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
