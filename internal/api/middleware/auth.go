package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SBP-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SBP-SchedulingService/internal/domain"
)

type contextKey string

const (
	actorIDKey    contextKey = "actorID"
	actorRoleKey  contextKey = "actorRole"
	merchantIDKey contextKey = "merchantID"
)

const (
	headerActorID    = "X-Actor-ID"
	headerActorRole  = "X-Actor-Role"
	headerMerchantID = "X-Merchant-ID"
)

// Auth извлекает инициатора запроса из заголовков.
// Аутентификация выполняется на API gateway, сюда приходят уже
// проверенные значения: X-Actor-ID, X-Actor-Role и - для staff-ролей -
// X-Merchant-ID.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actorID, err := strconv.ParseInt(r.Header.Get(headerActorID), 10, 64)
		if err != nil || actorID <= 0 {
			handlers.RespondUnauthorized(w, "требуется заголовок X-Actor-ID")
			return
		}

		role, ok := domain.ParseActorRole(r.Header.Get(headerActorRole))
		if !ok {
			handlers.RespondUnauthorized(w, "требуется заголовок X-Actor-Role: client, employee или merchant")
			return
		}

		ctx := context.WithValue(r.Context(), actorIDKey, actorID)
		ctx = context.WithValue(ctx, actorRoleKey, role)

		if role != domain.RoleClient {
			merchantID, err := strconv.ParseInt(r.Header.Get(headerMerchantID), 10, 64)
			if err != nil || merchantID <= 0 {
				handlers.RespondUnauthorized(w, "для staff-ролей требуется заголовок X-Merchant-ID")
				return
			}
			ctx = context.WithValue(ctx, merchantIDKey, merchantID)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetActorID возвращает ID инициатора из контекста запроса
func GetActorID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(actorIDKey).(int64)
	return id, ok
}

// GetActorRole возвращает роль инициатора из контекста запроса
func GetActorRole(ctx context.Context) (domain.ActorRole, bool) {
	role, ok := ctx.Value(actorRoleKey).(domain.ActorRole)
	return role, ok
}

// GetMerchantID возвращает ID мерчанта инициатора из контекста запроса.
// Для клиентов мерчант не задан.
func GetMerchantID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(merchantIDKey).(int64)
	return id, ok
}
