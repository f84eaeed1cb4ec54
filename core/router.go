package core

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// NewRouter constructs the Gin engine with routes wired.
func NewRouter(cfg Config, auth *AuthService, users UserRepository, tokens *TokenService, responder Responder, history *ChatHistory) *gin.Engine {
	r := gin.Default()

	r.Use(OriginRefererMiddleware(cfg))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"project": cfg.ProjectName,
			"message": "System is ready",
		})
	})

	api := r.Group("/api/v1")
	{
		api.POST("/auth/register", func(c *gin.Context) {
			var req struct {
				Username string `json:"username" binding:"required,min=3,max=50"`
				Email    string `json:"email" binding:"required,email"`
				Password string `json:"password" binding:"required,min=6"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "username (3-50 chars), valid email and password (min 6 chars) are required")
				return
			}

			user, err := auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
			if err != nil {
				registerError(c, err)
				return
			}
			c.JSON(http.StatusOK, user)
		})

		// Credentials arrive form-encoded, OAuth2 password-flow style.
		api.POST("/auth/login", func(c *gin.Context) {
			username := strings.TrimSpace(c.PostForm("username"))
			password := c.PostForm("password")
			if username == "" || password == "" {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "username and password are required")
				return
			}

			token, err := auth.Login(c.Request.Context(), username, password)
			if err != nil {
				loginError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"access_token": token,
				"token_type":   "bearer",
			})
		})

		api.GET("/users/me", AuthRequired(tokens), func(c *gin.Context) {
			ctx := c.Request.Context()
			u, err := users.FindByUsername(ctx, currentUsername(c))
			if err != nil {
				// Token outlived the account (or the store is down); either
				// way the caller is not authenticated.
				c.Header("WWW-Authenticate", "Bearer")
				respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "not authenticated")
				return
			}
			c.JSON(http.StatusOK, publicView(u))
		})

		api.POST("/chat/message", func(c *gin.Context) {
			var req struct {
				Message string `json:"message" binding:"required"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "message is required")
				return
			}

			ctx := c.Request.Context()
			reply, err := responder.Respond(ctx, req.Message)
			if err != nil {
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to generate response")
				return
			}

			// History is best-effort and only recorded for authenticated
			// callers; anonymous chat stays a pure passthrough.
			if subject, ok := bearerSubject(c, tokens); ok && history != nil {
				ex := ChatExchange{Message: req.Message, Response: reply, CreatedAt: time.Now().UTC()}
				if err := history.Append(ctx, subject, ex); err != nil {
					log.Printf("failed to record chat history for %s: %v", subject, err)
				}
			}

			c.JSON(http.StatusOK, gin.H{"response": reply})
		})

		api.GET("/chat/history", AuthRequired(tokens), func(c *gin.Context) {
			if history == nil {
				c.JSON(http.StatusOK, gin.H{"items": []ChatExchange{}})
				return
			}
			items, err := history.Recent(c.Request.Context(), currentUsername(c))
			if err != nil {
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to load chat history")
				return
			}
			c.JSON(http.StatusOK, gin.H{"items": items})
		})
	}

	return r
}

// registerError maps registration failures onto client responses. Business
// failures carry specific codes; infrastructure failures stay generic.
func registerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrDuplicateUsername):
		respondError(c, http.StatusBadRequest, "DUPLICATE_USERNAME", "username already registered")
	case errors.Is(err, ErrDuplicateEmail):
		respondError(c, http.StatusBadRequest, "DUPLICATE_EMAIL", "email already registered")
	case errors.Is(err, ErrDuplicateUser):
		respondError(c, http.StatusBadRequest, "DUPLICATE_USER", "username or email already registered")
	case errors.Is(err, ErrStorageUnavailable):
		respondError(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "storage unavailable, try again later")
	default:
		respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "registration failed")
	}
}

func loginError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		c.Header("WWW-Authenticate", "Bearer")
		respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "incorrect username or password")
	case errors.Is(err, ErrStorageUnavailable):
		respondError(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "storage unavailable, try again later")
	default:
		respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "login failed")
	}
}
