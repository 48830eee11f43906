package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"cyclesafe-be/middlewares"
	"cyclesafe-be/models"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=authController.go -destination=mocks/authController_mock.go -package=mocks
type AuthService interface {
	Signup(ctx context.Context, in models.SignupInput) (*models.User, error)
	Login(ctx context.Context, in models.LoginInput) (*models.Session, error)
	Me(ctx context.Context, userID string) (*models.User, error)
}

// CookieConfig controls the auth_token cookie set at login.
type CookieConfig struct {
	Domain string
	Secure bool
	MaxAge time.Duration
}

type AuthController struct {
	auth   AuthService
	cookie CookieConfig
	logger *slog.Logger
}

func NewAuthController(auth AuthService, cookie CookieConfig, logger *slog.Logger) *AuthController {
	return &AuthController{auth: auth, cookie: cookie, logger: logger}
}

// RegisterUser handles user registration
func (ctl *AuthController) RegisterUser(c *gin.Context) {
	var input models.SignupInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := ctl.auth.Signup(c.Request.Context(), input)
	if err != nil {
		handleError(c, ctl.logger, err, "User")
		return
	}

	ctl.logger.Info("user registered",
		slog.String("request_id", middlewares.RequestID(c)),
		slog.String("user_id", user.ID.Hex()))
	c.JSON(http.StatusCreated, user)
}

// LoginUser answers with the token in the body and also sets it as an
// HttpOnly cookie for browser clients.
func (ctl *AuthController) LoginUser(c *gin.Context) {
	var input models.LoginInput
	if !bindJSON(c, &input) {
		return
	}

	session, err := ctl.auth.Login(c.Request.Context(), input)
	if err != nil {
		handleError(c, ctl.logger, err, "User")
		return
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middlewares.AuthCookie,
		Value:    session.Token,
		MaxAge:   int(ctl.cookie.MaxAge.Seconds()),
		Path:     "/",
		Domain:   ctl.cookie.Domain,
		Secure:   ctl.cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	c.JSON(http.StatusOK, session)
}

// GetMe retrieves the authenticated user's information
func (ctl *AuthController) GetMe(c *gin.Context) {
	user, err := ctl.auth.Me(c.Request.Context(), middlewares.UserID(c))
	if err != nil {
		handleError(c, ctl.logger, err, "User")
		return
	}
	c.JSON(http.StatusOK, user)
}

// LogoutUser clears the auth_token cookie. Bearer tokens stay valid until
// they expire.
func (ctl *AuthController) LogoutUser(c *gin.Context) {
	c.SetCookie(middlewares.AuthCookie, "", -1, "/", ctl.cookie.Domain, ctl.cookie.Secure, true)
	c.JSON(http.StatusOK, messageResponse{Message: "Logged out successfully"})
}
