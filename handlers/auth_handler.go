package handlers

import (
	"html/template"
	"net/http"

	"layer-backend/models"
	"layer-backend/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateMaxAge = 600
	callbackPath     = "/auth/callback"
)

// callbackTemplate is the popup page that hands the result to the opener window.
var callbackTemplate = template.Must(template.New("oauth_callback").Parse(`<!DOCTYPE html>
<html>
  <head><title>Signing in</title></head>
  <body>
    <script>
      const payload = {{.}};
      if (window.opener) {
        window.opener.postMessage(payload, '*');
        window.close();
      } else {
        window.location.href = '/';
      }
    </script>
    <p>Authentication complete. This window should close automatically.</p>
  </body>
</html>`))

// AuthHandler handles sign-up, sign-in and account settings
type AuthHandler struct {
	auth  *service.AuthService
	oauth *service.OAuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *service.AuthService, oauth *service.OAuthService) *AuthHandler {
	return &AuthHandler{auth: auth, oauth: oauth}
}

// SignupRequest is the body of POST /api/auth/signup
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username"`
	Password string `json:"password" binding:"required"`
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := h.auth.Signup(c.Request.Context(), service.SignupRequest{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, res)
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, res)
}

// Me handles GET /api/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.Me(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, user)
}

// UpdatePlanRequest is the body of PUT /api/me/plan
type UpdatePlanRequest struct {
	Plan string `json:"plan" binding:"required"`
}

// UpdatePlan handles PUT /api/me/plan
func (h *AuthHandler) UpdatePlan(c *gin.Context) {
	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.auth.UpdatePlan(c.Request.Context(), sessionFrom(c), models.Plan(req.Plan))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, user)
}

// UpdateStylesRequest is the body of PUT /api/me/styles
type UpdateStylesRequest struct {
	Styles []string `json:"styles"`
}

// UpdateStyles handles PUT /api/me/styles
func (h *AuthHandler) UpdateStyles(c *gin.Context) {
	var req UpdateStylesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.auth.UpdateStyles(c.Request.Context(), sessionFrom(c), req.Styles)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, user)
}

// GoogleURL handles GET /api/auth/google/url. It issues a fresh state cookie
// and returns the consent URL for the popup.
func (h *AuthHandler) GoogleURL(c *gin.Context) {
	state := h.oauth.NewState()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/", "", c.Request.TLS != nil, true)

	respondOK(c, http.StatusOK, gin.H{"url": h.oauth.AuthURL(callbackURL(c), state)})
}

// OAuthCallback handles GET /auth/callback and renders the popup page.
func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	state, _ := c.Cookie(oauthStateCookie)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, "", -1, "/", "", c.Request.TLS != nil, true)

	if reason := c.Query("error"); reason != "" {
		h.renderFailure(c, reason)
		return
	}
	if state == "" || c.Query("state") != state {
		h.renderFailure(c, "Invalid OAuth state")
		return
	}

	res, err := h.oauth.Complete(c.Request.Context(), callbackURL(c), c.Query("code"))
	if err != nil {
		loggerFrom(c).Warn("oauth sign-in failed", zap.Error(err))
		h.renderFailure(c, "Authentication failed")
		return
	}

	c.HTML(http.StatusOK, "oauth_callback", gin.H{
		"type":  "OAUTH_AUTH_SUCCESS",
		"user":  res.User,
		"token": res.Token,
	})
}

func (h *AuthHandler) renderFailure(c *gin.Context, reason string) {
	c.HTML(http.StatusOK, "oauth_callback", gin.H{
		"type":  "OAUTH_AUTH_FAILURE",
		"error": reason,
	})
}

// callbackURL derives the redirect URI from the host the browser used.
func callbackURL(c *gin.Context) string {
	proto := "http"
	if c.Request.TLS != nil {
		proto = "https"
	}
	if fwd := c.GetHeader("X-Forwarded-Proto"); fwd != "" {
		proto = fwd
	}
	return proto + "://" + c.Request.Host + callbackPath
}
