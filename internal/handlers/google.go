package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tripdesk-dev/tripdesk/db"
	"github.com/tripdesk-dev/tripdesk/internal/auth"
	"github.com/tripdesk-dev/tripdesk/internal/drive"
	"github.com/tripdesk-dev/tripdesk/internal/models"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type googleUserinfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Photo string `json:"picture"`
}

// GoogleRedirect starts the Google OAuth flow. The drive.file scope is
// requested up front with offline access so the callback yields a refresh
// token usable for Drive uploads.
func GoogleRedirect(ctx *gin.Context) {
	state := uuid.NewString()

	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	url := drive.OAuthConfig().AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent select_account"),
	)

	ctx.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback exchanges the code, upserts the user, persists the Drive
// tokens and signs the user in. Users invited to a family by email are linked
// to it here.
func GoogleCallback(ctx *gin.Context) {
	state, err := ctx.Cookie("oauth_state")

	if err != nil || state == "" || ctx.Query("state") != state {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid OAuth state"})
		return
	}

	code := ctx.Query("code")

	if code == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing authorization code"})
		return
	}

	conf := drive.OAuthConfig()

	token, err := conf.Exchange(ctx.Request.Context(), code)

	if err != nil {
		log.Printf("Failed to exchange OAuth code: %v", err)
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "Unable to login with Google"})
		return
	}

	info, err := fetchGoogleUserinfo(ctx, conf, token)

	if err != nil {
		log.Printf("Failed to fetch Google userinfo: %v", err)
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "Unable to login with Google"})
		return
	}

	var user models.User

	err = db.DB.Where("google_id = ? OR email = ?", info.ID, info.Email).First(&user).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Random password; Google accounts sign in through this flow
		passwordHash, hashErr := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)

		if hashErr != nil {
			log.Printf("Failed to hash password: %v", hashErr)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		user = models.User{
			Name:               info.Name,
			Email:              info.Email,
			PasswordHash:       string(passwordHash),
			Role:               models.RoleMember,
			Avatar:             info.Photo,
			GoogleID:           info.ID,
			GoogleToken:        token.AccessToken,
			GoogleRefreshToken: token.RefreshToken,
		}

		if err := db.DB.Create(&user).Error; err != nil {
			log.Printf("Failed to create user: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	} else {
		updates := map[string]interface{}{
			"google_id":    info.ID,
			"google_token": token.AccessToken,
		}

		// Google only returns a refresh token on first consent
		if token.RefreshToken != "" {
			updates["google_refresh_token"] = token.RefreshToken
		}

		if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
			log.Printf("Failed to update Google tokens: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	linkFamilyMembership(&user)

	if err := db.DB.First(&user, user.ID).Error; err != nil {
		log.Printf("Failed to refresh user data: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	jwtToken, err := auth.GenerateJWT(user.ID, user.Email)

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	setAuthCookie(ctx, jwtToken, 60*60*24*7)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		ctx.Redirect(http.StatusTemporaryRedirect, clientURL+"/dashboard")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user":  userResponse(&user),
		"token": jwtToken,
	})
}

func fetchGoogleUserinfo(ctx *gin.Context, conf *oauth2.Config, token *oauth2.Token) (*googleUserinfo, error) {
	client := conf.Client(ctx.Request.Context(), token)

	resp, err := client.Get(userinfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("userinfo request failed")
	}

	var info googleUserinfo

	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}

	return &info, nil
}
