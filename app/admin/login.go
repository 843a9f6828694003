// Package admin contains the JWT-gated maintenance endpoints
package admin

import (
	"crypto/subtle"
	"net/http"
	"time"

	"droplink/share-api/internal"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const sessionTTL = 12 * time.Hour

type loginBody struct {
	Password string `json:"password"`
}

// Login trades the shared admin credential for a session token. A real
// identity provider sits in front of this in bigger deployments; here
// one constant-time compare against config is all the gate there is.
func Login(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data loginBody
	if err := c.ShouldBindJSON(&data); err != nil || data.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Password field can't be empty",
			"requestID": requestID,
		})
		return
	}

	want := viper.GetString("admin.password")
	if want == "" || subtle.ConstantTimeCompare([]byte(data.Password), []byte(want)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Invalid credentials",
			"requestID": requestID,
		})
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "admin",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(sessionTTL).Unix(),
	})

	signed, err := token.SignedString([]byte(viper.GetString("admin.jwt_secret")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to sign admin token", zap.String("requestID", requestID), zap.Error(err))
		return
	}

	c.SetCookie("admin_token", signed, int(sessionTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
