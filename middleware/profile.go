package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ProfileKey is the context key holding the profile a request runs as.
const ProfileKey = "profile"

// Profile picks the profile for the request from the "profile" header or
// query parameter, falling back to defaultProfile.
func Profile(defaultProfile string) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := c.GetHeader(ProfileKey)
		if profile == "" {
			profile = c.Query(ProfileKey)
		}
		if profile == "" {
			profile = defaultProfile
		}

		if err := ValidateProfile(profile); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Set(ProfileKey, profile)
		c.Next()
	}
}

// ValidateProfile rejects names that cannot be a single directory under
// /Users.
func ValidateProfile(profile string) error {
	switch {
	case profile == "", profile == ".", profile == "..":
		return fmt.Errorf("invalid profile: %q", profile)
	case strings.ContainsAny(profile, "/~"):
		return fmt.Errorf("invalid profile: %q", profile)
	}
	return nil
}
