package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	autherrors "go-leave/internal/auth/errors"
	"go-leave/internal/rbac"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const principalKey = "principal"

func abortWith(c *gin.Context, err *apperror.AppError) {
	response.Error(c, err.HTTPStatus, err.Code, err.Message, nil)
	c.Abort()
}

func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abortWith(c, autherrors.ErrTokenMissing)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(jwtSecret), nil
		})

		if err != nil || !token.Valid {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWith(c, autherrors.ErrTokenExpired)
				return
			}
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		rawUserID, _ := claims["user_id"].(string)
		userID, err := uuid.Parse(rawUserID)
		if err != nil {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		principal := rbac.Principal{UserID: userID}

		// employee_id is absent for accounts without an employee profile.
		if rawEmployeeID, _ := claims["employee_id"].(string); rawEmployeeID != "" {
			employeeID, err := uuid.Parse(rawEmployeeID)
			if err != nil {
				abortWith(c, autherrors.ErrInvalidToken)
				return
			}
			principal.EmployeeID = &employeeID
			c.Set("employee_id", rawEmployeeID)
		}

		role, _ := claims["role"].(string)
		principal.Role = rbac.ParseRole(role)

		c.Set("user_id", rawUserID)
		c.Set("role", string(principal.Role))
		c.Set(principalKey, principal)

		ctx := contextutil.WithUserID(c.Request.Context(), rawUserID)
		ctx = contextutil.WithLogger(ctx, contextutil.GetLogger(ctx, zap.L()).With(zap.String("user_id", rawUserID)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// Principal returns the authenticated caller. The zero value is returned
// when AuthMiddleware did not run.
func Principal(c *gin.Context) rbac.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(rbac.Principal); ok {
			return p
		}
	}
	return rbac.Principal{}
}

// SetPrincipal is used by handler tests to stand in for AuthMiddleware.
func SetPrincipal(c *gin.Context, p rbac.Principal) {
	c.Set("user_id", p.UserID.String())
	c.Set("role", string(p.Role))
	if p.EmployeeID != nil {
		c.Set("employee_id", p.EmployeeID.String())
	}
	c.Set(principalKey, p)
}

func RequireRole(allowed ...rbac.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := Principal(c).Role
		for _, r := range allowed {
			if role == r {
				c.Next()
				return
			}
		}
		response.Error(c, http.StatusForbidden, apperror.CodeForbidden, "Forbidden", nil)
		c.Abort()
	}
}
