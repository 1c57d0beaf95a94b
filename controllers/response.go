package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the JSON body of every API error
type ErrorResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Error codes surfaced to clients
var (
	ErrCodeUserNotFound  = ErrorResponse{Status: http.StatusNotFound, Error: "NOT_FOUND", Message: "해당 사용자를 찾을 수 없습니다."}
	ErrCodeStockNotFound = ErrorResponse{Status: http.StatusNotFound, Error: "NOT_FOUND", Message: "해당 종목을 찾을 수 없습니다."}
	ErrCodeInternal      = ErrorResponse{Status: http.StatusInternalServerError, Error: "INTERNAL_SERVER_ERROR", Message: "서버 내부 오류가 발생했습니다."}
)

func respondError(c *gin.Context, body ErrorResponse) {
	c.AbortWithStatusJSON(body.Status, body)
}

func respondInternal(c *gin.Context, err error) {
	log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	respondError(c, ErrCodeInternal)
}

// respondBindingError writes a {field: message} map for validation failures
func respondBindingError(c *gin.Context, err error) {
	fields := map[string]string{}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Field() + " is " + fe.Tag()
		}
	} else {
		fields["body"] = err.Error()
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, fields)
}
