package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"go-mailing-api/src/domain"
	"go-mailing-api/src/domain/common"
	domainErrors "go-mailing-api/src/domain/errors"
	domainPermission "go-mailing-api/src/domain/permission"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// IdentityKey is the gin context key holding the caller's domainPermission.Identity
const IdentityKey = "identity"

func BindJSON(ctx *gin.Context, request interface{}) error {
	return ctx.ShouldBindJSON(request)
}

// BindValidated binds the JSON body into request. On failure it writes the response
// (field errors as 400, anything else through the error handler) and returns false.
func BindValidated(ctx *gin.Context, commonService common.CommonService, request interface{}) bool {
	err := BindJSON(ctx, request)
	if err == nil {
		return true
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		commonService.AppendValidationErrors(ctx, ve, request)
		return false
	}
	_ = ctx.Error(domainErrors.NewAppError(err, domainErrors.ValidationError))
	return false
}

// Identity returns the caller resolved by the identity middleware
func Identity(ctx *gin.Context) (domainPermission.Identity, error) {
	value, ok := ctx.Get(IdentityKey)
	if !ok {
		return domainPermission.Identity{}, domainErrors.NewAppErrorWithType(domainErrors.NotAuthenticated)
	}
	identity, ok := value.(domainPermission.Identity)
	if !ok {
		return domainPermission.Identity{}, domainErrors.NewAppErrorWithType(domainErrors.NotAuthenticated)
	}
	return identity, nil
}

func ParamID(ctx *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id < 1 {
		return 0, domainErrors.NewAppError(errors.New("param "+name+" must be a positive integer"), domainErrors.ValidationError)
	}
	return id, nil
}

// Filters reads page and pageSize from the query string; bad values fall back to the defaults
func Filters(ctx *gin.Context) domain.DataFilters {
	page, _ := strconv.Atoi(ctx.Query("page"))
	pageSize, _ := strconv.Atoi(ctx.Query("pageSize"))
	return domain.DataFilters{Page: page, PageSize: pageSize}.Normalize()
}

// PageResponse is the JSON envelope of every paginated listing
type PageResponse[R any] struct {
	Data       []R   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

func NewPageResponse[T any, R any](result *domain.PaginatedResult[T], mapper func(*T) R) PageResponse[R] {
	out := PageResponse[R]{
		Data:       []R{},
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
	if result.Data != nil {
		for i := range *result.Data {
			out.Data = append(out.Data, mapper(&(*result.Data)[i]))
		}
	}
	return out
}

// IDResponse is returned by every mutation
type IDResponse struct {
	ID int `json:"id"`
}

func RespondID(ctx *gin.Context, status int, id int) {
	ctx.JSON(status, IDResponse{ID: id})
}

func NoContent(ctx *gin.Context) {
	ctx.Status(http.StatusNoContent)
}
