package public

import (
	"errors"

	"github.com/bazaar-next/internal/http/response"
	"github.com/bazaar-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var actorErrorRules = []mappedHandlerError{
	{target: service.ErrUserBanned, code: response.CodeForbidden, msg: service.ErrUserBanned.Error()},
	{target: service.ErrUnauthorized, code: response.CodeForbidden, msg: service.ErrUnauthorized.Error()},
	{target: service.ErrUserNotFound, code: response.CodeNotFound, msg: service.ErrUserNotFound.Error()},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrAddressNotFound, code: response.CodeNotFound, msg: service.ErrAddressNotFound.Error()},
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, msg: service.ErrCartEmpty.Error()},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, msg: service.ErrCartItemNotFound.Error()},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: service.ErrProductNotFound.Error()},
	{target: service.ErrProductUnavailable, code: response.CodeBadRequest, msg: service.ErrProductUnavailable.Error()},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, msg: service.ErrInvalidQuantity.Error()},
	{target: service.ErrShopNotFound, code: response.CodeNotFound, msg: service.ErrShopNotFound.Error()},
	{target: service.ErrOrderCreateFailed, code: response.CodeInternal, msg: service.ErrOrderCreateFailed.Error()},
}

var orderLookupErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: service.ErrOrderNotFound.Error()},
	{target: service.ErrOrderFetchFailed, code: response.CodeInternal, msg: service.ErrOrderFetchFailed.Error()},
	{target: service.ErrShopNotFound, code: response.CodeNotFound, msg: service.ErrShopNotFound.Error()},
}

var orderStatusErrorRules = []mappedHandlerError{
	{target: service.ErrOrderStatusInvalid, code: response.CodeBadRequest, msg: service.ErrOrderStatusInvalid.Error()},
	{target: service.ErrOrderHasNoItems, code: response.CodeBadRequest, msg: service.ErrOrderHasNoItems.Error()},
	{target: service.ErrCancelNotRequested, code: response.CodeBadRequest, msg: service.ErrCancelNotRequested.Error()},
	{target: service.ErrOrderUpdateFailed, code: response.CodeInternal, msg: service.ErrOrderUpdateFailed.Error()},
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: service.ErrProductNotFound.Error()},
	{target: service.ErrProductUnavailable, code: response.CodeBadRequest, msg: service.ErrProductUnavailable.Error()},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, msg: service.ErrInvalidQuantity.Error()},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, msg: service.ErrCartItemNotFound.Error()},
}

var addressErrorRules = []mappedHandlerError{
	{target: service.ErrWardNotFound, code: response.CodeNotFound, msg: service.ErrWardNotFound.Error()},
	{target: service.ErrAddressNotFound, code: response.CodeNotFound, msg: service.ErrAddressNotFound.Error()},
}
