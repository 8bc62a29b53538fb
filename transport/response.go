package transport

import (
	"encoding/json"
	"net/http"

	"github.com/Qguillot-pro/barstock-pro/constant"
	"github.com/Qguillot-pro/barstock-pro/utils/errors"
)

type baseResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(baseResponse{
		Code:    constant.ErrorTypeCode[constant.Successful],
		Message: constant.ErrorTypeMessage[constant.Successful],
		Data:    data,
	})
}

func writeError(w http.ResponseWriter, err error) {
	code := constant.ErrorTypeCode[constant.ErrInternal]
	message := constant.ErrorTypeMessage[constant.ErrInternal]
	httpCode := constant.ErrorTypeHTTPCode[constant.ErrInternal]

	if customErr, ok := err.(errors.CustomError); ok {
		code = customErr.ErrorCode()
		message = customErr.Error()
		httpCode = customErr.ErrorHTTPCode()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode)
	_ = json.NewEncoder(w).Encode(baseResponse{
		Code:    code,
		Message: message,
	})
}
