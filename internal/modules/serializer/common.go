package serializer

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// Response is the envelope of every API reply.
type Response struct {
	Success bool        `json:"success"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Detail  string      `json:"detail,omitempty"`
}

// OK wraps data in a successful response.
func OK(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// List wraps a collection with its length.
func List(data interface{}, count int) Response {
	return Response{Success: true, Count: &count, Data: data}
}

// Msg is a successful response with only a message.
func Msg(msg string) Response {
	return Response{Success: true, Message: msg}
}

// Err
func Err(msg string, err error) Response {
	res := Response{Error: msg}
	// development mode, show error detail
	if err != nil && gin.Mode() != gin.ReleaseMode && err.Error() != msg {
		res.Detail = fmt.Sprintf("%+v", err)
	}
	return res
}

// ParamErr
func ParamErr(msg string, err error) Response {
	if msg == "" {
		msg = "parameter error"
	}
	return Err(msg, err)
}

// DBErr
func DBErr(msg string, err error) Response {
	if msg == "" {
		msg = "Server error"
	}
	return Err(msg, err)
}
