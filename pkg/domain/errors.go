package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind は呼び出し元に返すエラー分類です。
type ErrorKind string

const (
	KindMethodNotAllowed      ErrorKind = "MethodNotAllowed"
	KindInvalidRequest        ErrorKind = "InvalidRequest"
	KindThrottled             ErrorKind = "Throttled"
	KindServerMisconfigured   ErrorKind = "ServerMisconfigured"
	KindUpstreamError         ErrorKind = "UpstreamError"
	KindUpstreamEmptyResponse ErrorKind = "UpstreamEmptyResponse"
	KindResponseDecodeError   ErrorKind = "ResponseDecodeError"
)

// Status は分類ごとの既定の HTTP ステータスを返します。
func (k ErrorKind) Status() int {
	switch k {
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case KindInvalidRequest:
		return http.StatusBadRequest
	case KindThrottled:
		return http.StatusTooManyRequests
	case KindUpstreamEmptyResponse, KindResponseDecodeError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error は分類付きのエラーです。Message と Details だけが呼び出し元に見えます。
// Err には原因を保持し、ログにのみ出力します。
type Error struct {
	Kind    ErrorKind
	Message string
	Details string
	// Status が 0 のときは Kind.Status() を使います。
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus は応答に使う HTTP ステータスを返します。
func (e *Error) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	return e.Kind.Status()
}

// Response は呼び出し元向けの JSON 表現に変換します。
func (e *Error) Response() ErrorResponse {
	return ErrorResponse{Error: e.Message, Code: e.Kind, Details: e.Details}
}

// ErrorResponse は失敗時の応答本文です。
type ErrorResponse struct {
	Error   string    `json:"error"`
	Code    ErrorKind `json:"code"`
	Details string    `json:"details,omitempty"`
}

func newError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func ErrMethodNotAllowed() *Error {
	return newError(KindMethodNotAllowed, "Method not allowed", nil)
}

func ErrInvalidRequest(msg string, err error) *Error {
	return newError(KindInvalidRequest, msg, err)
}

func ErrThrottled() *Error {
	return newError(KindThrottled, "Too many requests", nil)
}

// ErrServerMisconfigured は資格情報の名前や値を含めない汎用メッセージを返します。
func ErrServerMisconfigured(err error) *Error {
	return newError(KindServerMisconfigured, "Server configuration error", err)
}

func ErrUpstream(details string, err error) *Error {
	e := newError(KindUpstreamError, "Upstream AI service error", err)
	e.Details = details
	return e
}

func ErrUpstreamEmpty(details string, err error) *Error {
	e := newError(KindUpstreamEmptyResponse, "Upstream AI service returned no content", err)
	e.Details = details
	return e
}

// ErrNoImage は画像が返らなかった場合のエラーです。
// 地域や機能の制限で起こり得るため 4xx として返します。
func ErrNoImage(details string, err error) *Error {
	e := newError(KindUpstreamEmptyResponse, "No image data returned", err)
	e.Details = details
	e.Status = http.StatusBadRequest
	return e
}

func ErrResponseDecode(err error) *Error {
	return newError(KindResponseDecodeError, "Could not decode AI response", err)
}

// AsError は err を分類付きエラーに変換します。分類できないものは UpstreamError 扱いです。
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return ErrUpstream("", err)
}
