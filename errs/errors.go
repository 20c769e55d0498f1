package errs

import (
	"errors"
	"fmt"
	"time"
)

type ErrType string

const (
	INTERNAL_ERROR  ErrType = "INTERNAL ERROR"
	BAD_INPUT_ERROR ErrType = "BAD INPUT ERROR"
	TIMEOUT_ERROR   ErrType = "TIMEOUT ERROR"
	WARNING         ErrType = "WARNING"
	UNKNOWN_ERROR   ErrType = "UNKNOWN ERROR"
)

// 内部的なエラー
type InternalError struct {
	message string
	wrapped error
}

func NewInternalError(message string) *InternalError {
	return &InternalError{
		message: message,
	}
}
func (e *InternalError) Wrap(err error) error {
	e.wrapped = err
	return e
}

func (e *InternalError) Error() string {
	if e.wrapped == nil {
		return e.message
	}
	return e.message + ": " + e.wrapped.Error()
}

func (e *InternalError) Unwrap() error {
	return e.wrapped
}

// ユーザー起因の無効な入力エラー
// コンパイル時の診断メッセージもこれで表示する
type BadInputError struct {
	message string
	wrapped error
}

func NewBadInputError(message string) *BadInputError {
	return &BadInputError{
		message: message,
	}
}

func (e *BadInputError) Wrap(err error) error {
	e.wrapped = err
	return e
}

func (e *BadInputError) Error() string {
	if e.wrapped == nil {
		return e.message
	}
	return e.message + ": " + e.wrapped.Error()
}

func (e *BadInputError) Unwrap() error {
	return e.wrapped
}

// コンパイル結果の待機がタイムアウトした場合のエラー
type TimeoutError struct {
	Text    string
	Timeout time.Duration
}

func NewTimeoutError(text string, timeout time.Duration) *TimeoutError {
	return &TimeoutError{
		Text:    text,
		Timeout: timeout,
	}
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("compilation of %q did not finish within %s", e.Text, e.Timeout)
}

// 削除済みの変数にアクセスした場合のエラー
// 古いコンパイル結果が削除された変数を参照していると発生するため、警告として扱う
type RemovedVariableError struct {
	Name string
}

func NewRemovedVariableError(name string) *RemovedVariableError {
	return &RemovedVariableError{
		Name: name,
	}
}

func (e *RemovedVariableError) Error() string {
	return fmt.Sprintf("variable %q has been removed", e.Name)
}

// IsRemovedVariable はエラーが削除済み変数へのアクセスによるものかを返す
func IsRemovedVariable(err error) bool {
	var removedErr *RemovedVariableError
	return errors.As(err, &removedErr)
}

// エラーの種類を判定する
func Classify(err error) ErrType {
	var internalErr *InternalError
	var badInputErr *BadInputError
	var timeoutErr *TimeoutError
	var removedErr *RemovedVariableError
	switch {
	case errors.As(err, &removedErr):
		return WARNING
	case errors.As(err, &timeoutErr):
		return TIMEOUT_ERROR
	case errors.As(err, &internalErr):
		return INTERNAL_ERROR
	case errors.As(err, &badInputErr):
		return BAD_INPUT_ERROR
	default:
		return UNKNOWN_ERROR
	}
}

// エラーを処理する関数
func HandleError(err error) {
	errType := Classify(err)
	color := "\033[31m"
	if errType == WARNING {
		color = "\033[33m"
	}
	fmt.Printf("\n%s[%s]\n %s\033[0m\n\n", color, errType, err.Error())
}
