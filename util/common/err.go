package common

import (
	"errors"
	"fmt"

	"gacha-system/logger"
)

func NewErrorf(format string, a ...any) error {
	msg := fmt.Sprintf(format, a...)
	return errors.New(msg)
}

func NewError(a ...any) error {
	msg := fmt.Sprintln(a...)
	return errors.New(msg)
}

func Recover(msg string) any {
	panicErr := recover()
	if panicErr != nil {
		if msg != "" {
			logger.Error(msg, "panic:", panicErr)
		}
	}
	return panicErr
}

// Combine 将多个错误合并为一个，忽略 nil
func Combine(errs ...error) error {
	errStr := ""
	for _, err := range errs {
		if err != nil {
			if errStr != "" {
				errStr += "\n"
			}
			errStr += err.Error()
		}
	}
	if errStr != "" {
		return errors.New(errStr)
	}
	return nil
}
