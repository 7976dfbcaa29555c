package service

import (
	"github.com/karios/mission-control/constants"
)

func perr(msg string, status int) error {
	return constants.PublicError{Msg: msg, Status: status}
}
