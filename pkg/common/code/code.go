package code

import (
	"errors"
	"fmt"
)

type ErrCode int

const Success ErrCode = 0

const (
	UnDefineErr ErrCode = iota + 10000
	ParamErr
	InvalidStructure
	LoadDatasetErr
	QueryRecordErr
	CreateDataErr
	RecordNotFound
	RPCHttpErr
	RPCHttpCodeErr
	RenderErr
)

// computation domain errors
const (
	UnknownSolute ErrCode = iota + 20000
	UnknownSolvent
	OutOfRange
	MissingData
	PropertyErr
	FitErr
)

var codeMsg = map[ErrCode]string{
	Success:          "success",
	UnDefineErr:      "undefined error",
	ParamErr:         "parameter error",
	InvalidStructure: "invalid structure descriptor",
	LoadDatasetErr:   "load dataset error",
	QueryRecordErr:   "query record error",
	CreateDataErr:    "create data error",
	RecordNotFound:   "record not found",
	RPCHttpErr:       "rpc http request error",
	RPCHttpCodeErr:   "rpc http status code error",
	RenderErr:        "render report error",
	UnknownSolute:    "unknown solute",
	UnknownSolvent:   "unknown solvent",
	OutOfRange:       "temperature out of range",
	MissingData:      "missing data",
	PropertyErr:      "property provider error",
	FitErr:           "correlation fit error",
}

func (c ErrCode) String() string {
	if msg, ok := codeMsg[c]; ok {
		return msg
	}
	return fmt.Sprintf("error code %d", int(c))
}

func (c ErrCode) Int() int {
	return int(c)
}

func (c ErrCode) Error() string {
	return c.String()
}

func (c ErrCode) WithErr(err error) error {
	return &Error{Code: c, Err: err}
}

func (c ErrCode) WithMsg(msg string) error {
	return &Error{Code: c, Msg: msg}
}

func (c ErrCode) WithMsgf(format string, args ...any) error {
	return &Error{Code: c, Msg: fmt.Sprintf(format, args...)}
}

// Error carries a code plus an optional detail message and cause.
type Error struct {
	Code ErrCode
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	default:
		return e.Code.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	c, ok := target.(ErrCode)
	return ok && c == e.Code
}

// CodeOf returns the first ErrCode found in the chain, UnDefineErr otherwise.
func CodeOf(err error) ErrCode {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c ErrCode
	if errors.As(err, &c) {
		return c
	}
	return UnDefineErr
}
