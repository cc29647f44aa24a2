package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type errorBody struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err onto its status code. Internal causes are logged, never returned.
func WriteError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	kind := KindOf(err)
	msg := "internal server error"

	var e *Error
	if kind != KindInternal && errors.As(err, &e) {
		msg = e.Message
	} else if log != nil {
		log.Error("request failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}

	WriteJSON(w, HTTPStatus(kind), errorBody{Error: errorPayload{Kind: kind, Message: msg}})
}

// DecodeJSON reads the request body into dst and runs its validate tags.
func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return NewValidationError("request body is required")
		}
		return NewValidationError("malformed JSON body")
	}
	return ValidateStruct(dst)
}

func ValidateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, describeFieldError(fe))
		}
		return NewValidationError(strings.Join(msgs, "; "))
	}
	return NewValidationError(err.Error())
}

func describeFieldError(fe validator.FieldError) string {
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// PathID parses a positive numeric route variable.
func PathID(r *http.Request, name string) (uint64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, NewValidationError(fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}

// QueryInt parses an optional non-negative integer query parameter.
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, NewValidationError(fmt.Sprintf("%s must be a non-negative integer", name))
	}
	return n, nil
}

// FormUpload extracts an optional file field from a parsed multipart form.
// The returned closer must be called once the upload has been consumed.
func FormUpload(r *http.Request, field string) (*Upload, func(), error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, NewValidationError("invalid " + field + " upload")
	}
	upload := &Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	}
	if !DetectFileType(upload.ContentType).IsValid() {
		file.Close()
		return nil, func() {}, NewValidationError(field + " must be an image or video")
	}
	return upload, func() { file.Close() }, nil
}

func IsMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
