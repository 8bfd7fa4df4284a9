package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"gtotp/pkg/authenticator"
	"gtotp/pkg/i18n"
	"gtotp/pkg/logging"
)

type generateRequest struct {
	Key string `json:"key" validate:"required"`
}

type generateResponse struct {
	QRCode  string `json:"qrCode"`
	URL     string `json:"url"`
	Key     string `json:"key"`
	Secret  string `json:"secret"`
	Encoded string `json:"encoded"`
	Host    string `json:"host"`
}

type verifyRequest struct {
	Secret string `json:"secret" validate:"required,base64"`
	Code   string `json:"code" validate:"required"`
}

type handlers struct {
	auth     *authenticator.Authenticator
	validate *requestValidator
}

func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return newBadRequest(i18n.MsgInvalidBody, nil)
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return newBadRequest(i18n.MsgInvalidBody, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return newBadRequest(i18n.MsgInvalidBody, errors.New("trailing data after body"))
	}
	return nil
}

func lang(r *http.Request) string {
	return r.Header.Get("Accept-Language")
}

func (h *handlers) generate(r *http.Request) (Response, error) {
	var req generateRequest
	if err := decodeBody(r, &req); err != nil {
		return Response{}, err
	}
	req.Key = strings.TrimSpace(req.Key)
	if err := h.validate.Validate(req, lang(r)); err != nil {
		return Response{}, err
	}
	logging.Infof("%s [%s]", i18n.Msgf(i18n.MsgVerifyKey, req.Key), RequestID(r.Context()))

	key, err := h.auth.GenerateKey(req.Key)
	if err != nil {
		if errors.Is(err, authenticator.ErrEmptyLabel) {
			return Response{}, newBadRequest(i18n.MsgEmptyKey, err)
		}
		return Response{}, &Error{status: http.StatusInternalServerError, key: i18n.MsgErrorKey, args: []any{req.Key}, err: err}
	}
	return Response{Data: generateResponse{
		QRCode:  key.QRCode,
		URL:     key.URL,
		Key:     key.Label,
		Secret:  base64.StdEncoding.EncodeToString(key.Secret),
		Encoded: key.Encoded,
		Host:    key.Host,
	}}, nil
}

func (h *handlers) verify(r *http.Request) (Response, error) {
	var req verifyRequest
	if err := decodeBody(r, &req); err != nil {
		return Response{}, err
	}
	req.Secret = strings.TrimSpace(req.Secret)
	req.Code = strings.TrimSpace(req.Code)
	if err := h.validate.Validate(req, lang(r)); err != nil {
		return Response{}, err
	}
	logging.Infof("%s [%s]", i18n.Msgf(i18n.MsgVerifyCode), RequestID(r.Context()))

	raw, err := base64.StdEncoding.DecodeString(req.Secret)
	if err != nil {
		return Response{}, newBadRequest(i18n.MsgInvalidBody, err)
	}
	res, err := h.auth.VerifySecret(raw, req.Code)
	switch {
	case errors.Is(err, authenticator.ErrEmptySecret):
		return Response{}, newBadRequest(i18n.MsgEmptySecret, err)
	case errors.Is(err, authenticator.ErrEmptyCode):
		return Response{}, newBadRequest(i18n.MsgEmptyCode, err)
	case err != nil:
		return Response{}, &Error{status: http.StatusInternalServerError, key: i18n.MsgErrorCode, err: err}
	}
	if !res.Valid {
		return Response{Data: false, Errors: []string{i18n.ResolveLang(i18n.MsgInvalidCode, lang(r))}}, nil
	}
	return Response{Data: true}, nil
}

func (h *handlers) health(*http.Request) (Response, error) {
	return Response{Data: map[string]string{"status": "ok"}}, nil
}
