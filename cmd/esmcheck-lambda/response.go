// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/base64"
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
)

// ProxyResponseWriter implements http.ResponseWriter and collects the
// response into an ALBTargetGroupResponse.
type ProxyResponseWriter struct {
	headers http.Header
	body    bytes.Buffer
	status  int
}

func NewProxyResponseWriter() *ProxyResponseWriter {
	return &ProxyResponseWriter{
		headers: make(http.Header),
		status:  -1,
	}
}

func (w *ProxyResponseWriter) Header() http.Header { return w.headers }

func (w *ProxyResponseWriter) Write(body []byte) (int, error) {
	if w.status == -1 {
		w.status = http.StatusOK
	}
	return w.body.Write(body)
}

func (w *ProxyResponseWriter) WriteHeader(status int) {
	w.status = status
}

func (w *ProxyResponseWriter) GetProxyResponse() (events.ALBTargetGroupResponse, error) {
	if w.status == -1 {
		return events.ALBTargetGroupResponse{}, errors.New("Status code not set on response")
	}

	headers := map[string]string{}
	for h := range w.headers {
		headers[h] = w.headers.Get(h)
	}

	body := w.body.String()
	isBase64 := false
	if !utf8.ValidString(body) {
		body = base64.StdEncoding.EncodeToString(w.body.Bytes())
		isBase64 = true
	}

	return events.ALBTargetGroupResponse{
		StatusCode:        w.status,
		StatusDescription: http.StatusText(w.status),
		Headers:           headers,
		Body:              body,
		IsBase64Encoded:   isBase64,
	}, nil
}
