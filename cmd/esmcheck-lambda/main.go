// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

// Binary esmcheck-lambda exposes the validation API behind an AWS ALB
// target group, translating ALB events into plain HTTP requests.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/esmtools/esmcheck/pkg/server"
)

type HandlerFuncAdapter struct {
	RequestAccessor
	handler http.Handler
}

func New(handler http.Handler) *HandlerFuncAdapter {
	return &HandlerFuncAdapter{
		handler: handler,
	}
}

func (h *HandlerFuncAdapter) Proxy(event events.ALBTargetGroupRequest) (events.ALBTargetGroupResponse, error) {
	req, err := h.ProxyEventToHTTPRequest(event)
	if err != nil {
		return events.ALBTargetGroupResponse{StatusCode: 421}, fmt.Errorf("Could not convert event to request: %v", err)
	}

	w := NewProxyResponseWriter()
	h.handler.ServeHTTP(http.ResponseWriter(w), req)

	resp, err := w.GetProxyResponse()
	if err != nil {
		return events.ALBTargetGroupResponse{StatusCode: 422}, fmt.Errorf("Error while generating response: %v", err)
	}

	return resp, nil
}

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "esmcheck-lambda: Error: %s\n", err)
		os.Exit(1)
	}

	strict := os.Getenv("ESMCHECK_STRICT") == "true"

	// Lambda invocations are stateless, so runs are not recorded.
	srv := server.New(server.Opts{Strict: strict}, nil, nil, log)
	lambda.Start(New(srv.Mux()).Proxy)
}
