/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

package web

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type ctxKey int

// KeyValues is the context key for the request values stored per call.
const KeyValues ctxKey = 1

// ContextValues carries request-scoped data through the handler chain.
type ContextValues struct {
	TraceID    string
	Method     string
	RequestURI string
}

// Handler is the signature all route handlers implement. Returning a
// non-nil error delegates the response to the centralized error handler.
type Handler func(ctx context.Context, writer http.ResponseWriter, request *http.Request) error

// ServeHTTP makes Handler satisfy http.Handler so it can be registered
// directly on the router.
func (handler Handler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	values := ContextValues{
		TraceID:    uuid.New().String(),
		Method:     request.Method,
		RequestURI: request.RequestURI,
	}
	ctx := context.WithValue(request.Context(), KeyValues, &values)

	if err := handler(ctx, writer, request); err != nil {
		Error(ctx, writer, err)
	}
}
