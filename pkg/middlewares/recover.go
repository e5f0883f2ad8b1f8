/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

package middlewares

import (
	"context"
	"net/http"
	"runtime/debug"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/scanwedge/stockscan-service/pkg/web"
)

// Recover middleware converts panics in downstream handlers into 500 responses
func Recover(next web.Handler) web.Handler {
	return web.Handler(func(ctx context.Context, writer http.ResponseWriter, request *http.Request) (err error) {
		defer func() {
			if r := recover(); r != nil {
				contextValues := ctx.Value(web.KeyValues).(*web.ContextValues)
				log.WithFields(log.Fields{
					"Method":     request.Method,
					"RequestURI": request.RequestURI,
					"TraceID":    contextValues.TraceID,
					"Panic":      r,
					"Stack":      string(debug.Stack()),
				}).Error("Recovered from panic")
				err = errors.Errorf("panic: %v", r)
			}
		}()
		return next(ctx, writer, request)
	})
}
