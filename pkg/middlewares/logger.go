/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

package middlewares

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/scanwedge/stockscan-service/pkg/web"
)

// Logger middleware logs every request with its duration and trace id
func Logger(next web.Handler) web.Handler {
	return web.Handler(func(ctx context.Context, writer http.ResponseWriter, request *http.Request) error {
		contextValues := ctx.Value(web.KeyValues).(*web.ContextValues)

		start := time.Now()
		err := next(ctx, writer, request)

		log.WithFields(log.Fields{
			"Method":     request.Method,
			"RequestURI": request.RequestURI,
			"TraceID":    contextValues.TraceID,
			"Duration":   time.Since(start).String(),
		}).Debug("Request handled")

		return err
	})
}
