/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

package routes

import (
	"github.com/gorilla/mux"

	"github.com/scanwedge/stockscan-service/app/config"
	"github.com/scanwedge/stockscan-service/app/mapping"
	"github.com/scanwedge/stockscan-service/app/routes/handlers"
	"github.com/scanwedge/stockscan-service/app/scan"
	"github.com/scanwedge/stockscan-service/pkg/db"
	"github.com/scanwedge/stockscan-service/pkg/middlewares"
	"github.com/scanwedge/stockscan-service/pkg/web"
)

// Route struct holds the api route definition
type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc web.Handler
}

// NewRouter creates the routes for scanning, reconciliation and exports
func NewRouter(masterDB *db.DB, maxSize int, processor *scan.Processor, mappings *mapping.Store) *mux.Router {

	stockScan := handlers.StockScan{MasterDB: masterDB, MaxSize: maxSize, Processor: processor, Mappings: mappings}

	var routes = []Route{
		{
			"Index",
			"GET",
			"/",
			stockScan.Index,
		},
		{
			"ProcessScan",
			"POST",
			"/scan",
			stockScan.ProcessScan,
		},
		{
			"GetScans",
			"GET",
			"/scans",
			stockScan.GetScans,
		},
		{
			"AddManualScan",
			"POST",
			"/scans/manual",
			stockScan.AddManualScan,
		},
		{
			"AddZeroCounts",
			"POST",
			"/scans/zerocount",
			stockScan.AddZeroCounts,
		},
		{
			"UpdateScan",
			"PUT",
			"/scans/{id}",
			stockScan.UpdateScan,
		},
		{
			"SetScanFlag",
			"PUT",
			"/scans/{id}/set",
			stockScan.SetScanFlag,
		},
		{
			"DeleteScan",
			"DELETE",
			"/scans/{id}",
			stockScan.DeleteScan,
		},
		{
			"DeleteAllScans",
			"DELETE",
			"/scans",
			stockScan.DeleteAllScans,
		},
		{
			"UploadSnapshot",
			"POST",
			"/erpstock/snapshot",
			stockScan.UploadSnapshot,
		},
		{
			"GetErpStock",
			"GET",
			"/erpstock",
			stockScan.GetErpStock,
		},
		{
			"GetMappings",
			"GET",
			"/mappings",
			stockScan.GetMappings,
		},
		{
			"AddMapping",
			"POST",
			"/mappings",
			stockScan.AddMapping,
		},
		{
			"ImportMappings",
			"POST",
			"/mappings/import",
			stockScan.ImportMappings,
		},
		{
			"ExportMappings",
			"GET",
			"/mappings/export",
			stockScan.ExportMappings,
		},
		{
			"DeleteMapping",
			"DELETE",
			"/mappings/{gtin}",
			stockScan.DeleteMapping,
		},
		{
			"ExportStockCount",
			"GET",
			"/export/stockcount",
			stockScan.ExportStockCount,
		},
		{
			"ExportComparison",
			"GET",
			"/export/comparison",
			stockScan.ExportComparison,
		},
	}

	router := mux.NewRouter().StrictSlash(true)
	for _, route := range routes {

		var handler = route.HandlerFunc
		handler = middlewares.Recover(handler)
		handler = middlewares.Logger(handler)
		handler = middlewares.Bodylimiter(handler)
		if config.AppConfig.EnableCORS {
			handler = middlewares.CORS(config.AppConfig.CORSOrigin, handler)
		}

		router.
			Methods(route.Method).
			Path(route.Pattern).
			Name(route.Name).
			Handler(handler)
	}

	return router
}
